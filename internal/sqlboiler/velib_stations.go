package sqlboiler

import "time"

type VelibStation struct {
	StationCode string    `boil:"station_code" json:"station_code"`
	Name        string    `boil:"name" json:"name"`
	Capacity    int       `boil:"capacity" json:"capacity"`
	Lat         float64   `boil:"lat" json:"lat"`
	Lon         float64   `boil:"lon" json:"lon"`
	UpdatedAt   time.Time `boil:"updated_at" json:"updated_at"`
}
