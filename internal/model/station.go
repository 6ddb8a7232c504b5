package model

import (
	"time"

	"station-alert-srv/internal/sqlboiler"
)

// Station is the static metadata of a dock station.
type Station struct {
	Code      string    `json:"station_code"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewStationFromDB(db *sqlboiler.VelibStation) Station {
	return Station{
		Code:      db.StationCode,
		Name:      db.Name,
		Capacity:  db.Capacity,
		Lat:       db.Lat,
		Lon:       db.Lon,
		UpdatedAt: db.UpdatedAt,
	}
}
