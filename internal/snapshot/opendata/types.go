package opendata

import (
	"time"

	"station-alert-srv/internal/model"
)

// record is one row of the velib-disponibilite-en-temps-reel dataset.
type record struct {
	StationCode       string  `json:"stationcode"`
	Name              string  `json:"name"`
	IsInstalled       string  `json:"is_installed"`
	Capacity          int     `json:"capacity"`
	NumDocksAvailable int     `json:"numdocksavailable"`
	NumBikesAvailable int     `json:"numbikesavailable"`
	Mechanical        int     `json:"mechanical"`
	EBike             int     `json:"ebike"`
	IsRenting         string  `json:"is_renting"`
	IsReturning       string  `json:"is_returning"`
	DueDate           string  `json:"duedate"`
	Coordinates       *coords `json:"coordonnees_geo"`
}

type coords struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type page struct {
	TotalCount int      `json:"total_count"`
	Results    []record `json:"results"`
}

// StationReading pairs a station's metadata with its current occupancy.
type StationReading struct {
	Station  model.Station
	Snapshot model.StationSnapshot
}

const defaultStationName = "Station Vélib"

func (r record) valid() bool {
	return r.StationCode != "" && r.Coordinates != nil && r.Coordinates.Lat != 0 && r.Coordinates.Lon != 0
}

// reading converts r. now stamps the station row and is the snapshot time
// when the record carries no parseable duedate.
func (r record) reading(now time.Time) StationReading {
	ts := now
	if r.DueDate != "" {
		if t, err := time.Parse(time.RFC3339, r.DueDate); err == nil {
			ts = t.UTC()
		}
	}
	name := r.Name
	if name == "" {
		name = defaultStationName
	}
	return StationReading{
		Station: model.Station{
			Code:      r.StationCode,
			Name:      name,
			Capacity:  r.Capacity,
			Lat:       r.Coordinates.Lat,
			Lon:       r.Coordinates.Lon,
			UpdatedAt: now,
		},
		Snapshot: model.StationSnapshot{
			StationCode:              r.StationCode,
			Timestamp:                ts,
			BikesAvailable:           r.NumBikesAvailable,
			EBikesAvailable:          r.EBike,
			MechanicalBikesAvailable: r.Mechanical,
			DocksAvailable:           r.NumDocksAvailable,
		},
	}
}
