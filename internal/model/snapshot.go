package model

import "time"

// StationSnapshot is one occupancy reading of a station.
type StationSnapshot struct {
	StationCode              string    `json:"station_code"`
	Timestamp                time.Time `json:"timestamp"`
	BikesAvailable           int       `json:"bikes_available"`
	EBikesAvailable          int       `json:"ebikes_available"`
	MechanicalBikesAvailable int       `json:"mechanical_bikes_available"`
	DocksAvailable           int       `json:"docks_available"`
}

// Value returns the metric watched by kind. ok is false for unknown kinds.
func (s StationSnapshot) Value(kind AlertKind) (int, bool) {
	switch kind {
	case KindBikesAvailable:
		return s.BikesAvailable, true
	case KindDocksAvailable:
		return s.DocksAvailable, true
	case KindEBikesAvailable:
		return s.EBikesAvailable, true
	case KindMechanicalAvailable:
		return s.MechanicalBikesAvailable, true
	}
	return 0, false
}
