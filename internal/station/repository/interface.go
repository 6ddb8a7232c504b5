package repository

import (
	"context"
	"errors"

	"station-alert-srv/internal/model"
)

var ErrNotFound = errors.New("station not found")

//go:generate mockery --name Repository
type Repository interface {
	// Name returns the display name of a station.
	Name(ctx context.Context, code string) (string, error)
	// UpsertStations writes station metadata, keyed by station code.
	UpsertStations(ctx context.Context, stations []model.Station) error
}
