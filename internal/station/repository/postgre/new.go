package postgres

import (
	"database/sql"

	"station-alert-srv/internal/station/repository"
	pkgLog "station-alert-srv/pkg/log"
)

type implRepository struct {
	l  pkgLog.Logger
	db *sql.DB
}

var _ repository.Repository = &implRepository{}

func New(l pkgLog.Logger, db *sql.DB) *implRepository {
	return &implRepository{l: l, db: db}
}
