package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"station-alert-srv/internal/alert/repository"
	pkgLog "station-alert-srv/pkg/log"

	"github.com/friendsofgo/errors"
)

//go:embed schema.sql
var schema string

const (
	alertChangedChannel  = "alert_changed"
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

type implRepository struct {
	l     pkgLog.Logger
	db    *sql.DB
	dsn   string
	clock func() time.Time
}

var _ repository.Repository = &implRepository{}

// New returns the Postgres repository. dsn is used for the dedicated
// LISTEN connection behind OnAlertChanged.
func New(l pkgLog.Logger, db *sql.DB, dsn string) *implRepository {
	return &implRepository{
		l:     l,
		db:    db,
		dsn:   dsn,
		clock: time.Now,
	}
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (r *implRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "postgres: apply schema")
	}
	return nil
}
