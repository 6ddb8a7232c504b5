package alert

import (
	"context"
	"time"

	"station-alert-srv/internal/model"
)

// Engine turns the snapshot stream into notifications.
type Engine interface {
	// Run consumes the snapshot source until ctx is done, then drains queued
	// snapshots. It returns once every station worker has stopped.
	Run(ctx context.Context) error
	// HandleSnapshot evaluates and dispatches one snapshot synchronously.
	HandleSnapshot(ctx context.Context, s model.StationSnapshot) error
	// Shutdown stops the subscription and waits for Run to drain, bounded
	// by ctx.
	Shutdown(ctx context.Context) error
	AlertPhase(alertID string) Phase
	// InvalidateStation drops cached alerts of a station.
	InvalidateStation(stationCode string)
}

// UseCase manages alert definitions and notification history.
type UseCase interface {
	Create(ctx context.Context, input CreateInput) (model.Alert, error)
	Detail(ctx context.Context, id string) (model.Alert, error)
	Update(ctx context.Context, input UpdateInput) (model.Alert, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, input ListInput) ([]model.Alert, error)
	ListHistory(ctx context.Context, input ListHistoryInput) (ListHistoryOutput, error)

	// PurgeHistory archives then deletes history sent before olderThan.
	PurgeHistory(ctx context.Context, olderThan time.Time) (PurgeOutput, error)
	// RunRetention purges on every interval until ctx is done.
	RunRetention(ctx context.Context, opts RetentionOptions) error
}
