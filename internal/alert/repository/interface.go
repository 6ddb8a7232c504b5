package repository

import (
	"context"
	"time"

	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/paginator"
)

// Repository is the durable store of alert definitions and notification
// history.
//
//go:generate mockery --name Repository
type Repository interface {
	// ListActiveAlerts returns the active alerts watching stationCode.
	ListActiveAlerts(ctx context.Context, stationCode string) ([]model.Alert, error)
	// UpdateLastSent moves last_notification_sent from opts.Previous to
	// opts.SentAt. It returns ErrLastSentConflict when the stored value no
	// longer equals opts.Previous.
	UpdateLastSent(ctx context.Context, opts UpdateLastSentOptions) error
	AppendHistory(ctx context.Context, event model.NotificationEvent) error
	// OnAlertChanged blocks, calling fn for every alert definition change,
	// until ctx is done.
	OnAlertChanged(ctx context.Context, fn func(AlertChange)) error

	Create(ctx context.Context, opts CreateOptions) (model.Alert, error)
	Detail(ctx context.Context, id string) (model.Alert, error)
	Update(ctx context.Context, opts UpdateOptions) (model.Alert, error)
	Delete(ctx context.Context, id string) (model.Alert, error)
	List(ctx context.Context, opts ListOptions) ([]model.Alert, error)

	ListHistory(ctx context.Context, opts ListHistoryOptions) ([]model.NotificationEvent, paginator.Paginator, error)
	// ListHistoryBefore returns history records sent before t, oldest first.
	ListHistoryBefore(ctx context.Context, t time.Time) ([]model.NotificationEvent, error)
	DeleteHistoryBefore(ctx context.Context, t time.Time) (int64, error)
}
