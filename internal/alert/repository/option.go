package repository

import (
	"time"

	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/paginator"
)

type UpdateLastSentOptions struct {
	AlertID string
	// Previous is the value the throttle decision was based on. Nil means
	// the alert had never been sent.
	Previous *time.Time
	SentAt   time.Time
}

type CreateOptions struct {
	Alert model.Alert
}

// UpdateOptions patches an alert. Only non-nil fields are written.
type UpdateOptions struct {
	ID        string
	Threshold *int
	IsActive  *bool
	Frequency *model.Frequency
}

type ListOptions struct {
	UserIdentifier string
	ActiveOnly     bool
}

type ListHistoryOptions struct {
	Recipient     string
	PaginateQuery paginator.PaginateQuery
}

// ChangeOp is the kind of row change behind an AlertChange.
type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
	// ChangeReset is emitted after the change feed reconnects; any cached
	// alert may be stale.
	ChangeReset ChangeOp = "RESET"
)

type AlertChange struct {
	Op          ChangeOp `json:"op"`
	AlertID     string   `json:"id"`
	StationCode string   `json:"station_code"`
	// PreviousStationCode is set on UPDATE when the station moved.
	PreviousStationCode string `json:"old_station_code,omitempty"`
}
