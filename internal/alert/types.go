package alert

import (
	"time"

	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/paginator"
)

// Phase is where an alert stands in the dispatch cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCrossed
	PhaseThrottled
	PhaseDispatching
	PhaseRecorded
)

func (p Phase) String() string {
	switch p {
	case PhaseCrossed:
		return "crossed"
	case PhaseThrottled:
		return "throttled"
	case PhaseDispatching:
		return "dispatching"
	case PhaseRecorded:
		return "recorded"
	default:
		return "idle"
	}
}

// Crossing is an alert whose metric moved from below to at-or-above its
// threshold.
type Crossing struct {
	Alert model.Alert
	Value int
}

type CreateInput struct {
	StationCode    string
	Kind           string
	Threshold      int
	Frequency      string
	Recipient      string
	UserIdentifier string
}

// UpdateInput patches an alert. Nil fields are left unchanged.
type UpdateInput struct {
	ID        string
	Threshold *int
	IsActive  *bool
	Frequency *string
}

type ListInput struct {
	UserIdentifier string
	ActiveOnly     bool
}

type ListHistoryInput struct {
	Recipient     string
	PaginateQuery paginator.PaginateQuery
}

type ListHistoryOutput struct {
	Events    []model.NotificationEvent
	Paginator paginator.Paginator
}

// PurgeOutput reports one retention run.
type PurgeOutput struct {
	Deleted    int64
	ArchiveKey string
}

type RetentionOptions struct {
	Interval time.Duration
	Period   time.Duration
}
