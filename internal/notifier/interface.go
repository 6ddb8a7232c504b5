package notifier

import (
	"context"

	"station-alert-srv/internal/model"
)

// Notification is one alert delivery request.
type Notification struct {
	Recipient    string
	StationCode  string
	StationName  string
	Kind         model.AlertKind
	Threshold    int
	CurrentValue int
}

// Sender delivers a single notification. A non-nil error always comes with
// StatusFailed.
//
//go:generate mockery --name Sender
type Sender interface {
	Send(ctx context.Context, n Notification) (model.DeliveryStatus, error)
}

// Severity ranks an operator report.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type ReportField struct {
	Name   string
	Value  string
	Inline bool
}

// Report is an operator-facing message.
type Report struct {
	Severity    Severity
	Title       string
	Description string
	Fields      []ReportField
}

// Reporter posts operator reports.
type Reporter interface {
	Report(ctx context.Context, r Report) error
}
