package model

import (
	"time"

	"station-alert-srv/internal/sqlboiler"

	"github.com/aarondl/null/v8"
)

// DeliveryStatus is the outcome of one dispatch attempt.
type DeliveryStatus string

const (
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
	StatusPending DeliveryStatus = "pending"
)

// NotificationEvent is the immutable history record of one dispatch attempt.
type NotificationEvent struct {
	ID           string         `json:"id"`
	StationCode  string         `json:"station_code"`
	StationName  string         `json:"station_name"`
	AlertID      string         `json:"alert_id"`
	Recipient    string         `json:"user_email"`
	SentAt       time.Time      `json:"sent_at"`
	Kind         AlertKind      `json:"alert_type"`
	Threshold    int            `json:"threshold"`
	CurrentValue int            `json:"current_value"`
	Status       DeliveryStatus `json:"status"`
	Error        string         `json:"error,omitempty"`
}

func NewNotificationEventFromDB(db *sqlboiler.NotificationHistory) NotificationEvent {
	return NotificationEvent{
		ID:           db.ID,
		StationCode:  db.StationCode,
		StationName:  db.StationName.String,
		AlertID:      db.AlertID,
		Recipient:    db.UserEmail,
		SentAt:       db.SentAt,
		Kind:         AlertKind(db.AlertType),
		Threshold:    db.Threshold,
		CurrentValue: db.CurrentValue,
		Status:       DeliveryStatus(db.Status),
		Error:        db.ErrorMessage.String,
	}
}

func (e NotificationEvent) ToDBHistory() *sqlboiler.NotificationHistory {
	return &sqlboiler.NotificationHistory{
		ID:           e.ID,
		StationCode:  e.StationCode,
		StationName:  null.NewString(e.StationName, e.StationName != ""),
		AlertID:      e.AlertID,
		UserEmail:    e.Recipient,
		SentAt:       e.SentAt,
		AlertType:    string(e.Kind),
		Threshold:    e.Threshold,
		CurrentValue: e.CurrentValue,
		Status:       string(e.Status),
		ErrorMessage: null.NewString(e.Error, e.Error != ""),
	}
}
