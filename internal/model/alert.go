package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"station-alert-srv/internal/sqlboiler"

	"github.com/aarondl/null/v8"
)

// AlertKind selects which station metric an alert watches.
type AlertKind string

const (
	KindBikesAvailable      AlertKind = "bikes_available"
	KindDocksAvailable      AlertKind = "docks_available"
	KindEBikesAvailable     AlertKind = "ebikes_available"
	KindMechanicalAvailable AlertKind = "mechanical_bikes"
)

var alertKinds = []AlertKind{
	KindBikesAvailable,
	KindDocksAvailable,
	KindEBikesAvailable,
	KindMechanicalAvailable,
}

func (k AlertKind) Valid() bool {
	for _, v := range alertKinds {
		if k == v {
			return true
		}
	}
	return false
}

func (k AlertKind) String() string {
	return string(k)
}

// ParseAlertKind accepts the wire names, case-insensitively.
func ParseAlertKind(s string) (AlertKind, error) {
	k := AlertKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Frequency is the delivery policy of an alert.
type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyHourly    Frequency = "hourly"
	FrequencyDaily     Frequency = "daily"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyImmediate, FrequencyHourly, FrequencyDaily:
		return true
	}
	return false
}

// ParseFrequency maps the empty string to immediate.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FrequencyImmediate, nil
	}
	f := Frequency(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
	}
	return f, nil
}

var (
	ErrUnknownKind       = errors.New("unknown alert kind")
	ErrUnknownFrequency  = errors.New("unknown alert frequency")
	ErrNegativeThreshold = errors.New("alert threshold must be >= 0")
)

// Alert is a user-defined rule on one station metric.
type Alert struct {
	ID                   string     `json:"id"`
	StationCode          string     `json:"station_code"`
	Kind                 AlertKind  `json:"alert_type"`
	Threshold            int        `json:"threshold"`
	IsActive             bool       `json:"is_active"`
	Frequency            Frequency  `json:"notification_frequency"`
	LastNotificationSent *time.Time `json:"last_notification_sent,omitempty"`
	Recipient            string     `json:"user_email"`
	UserIdentifier       string     `json:"user_identifier"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Validate reports the configuration errors the engine refuses to evaluate.
func (a Alert) Validate() error {
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
	if a.Threshold < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeThreshold, a.Threshold)
	}
	return nil
}

func NewAlertFromDB(db *sqlboiler.UserAlert) Alert {
	a := Alert{
		ID:             db.ID,
		StationCode:    db.StationCode,
		Kind:           AlertKind(db.AlertType),
		Threshold:      db.Threshold,
		IsActive:       db.IsActive,
		Frequency:      FrequencyImmediate,
		Recipient:      db.UserEmail,
		UserIdentifier: db.UserIdentifier,
		CreatedAt:      db.CreatedAt,
	}
	if db.NotificationFrequency.Valid && db.NotificationFrequency.String != "" {
		a.Frequency = Frequency(db.NotificationFrequency.String)
	}
	if db.LastNotificationSent.Valid {
		t := db.LastNotificationSent.Time
		a.LastNotificationSent = &t
	}
	return a
}

func (a Alert) ToDBAlert() *sqlboiler.UserAlert {
	db := &sqlboiler.UserAlert{
		ID:                    a.ID,
		StationCode:           a.StationCode,
		AlertType:             string(a.Kind),
		Threshold:             a.Threshold,
		IsActive:              a.IsActive,
		NotificationFrequency: null.StringFrom(string(a.Frequency)),
		UserEmail:             a.Recipient,
		UserIdentifier:        a.UserIdentifier,
		CreatedAt:             a.CreatedAt,
	}
	if a.LastNotificationSent != nil {
		db.LastNotificationSent = null.TimeFrom(*a.LastNotificationSent)
	}
	return db
}
