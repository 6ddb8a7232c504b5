package sqlboiler

import (
	"time"

	"github.com/aarondl/null/v8"
)

type UserAlert struct {
	ID                    string      `boil:"id" json:"id"`
	StationCode           string      `boil:"station_code" json:"station_code"`
	AlertType             string      `boil:"alert_type" json:"alert_type"`
	Threshold             int         `boil:"threshold" json:"threshold"`
	IsActive              bool        `boil:"is_active" json:"is_active"`
	NotificationFrequency null.String `boil:"notification_frequency" json:"notification_frequency"`
	LastNotificationSent  null.Time   `boil:"last_notification_sent" json:"last_notification_sent"`
	UserEmail             string      `boil:"user_email" json:"user_email"`
	UserIdentifier        string      `boil:"user_identifier" json:"user_identifier"`
	CreatedAt             time.Time   `boil:"created_at" json:"created_at"`
}

var UserAlertColumns = struct {
	ID                    string
	StationCode           string
	AlertType             string
	Threshold             string
	IsActive              string
	NotificationFrequency string
	LastNotificationSent  string
	UserEmail             string
	UserIdentifier        string
	CreatedAt             string
}{
	ID:                    "id",
	StationCode:           "station_code",
	AlertType:             "alert_type",
	Threshold:             "threshold",
	IsActive:              "is_active",
	NotificationFrequency: "notification_frequency",
	LastNotificationSent:  "last_notification_sent",
	UserEmail:             "user_email",
	UserIdentifier:        "user_identifier",
	CreatedAt:             "created_at",
}
