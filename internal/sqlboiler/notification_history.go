package sqlboiler

import (
	"time"

	"github.com/aarondl/null/v8"
)

type NotificationHistory struct {
	ID           string      `boil:"id" json:"id"`
	AlertID      string      `boil:"alert_id" json:"alert_id"`
	StationCode  string      `boil:"station_code" json:"station_code"`
	StationName  null.String `boil:"station_name" json:"station_name"`
	UserEmail    string      `boil:"user_email" json:"user_email"`
	AlertType    string      `boil:"alert_type" json:"alert_type"`
	Threshold    int         `boil:"threshold" json:"threshold"`
	CurrentValue int         `boil:"current_value" json:"current_value"`
	Status       string      `boil:"status" json:"status"`
	ErrorMessage null.String `boil:"error_message" json:"error_message"`
	SentAt       time.Time   `boil:"sent_at" json:"sent_at"`
}
