package sqlboiler

var TableNames = struct {
	UserAlerts          string
	NotificationHistory string
	VelibStations       string
}{
	UserAlerts:          "user_alerts",
	NotificationHistory: "notification_history",
	VelibStations:       "velib_stations",
}
