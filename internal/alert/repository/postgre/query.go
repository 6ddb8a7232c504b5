package postgres

import (
	"fmt"
	"strings"

	"station-alert-srv/internal/sqlboiler"
)

var alertColumns = strings.Join([]string{
	sqlboiler.UserAlertColumns.ID,
	sqlboiler.UserAlertColumns.StationCode,
	sqlboiler.UserAlertColumns.AlertType,
	sqlboiler.UserAlertColumns.Threshold,
	sqlboiler.UserAlertColumns.IsActive,
	sqlboiler.UserAlertColumns.NotificationFrequency,
	sqlboiler.UserAlertColumns.LastNotificationSent,
	sqlboiler.UserAlertColumns.UserEmail,
	sqlboiler.UserAlertColumns.UserIdentifier,
	sqlboiler.UserAlertColumns.CreatedAt,
}, ", ")

const historyColumns = "id, alert_id, station_code, station_name, user_email, alert_type, threshold, current_value, status, error_message, sent_at"

var (
	queryActiveAlerts = fmt.Sprintf(
		`SELECT %s FROM user_alerts WHERE station_code = $1 AND is_active ORDER BY created_at`,
		alertColumns)

	queryAlertByID = fmt.Sprintf(`SELECT %s FROM user_alerts WHERE id = $1`, alertColumns)

	queryUpdateLastSent = `UPDATE user_alerts SET last_notification_sent = $1
		WHERE id = $2 AND last_notification_sent IS NOT DISTINCT FROM $3::timestamptz`

	queryAlertExists = `SELECT EXISTS (SELECT 1 FROM user_alerts WHERE id = $1)`

	queryInsertAlert = fmt.Sprintf(`INSERT INTO user_alerts (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING %s`, alertColumns, alertColumns)

	queryDeleteAlert = fmt.Sprintf(`DELETE FROM user_alerts WHERE id = $1 RETURNING %s`, alertColumns)

	queryInsertHistory = fmt.Sprintf(`INSERT INTO notification_history (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, historyColumns)

	queryHistoryByRecipient = fmt.Sprintf(`SELECT %s FROM notification_history
		WHERE user_email = $1 ORDER BY sent_at DESC LIMIT $2 OFFSET $3`, historyColumns)

	queryCountHistory = `SELECT count(*) FROM notification_history WHERE user_email = $1`

	queryHistoryBefore = fmt.Sprintf(`SELECT %s FROM notification_history WHERE sent_at < $1 ORDER BY sent_at`, historyColumns)

	queryDeleteHistoryBefore = `DELETE FROM notification_history WHERE sent_at < $1`
)

// buildUpdateQuery renders the SET clause for the non-nil fields of a patch.
// The alert id is always the last placeholder.
func buildUpdateQuery(threshold *int, isActive *bool, frequency *string) (string, []any) {
	var (
		sets []string
		args []any
	)
	if threshold != nil {
		args = append(args, *threshold)
		sets = append(sets, fmt.Sprintf("%s = $%d", sqlboiler.UserAlertColumns.Threshold, len(args)))
	}
	if isActive != nil {
		args = append(args, *isActive)
		sets = append(sets, fmt.Sprintf("%s = $%d", sqlboiler.UserAlertColumns.IsActive, len(args)))
	}
	if frequency != nil {
		args = append(args, *frequency)
		sets = append(sets, fmt.Sprintf("%s = $%d", sqlboiler.UserAlertColumns.NotificationFrequency, len(args)))
	}
	if len(sets) == 0 {
		return "", nil
	}
	return fmt.Sprintf("UPDATE user_alerts SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)+1, alertColumns), args
}

func buildListQuery(userIdentifier string, activeOnly bool) (string, []any) {
	q := fmt.Sprintf("SELECT %s FROM user_alerts WHERE user_identifier = $1", alertColumns)
	if activeOnly {
		q += " AND is_active"
	}
	return q + " ORDER BY created_at DESC", []any{userIdentifier}
}
