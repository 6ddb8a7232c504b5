package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"station-alert-srv/internal/alert/repository"
	"station-alert-srv/internal/model"
	"station-alert-srv/internal/sqlboiler"
	postgresPkg "station-alert-srv/pkg/postgre"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"
)

func toAlerts(rows []*sqlboiler.UserAlert) []model.Alert {
	res := make([]model.Alert, len(rows))
	for i, row := range rows {
		res[i] = model.NewAlertFromDB(row)
	}
	return res
}

func (r *implRepository) ListActiveAlerts(ctx context.Context, stationCode string) ([]model.Alert, error) {
	var rows []*sqlboiler.UserAlert
	if err := queries.Raw(queryActiveAlerts, stationCode).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.ListActiveAlerts.Bind: %v", err)
		return nil, errors.Wrap(err, "list active alerts")
	}
	return toAlerts(rows), nil
}

// UpdateLastSent is a compare-and-swap on last_notification_sent. Times are
// truncated to the column's microsecond precision on both sides.
func (r *implRepository) UpdateLastSent(ctx context.Context, opts repository.UpdateLastSentOptions) error {
	if err := postgresPkg.IsUUID(opts.AlertID); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidID, err)
	}

	var prev null.Time
	if opts.Previous != nil {
		prev = null.TimeFrom(opts.Previous.Truncate(time.Microsecond))
	}

	res, err := queries.Raw(queryUpdateLastSent, opts.SentAt.Truncate(time.Microsecond), opts.AlertID, prev).ExecContext(ctx, r.db)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.UpdateLastSent.Exec: %v", err)
		return errors.Wrap(err, "update last sent")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update last sent: rows affected")
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, queryAlertExists, opts.AlertID).Scan(&exists); err != nil {
		return errors.Wrap(err, "update last sent: check alert")
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrLastSentConflict
}

func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.Alert, error) {
	a := opts.Alert
	if a.ID == "" {
		a.ID = postgresPkg.NewUUID()
	} else if err := postgresPkg.IsUUID(a.ID); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Create.IsUUID: %v", err)
		return model.Alert{}, fmt.Errorf("%w: %v", repository.ErrInvalidID, err)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.clock().UTC()
	}

	db := a.ToDBAlert()
	var row sqlboiler.UserAlert
	err := queries.Raw(queryInsertAlert,
		db.ID, db.StationCode, db.AlertType, db.Threshold, db.IsActive,
		db.NotificationFrequency, db.LastNotificationSent, db.UserEmail,
		db.UserIdentifier, db.CreatedAt,
	).Bind(ctx, r.db, &row)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Create.Bind: %v", err)
		return model.Alert{}, errors.Wrap(err, "create alert")
	}
	return model.NewAlertFromDB(&row), nil
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.Alert, error) {
	if err := postgresPkg.IsUUID(id); err != nil {
		return model.Alert{}, repository.ErrNotFound
	}

	var row sqlboiler.UserAlert
	if err := queries.Raw(queryAlertByID, id).Bind(ctx, r.db, &row); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return model.Alert{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Detail.Bind: %v", err)
		return model.Alert{}, errors.Wrap(err, "alert detail")
	}
	return model.NewAlertFromDB(&row), nil
}

func (r *implRepository) Update(ctx context.Context, opts repository.UpdateOptions) (model.Alert, error) {
	if err := postgresPkg.IsUUID(opts.ID); err != nil {
		return model.Alert{}, repository.ErrNotFound
	}

	var freq *string
	if opts.Frequency != nil {
		s := string(*opts.Frequency)
		freq = &s
	}
	q, args := buildUpdateQuery(opts.Threshold, opts.IsActive, freq)
	if q == "" {
		return r.Detail(ctx, opts.ID)
	}

	var row sqlboiler.UserAlert
	if err := queries.Raw(q, append(args, opts.ID)...).Bind(ctx, r.db, &row); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return model.Alert{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Update.Bind: %v", err)
		return model.Alert{}, errors.Wrap(err, "update alert")
	}
	return model.NewAlertFromDB(&row), nil
}

func (r *implRepository) Delete(ctx context.Context, id string) (model.Alert, error) {
	if err := postgresPkg.IsUUID(id); err != nil {
		return model.Alert{}, repository.ErrNotFound
	}

	var row sqlboiler.UserAlert
	if err := queries.Raw(queryDeleteAlert, id).Bind(ctx, r.db, &row); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return model.Alert{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Delete.Bind: %v", err)
		return model.Alert{}, errors.Wrap(err, "delete alert")
	}
	return model.NewAlertFromDB(&row), nil
}

func (r *implRepository) List(ctx context.Context, opts repository.ListOptions) ([]model.Alert, error) {
	q, args := buildListQuery(opts.UserIdentifier, opts.ActiveOnly)

	var rows []*sqlboiler.UserAlert
	if err := queries.Raw(q, args...).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.List.Bind: %v", err)
		return nil, errors.Wrap(err, "list alerts")
	}
	return toAlerts(rows), nil
}
