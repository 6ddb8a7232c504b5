package postgres

import (
	"context"
	"time"

	"station-alert-srv/internal/alert/repository"
	"station-alert-srv/internal/model"
	"station-alert-srv/internal/sqlboiler"
	"station-alert-srv/pkg/paginator"
	postgresPkg "station-alert-srv/pkg/postgre"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"
)

func toEvents(rows []*sqlboiler.NotificationHistory) []model.NotificationEvent {
	res := make([]model.NotificationEvent, len(rows))
	for i, row := range rows {
		res[i] = model.NewNotificationEventFromDB(row)
	}
	return res
}

func (r *implRepository) AppendHistory(ctx context.Context, event model.NotificationEvent) error {
	if event.ID == "" {
		event.ID = postgresPkg.NewUUID()
	}
	if event.SentAt.IsZero() {
		event.SentAt = r.clock().UTC()
	}

	h := event.ToDBHistory()
	_, err := queries.Raw(queryInsertHistory,
		h.ID, h.AlertID, h.StationCode, h.StationName, h.UserEmail, h.AlertType,
		h.Threshold, h.CurrentValue, h.Status, h.ErrorMessage, h.SentAt,
	).ExecContext(ctx, r.db)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.AppendHistory.Exec: %v", err)
		return errors.Wrap(err, "append history")
	}
	return nil
}

func (r *implRepository) ListHistory(ctx context.Context, opts repository.ListHistoryOptions) ([]model.NotificationEvent, paginator.Paginator, error) {
	pq := opts.PaginateQuery
	pq.Adjust()

	var total int64
	if err := r.db.QueryRowContext(ctx, queryCountHistory, opts.Recipient).Scan(&total); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.ListHistory.Count: %v", err)
		return nil, paginator.Paginator{}, errors.Wrap(err, "count history")
	}

	var rows []*sqlboiler.NotificationHistory
	if err := queries.Raw(queryHistoryByRecipient, opts.Recipient, pq.Limit, pq.Offset()).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.ListHistory.Bind: %v", err)
		return nil, paginator.Paginator{}, errors.Wrap(err, "list history")
	}

	return toEvents(rows), paginator.New(pq, total, len(rows)), nil
}

func (r *implRepository) ListHistoryBefore(ctx context.Context, t time.Time) ([]model.NotificationEvent, error) {
	var rows []*sqlboiler.NotificationHistory
	if err := queries.Raw(queryHistoryBefore, t).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.ListHistoryBefore.Bind: %v", err)
		return nil, errors.Wrap(err, "list history before")
	}
	return toEvents(rows), nil
}

func (r *implRepository) DeleteHistoryBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := queries.Raw(queryDeleteHistoryBefore, t).ExecContext(ctx, r.db)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.DeleteHistoryBefore.Exec: %v", err)
		return 0, errors.Wrap(err, "delete history before")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "delete history before: rows affected")
	}
	return n, nil
}
