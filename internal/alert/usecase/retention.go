package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/model"
)

const archiveContentType = "application/json"

type historyArchive struct {
	Cutoff     time.Time                 `json:"cutoff"`
	ArchivedAt time.Time                 `json:"archived_at"`
	Events     []model.NotificationEvent `json:"events"`
}

// PurgeHistory archives history sent before olderThan to object storage,
// when configured, then deletes it. Nothing is deleted if archiving fails.
func (uc *implUseCase) PurgeHistory(ctx context.Context, olderThan time.Time) (alert.PurgeOutput, error) {
	olderThan = olderThan.UTC()

	events, err := uc.repo.ListHistoryBefore(ctx, olderThan)
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.PurgeHistory.ListHistoryBefore: %v", err)
		return alert.PurgeOutput{}, err
	}
	if len(events) == 0 {
		return alert.PurgeOutput{}, nil
	}

	var out alert.PurgeOutput
	if uc.archive != nil {
		key, err := uc.archiveHistory(ctx, olderThan, events)
		if err != nil {
			uc.l.Errorf(ctx, "internal.alert.usecase.PurgeHistory.archiveHistory: %v", err)
			return alert.PurgeOutput{}, err
		}
		out.ArchiveKey = key
	}

	n, err := uc.repo.DeleteHistoryBefore(ctx, olderThan)
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.PurgeHistory.DeleteHistoryBefore: %v", err)
		return out, err
	}
	out.Deleted = n
	uc.metrics.HistoryPurged.Add(float64(n))
	uc.l.Infof(ctx, "internal.alert.usecase.PurgeHistory: deleted %d records before %s", n, olderThan.Format(time.RFC3339))
	return out, nil
}

func (uc *implUseCase) archiveHistory(ctx context.Context, cutoff time.Time, events []model.NotificationEvent) (string, error) {
	now := uc.now()
	body, err := json.Marshal(historyArchive{Cutoff: cutoff, ArchivedAt: now, Events: events})
	if err != nil {
		return "", err
	}

	key := archiveKey(cutoff, uc.newID())
	if _, err := uc.archive.PutObject(ctx, key, bytes.NewReader(body), int64(len(body)), archiveContentType); err != nil {
		return "", err
	}
	return key, nil
}

func archiveKey(cutoff time.Time, id string) string {
	return fmt.Sprintf("%s/%s/%s.json", archivePrefix, cutoff.UTC().Format("2006/01/02"), id)
}

// RunRetention purges history older than opts.Period every opts.Interval
// until ctx is done. Failed runs are logged and retried on the next tick.
func (uc *implUseCase) RunRetention(ctx context.Context, opts alert.RetentionOptions) error {
	if opts.Interval <= 0 || opts.Period <= 0 {
		return fmt.Errorf("%w: retention interval and period must be positive", alert.ErrInvalidInput)
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := uc.PurgeHistory(ctx, uc.now().Add(-opts.Period)); err != nil && ctx.Err() == nil {
			uc.l.Warnf(ctx, "internal.alert.usecase.RunRetention: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
