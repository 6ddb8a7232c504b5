package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/alert/repository"
	"station-alert-srv/internal/model"
	"station-alert-srv/internal/notifier"
	"station-alert-srv/internal/snapshot"
	stationRepo "station-alert-srv/internal/station/repository"

	"golang.org/x/sync/errgroup"
)

// HandleSnapshot evaluates one snapshot and dispatches its crossings. A store
// failure skips the snapshot and is returned; dispatch failures are recorded
// in history and never returned.
func (uc *implUseCase) HandleSnapshot(ctx context.Context, s model.StationSnapshot) error {
	if s.StationCode == "" {
		return snapshot.ErrNoStationCode
	}

	alerts, err := uc.activeAlerts(ctx, s.StationCode)
	if err != nil {
		uc.metrics.Snapshots.WithLabelValues("store_error").Inc()
		uc.storeFailed(ctx, "list_active_alerts", err)
		return fmt.Errorf("list active alerts for station %s: %w", s.StationCode, err)
	}
	uc.storeRecovered()
	uc.metrics.Snapshots.WithLabelValues("processed").Inc()

	uc.prune(s.StationCode, alerts)

	crossings := uc.evaluator.Evaluate(ctx, s, alerts)
	if len(crossings) == 0 {
		return nil
	}

	name := uc.stationName(ctx, s.StationCode)

	var g errgroup.Group
	g.SetLimit(uc.opts.DispatchLimit)
	for _, c := range crossings {
		g.Go(func() error {
			uc.dispatch(ctx, s, name, c)
			return nil
		})
	}
	return g.Wait()
}

func (uc *implUseCase) activeAlerts(ctx context.Context, station string) ([]model.Alert, error) {
	if alerts, ok := uc.alerts.get(station); ok {
		return alerts, nil
	}

	t := uc.alerts.ticket(station)
	alerts, err := uc.repo.ListActiveAlerts(ctx, station)
	if err != nil {
		return nil, err
	}
	uc.alerts.put(t, alerts)
	return alerts, nil
}

func (uc *implUseCase) prune(station string, alerts []model.Alert) {
	active := make(map[string]struct{}, len(alerts))
	for _, a := range alerts {
		if a.IsActive {
			active[a.ID] = struct{}{}
		}
	}
	uc.states.prune(station, active)
}

// stationName falls back to the code when the name is unknown.
func (uc *implUseCase) stationName(ctx context.Context, code string) string {
	if name, ok := uc.names.lru.Get(code); ok {
		return name
	}
	if uc.stations == nil {
		return code
	}

	name, err := uc.stations.Name(ctx, code)
	switch {
	case errors.Is(err, stationRepo.ErrNotFound):
		name = code
	case err != nil:
		uc.l.Warnf(ctx, "internal.alert.usecase.stationName: %s: %v", code, err)
		return code
	}
	uc.names.lru.Add(code, name)
	return name
}

func (uc *implUseCase) now() time.Time {
	return uc.clock().UTC().Truncate(time.Microsecond)
}

// dispatch runs throttle, send and record for one crossing while holding
// the alert's send lock.
func (uc *implUseCase) dispatch(ctx context.Context, s model.StationSnapshot, stationName string, c alert.Crossing) {
	a := c.Alert
	st := uc.states.get(a.ID)
	uc.setPhase(a.ID, st, alert.PhaseCrossed)

	st.sendMu.Lock()
	defer st.sendMu.Unlock()

	stored := a.LastNotificationSent
	if st.durable != nil && (stored == nil || st.durable.After(*stored)) {
		stored = st.durable
	}
	lastSent := st.effectiveLastSent(stored)

	now := uc.now()
	if !Allow(a.Frequency, lastSent, now) {
		uc.metrics.Throttled.WithLabelValues(string(a.Frequency)).Inc()
		uc.l.Debugf(ctx, "internal.alert.usecase.dispatch: alert %s throttled until %s",
			a.ID, NextAllowed(a.Frequency, lastSent).Format(time.RFC3339))
		uc.setPhase(a.ID, st, alert.PhaseThrottled)
		uc.setPhase(a.ID, st, alert.PhaseIdle)
		return
	}

	uc.setPhase(a.ID, st, alert.PhaseDispatching)

	// In-flight sends finish even when the caller is cancelled.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.SendTimeout)
	defer cancel()

	started := time.Now()
	status, err := uc.sender.Send(sendCtx, notifier.Notification{
		Recipient:    a.Recipient,
		StationCode:  s.StationCode,
		StationName:  stationName,
		Kind:         a.Kind,
		Threshold:    a.Threshold,
		CurrentValue: c.Value,
	})
	uc.metrics.DispatchDuration.Observe(time.Since(started).Seconds())
	if err != nil || status == "" {
		status = model.StatusSent
		if err != nil {
			status = model.StatusFailed
		}
	}
	uc.metrics.Notifications.WithLabelValues(string(status)).Inc()

	event := model.NotificationEvent{
		ID:           uc.newID(),
		StationCode:  s.StationCode,
		StationName:  stationName,
		AlertID:      a.ID,
		Recipient:    a.Recipient,
		SentAt:       now,
		Kind:         a.Kind,
		Threshold:    a.Threshold,
		CurrentValue: c.Value,
		Status:       status,
	}
	if err != nil {
		event.Error = err.Error()
		uc.l.Warnf(ctx, "internal.alert.usecase.dispatch: alert %s send failed: %v", a.ID, err)
	}

	// The send may have used up its own deadline.
	recCtx, recCancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.StoreTimeout)
	defer recCancel()

	if herr := uc.repo.AppendHistory(recCtx, event); herr != nil {
		uc.storeFailed(ctx, "append_history", herr)
	}

	if status == model.StatusSent {
		uc.recordSent(recCtx, a.ID, st, stored, now)
	}

	uc.setPhase(a.ID, st, alert.PhaseRecorded)
	uc.setPhase(a.ID, st, alert.PhaseIdle)
}

// recordSent moves the durable last-sent time from previous to sentAt.
// Callers hold st.sendMu.
func (uc *implUseCase) recordSent(ctx context.Context, alertID string, st *alertState, previous *time.Time, sentAt time.Time) {
	t := sentAt
	st.lastSent = &t

	err := uc.repo.UpdateLastSent(ctx, repository.UpdateLastSentOptions{
		AlertID:  alertID,
		Previous: previous,
		SentAt:   sentAt,
	})
	switch {
	case err == nil:
		st.durable = &t
	case errors.Is(err, repository.ErrLastSentConflict):
		uc.metrics.LastSentConflict.Inc()
		st.durable = nil
		uc.l.Warnf(ctx, "internal.alert.usecase.recordSent: alert %s last-sent changed concurrently", alertID)
		if station := st.stationCode(); station != "" {
			uc.alerts.invalidate(station)
		}
	case errors.Is(err, repository.ErrNotFound):
		uc.states.forget(alertID)
	default:
		st.durable = nil
		uc.storeFailed(ctx, "update_last_sent", err)
	}
}

// storeFailed reports once per streak of consecutive store failures.
func (uc *implUseCase) storeFailed(ctx context.Context, op string, err error) {
	uc.metrics.StoreErrors.WithLabelValues(op).Inc()
	uc.l.Errorf(ctx, "internal.alert.usecase.%s: %v", op, err)

	uc.storeMu.Lock()
	uc.storeFailures++
	n := uc.storeFailures
	uc.storeMu.Unlock()
	if n != uc.opts.StoreReportAfter {
		return
	}

	report := notifier.Report{
		Severity:    notifier.SeverityCritical,
		Title:       "Alert store failing",
		Description: fmt.Sprintf("%d consecutive store failures, last during %s", n, op),
		Fields: []notifier.ReportField{
			{Name: "Error", Value: err.Error()},
		},
	}
	go func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.SendTimeout)
		defer cancel()
		if rerr := uc.reporter.Report(rctx, report); rerr != nil {
			uc.l.Warnf(rctx, "internal.alert.usecase.storeFailed: report: %v", rerr)
		}
	}()
}

func (uc *implUseCase) storeRecovered() {
	uc.storeMu.Lock()
	uc.storeFailures = 0
	uc.storeMu.Unlock()
}
