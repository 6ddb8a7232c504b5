package usecase

import (
	"context"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/log"
)

// evaluator detects upward threshold crossings per alert.
type evaluator struct {
	l       log.Logger
	states  *stateStore
	metrics *Metrics
}

func newEvaluator(l log.Logger, states *stateStore, m *Metrics) *evaluator {
	return &evaluator{l: l, states: states, metrics: m}
}

// Evaluate returns the alerts of s.StationCode whose metric crossed their
// threshold since the previous snapshot. Misconfigured alerts are skipped.
func (e *evaluator) Evaluate(ctx context.Context, s model.StationSnapshot, alerts []model.Alert) []alert.Crossing {
	var crossings []alert.Crossing
	for _, a := range alerts {
		if !a.IsActive {
			continue
		}
		if err := a.Validate(); err != nil {
			e.metrics.ConfigErrors.Inc()
			e.l.Warnf(ctx, "internal.alert.usecase.Evaluate: skipping alert %s: %v", a.ID, err)
			continue
		}
		value, ok := s.Value(a.Kind)
		if !ok {
			continue
		}

		crossed, stale := e.states.get(a.ID).observe(s.StationCode, value, a.Threshold, s.Timestamp)
		if stale {
			e.metrics.StaleObserved.Inc()
			e.l.Debugf(ctx, "internal.alert.usecase.Evaluate: stale snapshot %s for alert %s", s.Timestamp, a.ID)
			continue
		}
		if crossed {
			e.metrics.Crossings.Inc()
			crossings = append(crossings, alert.Crossing{Alert: a, Value: value})
		}
	}
	return crossings
}
