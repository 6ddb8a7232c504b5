package usecase

import (
	"context"
	"testing"
	"time"

	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator() *evaluator {
	return newEvaluator(log.NewNop(), newStateStore(), NewMetrics(nil))
}

func TestEvaluate_Sequence(t *testing.T) {
	e := newTestEvaluator()
	a := alertOf("a", "16107", model.KindBikesAvailable, 5, model.FrequencyImmediate)

	var crossedAt []int
	for i, v := range []int{4, 6, 7, 3, 6} {
		s := snapshotOf("16107", t0.Add(time.Duration(i)*time.Minute), model.KindBikesAvailable, v)
		for _, c := range e.Evaluate(context.Background(), s, []model.Alert{a}) {
			assert.Equal(t, "a", c.Alert.ID)
			assert.Equal(t, v, c.Value)
			crossedAt = append(crossedAt, i)
		}
	}
	assert.Equal(t, []int{1, 4}, crossedAt)
}

func TestEvaluate_FirstSnapshotIsBaseline(t *testing.T) {
	e := newTestEvaluator()
	a := alertOf("a", "16107", model.KindDocksAvailable, 5, model.FrequencyImmediate)

	s := snapshotOf("16107", t0, model.KindDocksAvailable, 9)
	assert.Empty(t, e.Evaluate(context.Background(), s, []model.Alert{a}))
}

func TestEvaluate_RepeatedValueIsNoop(t *testing.T) {
	e := newTestEvaluator()
	a := alertOf("a", "16107", model.KindEBikesAvailable, 5, model.FrequencyImmediate)
	ctx := context.Background()

	e.Evaluate(ctx, snapshotOf("16107", t0, model.KindEBikesAvailable, 2), []model.Alert{a})
	require.Len(t, e.Evaluate(ctx, snapshotOf("16107", t0.Add(time.Minute), model.KindEBikesAvailable, 5), []model.Alert{a}), 1)
	assert.Empty(t, e.Evaluate(ctx, snapshotOf("16107", t0.Add(time.Minute), model.KindEBikesAvailable, 5), []model.Alert{a}))
	assert.Empty(t, e.Evaluate(ctx, snapshotOf("16107", t0.Add(2*time.Minute), model.KindEBikesAvailable, 5), []model.Alert{a}))
}

func TestEvaluate_StaleSnapshotIgnored(t *testing.T) {
	e := newTestEvaluator()
	a := alertOf("a", "16107", model.KindBikesAvailable, 5, model.FrequencyImmediate)
	ctx := context.Background()

	e.Evaluate(ctx, snapshotOf("16107", t0.Add(time.Minute), model.KindBikesAvailable, 2), []model.Alert{a})
	assert.Empty(t, e.Evaluate(ctx, snapshotOf("16107", t0, model.KindBikesAvailable, 8), []model.Alert{a}))
	// The stale reading did not move the baseline.
	assert.Len(t, e.Evaluate(ctx, snapshotOf("16107", t0.Add(2*time.Minute), model.KindBikesAvailable, 8), []model.Alert{a}), 1)
}

func TestEvaluate_ZeroThresholdNeverFires(t *testing.T) {
	e := newTestEvaluator()
	a := alertOf("a", "16107", model.KindBikesAvailable, 0, model.FrequencyImmediate)
	ctx := context.Background()

	for i, v := range []int{0, 3, 0, 1} {
		s := snapshotOf("16107", t0.Add(time.Duration(i)*time.Minute), model.KindBikesAvailable, v)
		assert.Empty(t, e.Evaluate(ctx, s, []model.Alert{a}))
	}
}

func TestEvaluate_SkipsInvalidAndInactive(t *testing.T) {
	e := newTestEvaluator()
	bad := alertOf("bad", "16107", model.KindBikesAvailable, -1, model.FrequencyImmediate)
	unknown := alertOf("unknown", "16107", "scooters", 5, model.FrequencyImmediate)
	off := alertOf("off", "16107", model.KindBikesAvailable, 5, model.FrequencyImmediate)
	off.IsActive = false
	good := alertOf("good", "16107", model.KindBikesAvailable, 5, model.FrequencyImmediate)
	alerts := []model.Alert{bad, unknown, off, good}
	ctx := context.Background()

	e.Evaluate(ctx, snapshotOf("16107", t0, model.KindBikesAvailable, 1), alerts)
	got := e.Evaluate(ctx, snapshotOf("16107", t0.Add(time.Minute), model.KindBikesAvailable, 6), alerts)

	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].Alert.ID)
	_, tracked := e.states.lookup("off")
	assert.False(t, tracked)
}
