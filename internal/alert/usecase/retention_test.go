package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHistory(env *testEnv, at ...time.Time) {
	for i, ts := range at {
		env.repo.history = append(env.repo.history, model.NotificationEvent{
			ID:          "h" + string(rune('0'+i)),
			AlertID:     "a",
			StationCode: "16107",
			Recipient:   "a@example.com",
			SentAt:      ts,
			Kind:        model.KindBikesAvailable,
			Status:      model.StatusSent,
		})
	}
}

func TestPurgeHistory_ArchivesThenDeletes(t *testing.T) {
	env := newTestEnv()
	cutoff := t0.Add(-24 * time.Hour)
	seedHistory(env, cutoff.Add(-2*time.Hour), cutoff.Add(-time.Hour), cutoff.Add(time.Hour))

	out, err := env.uc.PurgeHistory(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Deleted)
	assert.Equal(t, "notification-history/2025/03/13/id-1.json", out.ArchiveKey)
	assert.Len(t, env.repo.events(), 1)

	var archived historyArchive
	require.NoError(t, json.Unmarshal(env.archive.objs[out.ArchiveKey], &archived))
	assert.Len(t, archived.Events, 2)
	assert.True(t, archived.Cutoff.Equal(cutoff))
}

func TestPurgeHistory_ArchiveFailureKeepsRecords(t *testing.T) {
	env := newTestEnv()
	env.archive.err = errors.New("bucket unavailable")
	seedHistory(env, t0.Add(-48*time.Hour))

	_, err := env.uc.PurgeHistory(context.Background(), t0)
	require.Error(t, err)
	assert.Len(t, env.repo.events(), 1)
}

func TestPurgeHistory_WithoutArchive(t *testing.T) {
	env := newTestEnv()
	env.uc.archive = nil
	seedHistory(env, t0.Add(-48*time.Hour))

	out, err := env.uc.PurgeHistory(context.Background(), t0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Deleted)
	assert.Empty(t, out.ArchiveKey)
}

func TestPurgeHistory_NothingToPurge(t *testing.T) {
	env := newTestEnv()
	seedHistory(env, t0.Add(time.Hour))

	out, err := env.uc.PurgeHistory(context.Background(), t0)
	require.NoError(t, err)
	assert.Zero(t, out.Deleted)
	assert.Empty(t, env.archive.objs)
}

func TestRunRetention(t *testing.T) {
	env := newTestEnv()
	seedHistory(env, t0.Add(-72*time.Hour), t0.Add(-time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- env.uc.RunRetention(ctx, alert.RetentionOptions{Interval: time.Hour, Period: 48 * time.Hour})
	}()

	require.Eventually(t, func() bool { return len(env.repo.events()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Error(t, env.uc.RunRetention(context.Background(), alert.RetentionOptions{Period: time.Hour}))
}
