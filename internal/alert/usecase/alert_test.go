package usecase

import (
	"context"
	"testing"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/paginator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	valid := alert.CreateInput{
		StationCode:    " 16107 ",
		Kind:           "Docks_Available",
		Threshold:      3,
		Recipient:      "rider@example.com",
		UserIdentifier: "user-1",
	}

	tests := []struct {
		name    string
		mutate  func(in *alert.CreateInput)
		wantErr error
	}{
		{name: "valid", mutate: func(*alert.CreateInput) {}},
		{name: "missing station", mutate: func(in *alert.CreateInput) { in.StationCode = "" }, wantErr: alert.ErrStationRequired},
		{name: "missing recipient", mutate: func(in *alert.CreateInput) { in.Recipient = " " }, wantErr: alert.ErrRecipientRequired},
		{name: "missing user", mutate: func(in *alert.CreateInput) { in.UserIdentifier = "" }, wantErr: alert.ErrUserRequired},
		{name: "unknown kind", mutate: func(in *alert.CreateInput) { in.Kind = "scooters" }, wantErr: alert.ErrInvalidInput},
		{name: "unknown frequency", mutate: func(in *alert.CreateInput) { in.Frequency = "weekly" }, wantErr: alert.ErrInvalidInput},
		{name: "negative threshold", mutate: func(in *alert.CreateInput) { in.Threshold = -2 }, wantErr: alert.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			in := valid
			tt.mutate(&in)

			got, err := env.uc.Create(context.Background(), in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "16107", got.StationCode)
			assert.Equal(t, model.KindDocksAvailable, got.Kind)
			assert.Equal(t, model.FrequencyImmediate, got.Frequency)
			assert.True(t, got.IsActive)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestDetailUpdateDelete_NotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.uc.Detail(ctx, "missing")
	assert.ErrorIs(t, err, alert.ErrAlertNotFound)

	th := 4
	_, err = env.uc.Update(ctx, alert.UpdateInput{ID: "missing", Threshold: &th})
	assert.ErrorIs(t, err, alert.ErrAlertNotFound)

	assert.ErrorIs(t, env.uc.Delete(ctx, "missing"), alert.ErrAlertNotFound)
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(alertOf("a", "16107", model.KindBikesAvailable, 5, model.FrequencyImmediate))
	ctx := context.Background()

	neg := -1
	_, err := env.uc.Update(ctx, alert.UpdateInput{ID: "a", Threshold: &neg})
	assert.ErrorIs(t, err, alert.ErrInvalidInput)

	bad := "weekly"
	_, err = env.uc.Update(ctx, alert.UpdateInput{ID: "a", Frequency: &bad})
	assert.ErrorIs(t, err, alert.ErrInvalidInput)

	th, freq := 8, "daily"
	got, err := env.uc.Update(ctx, alert.UpdateInput{ID: "a", Threshold: &th, Frequency: &freq})
	require.NoError(t, err)
	assert.Equal(t, 8, got.Threshold)
	assert.Equal(t, model.FrequencyDaily, got.Frequency)
}

func TestDelete_ForgetsState(t *testing.T) {
	env := newTestEnv(alertOf("a", "16107", model.KindBikesAvailable, 5, model.FrequencyImmediate))
	ctx := context.Background()
	env.feed(ctx, "16107", model.KindBikesAvailable, 1)

	require.NoError(t, env.uc.Delete(ctx, "a"))
	_, tracked := env.uc.states.lookup("a")
	assert.False(t, tracked)
	_, cached := env.uc.alerts.get("16107")
	assert.False(t, cached)
}

func TestList(t *testing.T) {
	off := alertOf("b", "8004", model.KindBikesAvailable, 5, model.FrequencyImmediate)
	off.IsActive = false
	off.UserIdentifier = "user-a"
	env := newTestEnv(alertOf("a", "16107", model.KindBikesAvailable, 5, model.FrequencyImmediate), off)
	ctx := context.Background()

	_, err := env.uc.List(ctx, alert.ListInput{})
	assert.ErrorIs(t, err, alert.ErrUserRequired)

	all, err := env.uc.List(ctx, alert.ListInput{UserIdentifier: "user-a"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := env.uc.List(ctx, alert.ListInput{UserIdentifier: "user-a", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)
}

func TestListHistory(t *testing.T) {
	env := newTestEnv(alertOf("a", "16107", model.KindBikesAvailable, 5, model.FrequencyImmediate))
	ctx := context.Background()
	env.feed(ctx, "16107", model.KindBikesAvailable, 1, 6)

	_, err := env.uc.ListHistory(ctx, alert.ListHistoryInput{})
	assert.ErrorIs(t, err, alert.ErrRecipientRequired)

	out, err := env.uc.ListHistory(ctx, alert.ListHistoryInput{
		Recipient:     "a@example.com",
		PaginateQuery: paginator.PaginateQuery{Page: 0, Limit: 0},
	})
	require.NoError(t, err)
	require.Len(t, out.Events, 1)
	assert.Equal(t, 1, out.Paginator.CurrentPage)
	assert.Equal(t, 20, out.Paginator.PerPage)
}
