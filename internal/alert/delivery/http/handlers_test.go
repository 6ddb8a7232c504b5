package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"station-alert-srv/internal/alert"
	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/log"
	"station-alert-srv/pkg/paginator"
	"station-alert-srv/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alertID = "6f1c2d4e-8a9b-4c3d-9e8f-7a6b5c4d3e2f"

type fakeUseCase struct {
	created   alert.CreateInput
	updated   alert.UpdateInput
	listed    alert.ListInput
	history   alert.ListHistoryInput
	purgedAt  time.Time
	err       error
	alert     model.Alert
	events    []model.NotificationEvent
	deletedID string
}

func (f *fakeUseCase) Create(_ context.Context, in alert.CreateInput) (model.Alert, error) {
	f.created = in
	return f.alert, f.err
}

func (f *fakeUseCase) Detail(_ context.Context, id string) (model.Alert, error) {
	return f.alert, f.err
}

func (f *fakeUseCase) Update(_ context.Context, in alert.UpdateInput) (model.Alert, error) {
	f.updated = in
	return f.alert, f.err
}

func (f *fakeUseCase) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return f.err
}

func (f *fakeUseCase) List(_ context.Context, in alert.ListInput) ([]model.Alert, error) {
	f.listed = in
	return []model.Alert{f.alert}, f.err
}

func (f *fakeUseCase) ListHistory(_ context.Context, in alert.ListHistoryInput) (alert.ListHistoryOutput, error) {
	in.PaginateQuery.Adjust()
	f.history = in
	return alert.ListHistoryOutput{
		Events:    f.events,
		Paginator: paginator.New(in.PaginateQuery, int64(len(f.events)), len(f.events)),
	}, f.err
}

func (f *fakeUseCase) PurgeHistory(_ context.Context, olderThan time.Time) (alert.PurgeOutput, error) {
	f.purgedAt = olderThan
	return alert.PurgeOutput{Deleted: 3, ArchiveKey: "notification-history/2025/03/13/x.json"}, f.err
}

func (f *fakeUseCase) RunRetention(context.Context, alert.RetentionOptions) error { return nil }

type fakeEngine struct {
	alert.Engine
	phase alert.Phase
}

func (f fakeEngine) AlertPhase(string) alert.Phase { return f.phase }

func newTestRouter(uc alert.UseCase, engine alert.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(log.NewNop(), uc, engine, nil)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, target string, body any) (*httptest.ResponseRecorder, response.Resp) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func sampleAlert() model.Alert {
	return model.Alert{
		ID:             alertID,
		StationCode:    "16107",
		Kind:           model.KindDocksAvailable,
		Threshold:      5,
		IsActive:       true,
		Frequency:      model.FrequencyHourly,
		Recipient:      "rider@example.com",
		UserIdentifier: "user-1",
		CreatedAt:      time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
	}
}

func TestCreate(t *testing.T) {
	uc := &fakeUseCase{alert: sampleAlert()}
	r := newTestRouter(uc, nil)

	w, resp := do(r, http.MethodPost, "/api/v1/alerts", map[string]any{
		"station_code":           "16107",
		"alert_type":             "docks_available",
		"threshold":              5,
		"notification_frequency": "hourly",
		"user_email":             "rider@example.com",
		"user_identifier":        "user-1",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 0, resp.ErrorCode)
	assert.Equal(t, "16107", uc.created.StationCode)
	assert.Equal(t, 5, uc.created.Threshold)
	assert.Equal(t, "hourly", uc.created.Frequency)

	data := resp.Data.(map[string]any)
	assert.Equal(t, alertID, data["id"])
	assert.Equal(t, "docks_available", data["alert_type"])
}

func TestCreate_Errors(t *testing.T) {
	valid := map[string]any{
		"station_code":    "16107",
		"alert_type":      "docks_available",
		"threshold":       0,
		"user_email":      "rider@example.com",
		"user_identifier": "user-1",
	}

	tests := []struct {
		name       string
		body       map[string]any
		ucErr      error
		wantStatus int
		wantCode   int
	}{
		{name: "missing threshold", body: map[string]any{"station_code": "16107", "alert_type": "x", "user_email": "a@b.co", "user_identifier": "u"}, wantStatus: http.StatusBadRequest, wantCode: 110001},
		{name: "bad email", body: map[string]any{"station_code": "16107", "alert_type": "x", "threshold": 1, "user_email": "nope", "user_identifier": "u"}, wantStatus: http.StatusBadRequest, wantCode: 110001},
		{name: "invalid input", body: valid, ucErr: errors.Join(alert.ErrInvalidInput, errors.New("unknown kind")), wantStatus: http.StatusBadRequest, wantCode: 110004},
		{name: "unexpected", body: valid, ucErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: response.InternalServerErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeUseCase{err: tt.ucErr}, nil)
			w, resp := do(r, http.MethodPost, "/api/v1/alerts", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, resp.ErrorCode)
		})
	}
}

func TestDetail(t *testing.T) {
	r := newTestRouter(&fakeUseCase{alert: sampleAlert()}, nil)
	w, _ := do(r, http.MethodGet, "/api/v1/alerts/"+alertID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := do(r, http.MethodGet, "/api/v1/alerts/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 110003, resp.ErrorCode)

	r = newTestRouter(&fakeUseCase{err: alert.ErrAlertNotFound}, nil)
	w, _ = do(r, http.MethodGet, "/api/v1/alerts/"+alertID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate(t *testing.T) {
	uc := &fakeUseCase{alert: sampleAlert()}
	r := newTestRouter(uc, nil)

	w, _ := do(r, http.MethodPatch, "/api/v1/alerts/"+alertID, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.updated.IsActive)
	assert.False(t, *uc.updated.IsActive)
	assert.Nil(t, uc.updated.Threshold)

	w, resp := do(r, http.MethodPatch, "/api/v1/alerts/"+alertID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 110001, resp.ErrorCode)
}

func TestDelete(t *testing.T) {
	uc := &fakeUseCase{}
	r := newTestRouter(uc, nil)

	w, _ := do(r, http.MethodDelete, "/api/v1/alerts/"+alertID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, alertID, uc.deletedID)
}

func TestList(t *testing.T) {
	uc := &fakeUseCase{alert: sampleAlert()}
	r := newTestRouter(uc, nil)

	w, _ := do(r, http.MethodGet, "/api/v1/alerts", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := do(r, http.MethodGet, "/api/v1/alerts?user_identifier=user-1&active_only=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, alert.ListInput{UserIdentifier: "user-1", ActiveOnly: true}, uc.listed)
	items := resp.Data.(map[string]any)["items"].([]any)
	assert.Len(t, items, 1)
}

func TestPhase(t *testing.T) {
	r := newTestRouter(&fakeUseCase{}, fakeEngine{phase: alert.PhaseDispatching})
	w, resp := do(r, http.MethodGet, "/api/v1/alerts/"+alertID+"/phase", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dispatching", resp.Data.(map[string]any)["phase"])

	r = newTestRouter(&fakeUseCase{}, nil)
	w, _ = do(r, http.MethodGet, "/api/v1/alerts/"+alertID+"/phase", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListHistory(t *testing.T) {
	uc := &fakeUseCase{events: []model.NotificationEvent{{
		ID:           "h1",
		AlertID:      alertID,
		StationCode:  "16107",
		Kind:         model.KindDocksAvailable,
		Threshold:    5,
		CurrentValue: 6,
		Status:       model.StatusSent,
		SentAt:       time.Date(2025, 3, 14, 8, 2, 0, 0, time.UTC),
	}}}
	r := newTestRouter(uc, nil)

	w, resp := do(r, http.MethodGet, "/api/v1/notifications?user_email=rider@example.com&page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rider@example.com", uc.history.Recipient)
	assert.Equal(t, paginator.PaginateQuery{Page: 2, Limit: 5}, uc.history.PaginateQuery)

	data := resp.Data.(map[string]any)
	assert.Len(t, data["items"].([]any), 1)
	assert.Equal(t, float64(2), data["meta"].(map[string]any)["current_page"])
}

func TestPurgeHistory(t *testing.T) {
	uc := &fakeUseCase{}
	r := newTestRouter(uc, nil)

	w, resp := do(r, http.MethodPost, "/api/v1/notifications/purge", map[string]any{"older_than": "2025-02-01T00:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, uc.purgedAt.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, float64(3), resp.Data.(map[string]any)["deleted"])

	w, _ = do(r, http.MethodPost, "/api/v1/notifications/purge", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
