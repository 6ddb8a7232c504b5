package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"station-alert-srv/pkg/log"
	"station-alert-srv/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, checks ...HealthCheck) *HTTPServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "station_alert_test_total", Help: "test"}))

	srv, err := New(log.NewNop(), Config{Port: 8080, Mode: gin.TestMode, Gatherer: reg, Checks: checks})
	require.NoError(t, err)
	srv.mapHandlers()
	return srv
}

func get(srv *HTTPServer, path string) (*httptest.ResponseRecorder, response.Resp) {
	w := httptest.NewRecorder()
	srv.gin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var resp response.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestNew_RequiresPort(t *testing.T) {
	_, err := New(log.NewNop(), Config{Mode: gin.TestMode})
	assert.Error(t, err)
}

func TestHealthAndReady(t *testing.T) {
	ok := HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }}
	down := HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("refused") }}

	srv := newTestServer(t, ok)
	w, resp := get(srv, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", resp.Data.(map[string]any)["status"])

	srv = newTestServer(t, ok, down)
	w, resp = get(srv, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "degraded", data["status"])
	assert.Equal(t, "unavailable", data["dependencies"].(map[string]any)["redis"])

	w, _ = get(srv, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = get(srv, "/live")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	srv.gin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "station_alert_test_total")
}
