package httpserver

import (
	"context"
	"net/http"

	pkgErrors "station-alert-srv/pkg/errors"
	"station-alert-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

const serviceName = "station-alert-srv"

var errNotReady = pkgErrors.NewHTTPError(503, "Service not ready", http.StatusServiceUnavailable)

// probe runs every check and returns each dependency's state.
func (srv *HTTPServer) probe(ctx context.Context) (map[string]string, bool) {
	states := make(map[string]string, len(srv.checks))
	healthy := true
	for _, hc := range srv.checks {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := hc.Check(cctx)
		cancel()
		if err != nil {
			srv.l.Warnf(ctx, "internal.httpserver.probe: %s: %v", hc.Name, err)
			states[hc.Name] = "unavailable"
			healthy = false
			continue
		}
		states[hc.Name] = "connected"
	}
	return states, healthy
}

// healthCheck reports every dependency. It always answers 200.
// @Summary Health Check
// @Tags Health
// @Produce json
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	states, healthy := srv.probe(c.Request.Context())
	status := "healthy"
	if !healthy {
		status = "degraded"
	}
	response.OK(c, gin.H{
		"status":       status,
		"service":      serviceName,
		"dependencies": states,
	})
}

// readyCheck answers 503 until every dependency is reachable.
// @Summary Readiness Check
// @Tags Health
// @Produce json
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	states, healthy := srv.probe(c.Request.Context())
	if !healthy {
		response.Error(c, errNotReady, nil)
		return
	}
	response.OK(c, gin.H{
		"status":       "ready",
		"service":      serviceName,
		"dependencies": states,
	})
}

// liveCheck
// @Summary Liveness Check
// @Tags Health
// @Produce json
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": serviceName,
	})
}
