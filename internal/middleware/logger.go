package middleware

import (
	"time"

	"station-alert-srv/pkg/log"
	postgres "station-alert-srv/pkg/postgre"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags the request context with a request id and logs one
// line per request.
func (m Middleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = postgres.NewUUID()
		}
		c.Header(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context(), m.l, "request_id", reqID))

		c.Next()

		status := c.Writer.Status()
		logf := m.l.Infof
		if status >= 500 {
			logf = m.l.Errorf
		}
		logf(c.Request.Context(), "%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
