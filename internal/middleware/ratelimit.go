package middleware

import (
	"net/http"
	"time"

	pkgErrors "station-alert-srv/pkg/errors"
	"station-alert-srv/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

var errTooManyRequests = pkgErrors.NewHTTPError(100429, "Too many requests", http.StatusTooManyRequests)

type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate allowed per client IP.
	RequestsPerSecond float64
	Burst             int
	// MaxClients bounds the number of tracked clients.
	MaxClients int
	// IdleTTL forgets clients idle for longer.
	IdleTTL time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		MaxClients:        10000,
		IdleTTL:           10 * time.Minute,
	}
}

// RateLimit applies a token bucket per client IP.
func (m Middleware) RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiters := expirable.NewLRU[string, *rate.Limiter](cfg.MaxClients, nil, cfg.IdleTTL)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		lim, ok := limiters.Get(ip)
		if !ok {
			lim = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
			limiters.Add(ip, lim)
		}

		if !lim.Allow() {
			m.l.Warnf(c.Request.Context(), "internal.middleware.RateLimit: %s over limit on %s", ip, c.Request.URL.Path)
			response.Error(c, errTooManyRequests, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
