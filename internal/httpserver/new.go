package httpserver

import (
	"context"
	"errors"
	"time"

	alertHTTP "station-alert-srv/internal/alert/delivery/http"
	"station-alert-srv/internal/middleware"
	"station-alert-srv/pkg/discord"
	"station-alert-srv/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	checkTimeout      = 3 * time.Second
)

// HealthCheck is one dependency probed by /health and /ready.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HTTPServer struct {
	gin  *gin.Engine
	l    log.Logger
	host string
	port int

	alertHandler *alertHTTP.Handler
	gatherer     prometheus.Gatherer
	checks       []HealthCheck
	mw           middleware.Middleware
}

type Config struct {
	Host string
	Port int
	Mode string

	AlertHandler *alertHTTP.Handler
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
	Checks   []HealthCheck
	Discord  discord.IDiscord
}

// New wires the server. Routes are mapped by Run.
func New(l log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	srv := &HTTPServer{
		gin:          gin.New(),
		l:            l,
		host:         cfg.Host,
		port:         cfg.Port,
		alertHandler: cfg.AlertHandler,
		gatherer:     cfg.Gatherer,
		checks:       cfg.Checks,
		mw:           middleware.New(l, cfg.Discord),
	}
	if err := srv.validate(); err != nil {
		return nil, err
	}
	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
