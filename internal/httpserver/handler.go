package httpserver

import (
	"station-alert-srv/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Api = "/api/v1"

func (srv *HTTPServer) mapHandlers() {
	srv.gin.Use(srv.mw.RequestLogger(), srv.mw.Recovery(), srv.mw.CORS(middleware.DefaultCORSConfig()))

	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
	srv.gin.GET("/metrics", gin.WrapH(promhttp.HandlerFor(srv.gatherer, promhttp.HandlerOpts{})))

	if srv.alertHandler != nil {
		api := srv.gin.Group(Api)
		api.Use(srv.mw.RateLimit(middleware.DefaultRateLimitConfig()))
		srv.alertHandler.RegisterRoutes(api)
	}
}
