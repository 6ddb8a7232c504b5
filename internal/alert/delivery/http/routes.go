package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the alert and history routes on r.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	alerts := r.Group("/alerts")
	{
		alerts.POST("", h.Create)
		alerts.GET("", h.List)
		alerts.GET("/:id", h.Detail)
		alerts.PATCH("/:id", h.Update)
		alerts.DELETE("/:id", h.Delete)
		alerts.GET("/:id/phase", h.Phase)
	}

	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.ListHistory)
		notifications.POST("/purge", h.PurgeHistory)
	}
}
