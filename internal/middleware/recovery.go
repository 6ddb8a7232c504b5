package middleware

import (
	"station-alert-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// Recovery renders panics as 500 and reports them to the operator channel.
func (m Middleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				m.l.Errorf(c.Request.Context(), "internal.middleware.Recovery: %v | %s %s",
					rec, c.Request.Method, c.Request.URL.Path)
				response.PanicError(c, rec, m.d)
				c.Abort()
			}
		}()
		c.Next()
	}
}
