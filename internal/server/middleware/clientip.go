package middleware

import (
	"github.com/gin-gonic/gin"

	"trainsafe/backend/internal/audit"
)

// ClientIP copies gin's resolved client IP onto the request context so that
// audit records written deeper in the call stack can include it.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := audit.WithClientIP(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
