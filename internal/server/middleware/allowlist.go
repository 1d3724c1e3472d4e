package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trainsafe/backend/internal/netguard"
)

// Allowlist rejects requests from client addresses outside the configured
// ranges before any handler runs. Runs on every route, including login.
func Allowlist(allow *netguard.Allowlist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow.IsAllowed(c.ClientIP()) {
			RejectedIPsTotal.Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid IP address"})
			return
		}
		c.Next()
	}
}
