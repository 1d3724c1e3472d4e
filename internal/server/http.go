package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trainsafe/backend/internal/netguard"
	"trainsafe/backend/internal/server/middleware"
)

// Pinger reports store connectivity for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// LoginHandler serves the credential step of authentication.
type LoginHandler interface {
	Login(c *gin.Context)
}

// SessionHandler serves code validation and logout.
type SessionHandler interface {
	Validate(c *gin.Context)
	Logout(c *gin.Context)
}

// QueryHandler serves gated statement execution.
type QueryHandler interface {
	Execute(c *gin.Context)
}

// Deps holds everything the router needs.
type Deps struct {
	Login     LoginHandler
	Sessions  SessionHandler
	Queries   QueryHandler
	DB        Pinger
	Allowlist *netguard.Allowlist
}

// NewRouter builds the HTTP router: IP allow-list and metrics middleware,
// the authentication and query routes, plus health and metrics endpoints.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.ClientIP())
	if d.Allowlist != nil {
		r.Use(middleware.Allowlist(d.Allowlist))
	}

	r.POST("/login", d.Login.Login)
	r.POST("/validate_2fa", d.Sessions.Validate)
	r.POST("/logout", d.Sessions.Logout)
	r.POST("/execute", d.Queries.Execute)

	r.GET("/healthz", func(c *gin.Context) {
		if d.DB != nil {
			if err := d.DB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
