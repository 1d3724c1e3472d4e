package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trainsafe/backend/internal/query"
	queryservice "trainsafe/backend/internal/query/service"
	"trainsafe/backend/internal/server/middleware"
	sessionservice "trainsafe/backend/internal/session/service"
)

// QueryHandler serves POST /execute: session check, permission check, execute.
type QueryHandler struct {
	gateway *queryservice.Gateway
}

func NewQueryHandler(gateway *queryservice.Gateway) *QueryHandler {
	return &QueryHandler{gateway: gateway}
}

type executeRequest struct {
	SessionID    string `json:"session_id" binding:"required"`
	IdentityID   string `json:"identity_id" binding:"required"`
	SessionToken string `json:"session_token" binding:"required"`
	Username     string `json:"username"`
	Query        string `json:"query" binding:"required"`
}

// Execute runs one statement through the gateway. Session denials map to 401,
// permission denials to 403 with the rule's reason verbatim, store failures
// to 500. A denied statement never reaches the database.
func (h *QueryHandler) Execute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "session_id, identity_id, session_token and query are required"})
		return
	}

	res, err := h.gateway.ExecuteQuery(c.Request.Context(), queryservice.Request{
		SessionID:  req.SessionID,
		IdentityID: req.IdentityID,
		Username:   req.Username,
		Token:      req.SessionToken,
		Statement:  req.Query,
	})
	if err != nil {
		var permErr *queryservice.PermissionError
		var storeErr *query.StoreError
		switch {
		case errors.Is(err, sessionservice.ErrSessionNotFound),
			errors.Is(err, sessionservice.ErrSessionInactive),
			errors.Is(err, sessionservice.ErrSessionExpired):
			middleware.QueryDecisionsTotal.WithLabelValues("unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		case errors.As(err, &permErr):
			middleware.QueryDecisionsTotal.WithLabelValues("denied").Inc()
			c.JSON(http.StatusForbidden, gin.H{"message": permErr.Reason})
		case errors.As(err, &storeErr):
			middleware.QueryDecisionsTotal.WithLabelValues("store_error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error: " + storeErr.Err.Error()})
		default:
			middleware.QueryDecisionsTotal.WithLabelValues("store_error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error: " + err.Error()})
		}
		return
	}

	middleware.QueryDecisionsTotal.WithLabelValues("allowed").Inc()
	if res.Read {
		c.JSON(http.StatusOK, gin.H{"result": res.Rows})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Query executed successfully",
		"rows_affected": res.RowsAffected,
	})
}
