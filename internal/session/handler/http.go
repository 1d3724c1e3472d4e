package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trainsafe/backend/internal/audit"
	"trainsafe/backend/internal/server/middleware"
	sessionservice "trainsafe/backend/internal/session/service"
)

// Activator validates one-time codes into sessions and revokes them.
type Activator interface {
	ValidateCode(ctx context.Context, identityID, code string) (*sessionservice.ActiveSession, error)
	Revoke(ctx context.Context, sessionID, identityID, token string) error
}

// SessionHandler serves POST /validate_2fa and POST /logout.
type SessionHandler struct {
	lifecycle Activator
	auditor   audit.Recorder
}

func NewSessionHandler(lifecycle Activator, auditor audit.Recorder) *SessionHandler {
	return &SessionHandler{lifecycle: lifecycle, auditor: auditor}
}

type validateRequest struct {
	IdentityID string `json:"identity_id" binding:"required"`
	Code       string `json:"code" binding:"required"`
}

// Validate exchanges a one-time code for an active session. Each code works
// at most once; a second attempt with the same code is rejected.
func (h *SessionHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "identity_id and code are required"})
		return
	}

	sess, err := h.lifecycle.ValidateCode(c.Request.Context(), req.IdentityID, req.Code)
	if err != nil {
		middleware.AuthAttempts.WithLabelValues("failure", "2fa").Inc()
		h.record(c, audit.Actor{IdentityID: req.IdentityID}, "VALIDATE_2FA_FAILED", err.Error())
		switch {
		case errors.Is(err, sessionservice.ErrNoCode),
			errors.Is(err, sessionservice.ErrCodeMismatch),
			errors.Is(err, sessionservice.ErrCodeExpired),
			errors.Is(err, sessionservice.ErrCodeAlreadyUsed):
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		case errors.Is(err, sessionservice.ErrIdentityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error: " + err.Error()})
		}
		return
	}

	middleware.AuthAttempts.WithLabelValues("success", "2fa").Inc()
	h.record(c, audit.Actor{SessionID: sess.SessionID, IdentityID: req.IdentityID}, "VALIDATE_2FA_OK", "session activated")

	c.JSON(http.StatusOK, gin.H{
		"message":            "2FA validated",
		"identity_id":        req.IdentityID,
		"role":               sess.Role,
		"session_id":         sess.SessionID,
		"session_token":      sess.Token,
		"session_expires_at": sess.ExpiresAt.Format(time.RFC3339),
	})
}

type logoutRequest struct {
	SessionID    string `json:"session_id" binding:"required"`
	IdentityID   string `json:"identity_id" binding:"required"`
	SessionToken string `json:"session_token" binding:"required"`
}

// Logout deactivates the session. Revocation is permanent; the token cannot
// be used again.
func (h *SessionHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "session_id, identity_id and session_token are required"})
		return
	}

	err := h.lifecycle.Revoke(c.Request.Context(), req.SessionID, req.IdentityID, req.SessionToken)
	if err != nil {
		switch {
		case errors.Is(err, sessionservice.ErrSessionNotFound),
			errors.Is(err, sessionservice.ErrSessionInactive),
			errors.Is(err, sessionservice.ErrSessionExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error: " + err.Error()})
		}
		return
	}

	h.record(c, audit.Actor{SessionID: req.SessionID, IdentityID: req.IdentityID}, "LOGOUT", "session revoked")
	c.JSON(http.StatusOK, gin.H{"message": "Session revoked"})
}

func (h *SessionHandler) record(c *gin.Context, actor audit.Actor, action, details string) {
	if h.auditor == nil {
		return
	}
	h.auditor.Record(c.Request.Context(), actor, action, details)
}
