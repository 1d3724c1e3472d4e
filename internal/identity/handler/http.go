package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trainsafe/backend/internal/audit"
	identitydomain "trainsafe/backend/internal/identity/domain"
	identityservice "trainsafe/backend/internal/identity/service"
	"trainsafe/backend/internal/server/middleware"
)

// CredentialVerifier checks a username/password pair.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*identitydomain.Identity, error)
}

// CodeIssuer issues a one-time code for an authenticated identity.
type CodeIssuer interface {
	IssueCode(ctx context.Context, identityID string) (string, time.Time, error)
}

// LoginHandler serves POST /login: verify credentials, issue a one-time code.
type LoginHandler struct {
	verifier CredentialVerifier
	codes    CodeIssuer
	auditor  audit.Recorder
	// returnCode enables dev OTP mode: the issued code is included in the
	// response instead of being delivered out of band.
	returnCode bool
}

// NewLoginHandler returns a LoginHandler. auditor may be nil.
func NewLoginHandler(verifier CredentialVerifier, codes CodeIssuer, auditor audit.Recorder, returnCode bool) *LoginHandler {
	return &LoginHandler{verifier: verifier, codes: codes, auditor: auditor, returnCode: returnCode}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the credentials and issues a fresh one-time code for the
// identity. The code is the caller's second factor; validation happens at
// POST /validate_2fa.
func (h *LoginHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}

	ident, err := h.verifier.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, identityservice.ErrInvalidCredentials) {
			middleware.AuthAttempts.WithLabelValues("failure", "login").Inc()
			h.record(c, audit.Actor{Username: req.Username}, "LOGIN_FAILED", "invalid username/password")
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username/password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error: " + err.Error()})
		return
	}

	code, expiresAt, err := h.codes.IssueCode(c.Request.Context(), ident.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate 2FA"})
		return
	}

	middleware.AuthAttempts.WithLabelValues("success", "login").Inc()
	h.record(c, audit.Actor{IdentityID: ident.ID, Username: ident.Username}, "LOGIN_OK", "2FA code generated")

	resp := gin.H{
		"message":     "Login successful, 2FA generated",
		"identity_id": ident.ID,
		"role":        string(ident.Role),
	}
	if h.returnCode {
		resp["code"] = code
		resp["code_expires_at"] = expiresAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LoginHandler) record(c *gin.Context, actor audit.Actor, action, details string) {
	if h.auditor == nil {
		return
	}
	h.auditor.Record(c.Request.Context(), actor, action, details)
}
