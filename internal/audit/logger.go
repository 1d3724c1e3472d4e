package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"trainsafe/backend/internal/audit/domain"
	auditrepo "trainsafe/backend/internal/audit/repository"
)

// Actor identifies who performed an audited action. Fields may be empty when
// the action failed before the actor was established (e.g. a bad login).
type Actor struct {
	SessionID  string
	IdentityID string
	Username   string
}

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// Recorder writes a single action record. Record is fire-and-forget:
// failures are logged and do not affect the primary operation.
type Recorder interface {
	Record(ctx context.Context, actor Actor, action, details string)
}

// Logger implements Recorder using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns a Recorder that persists to repo and uses ipExtractor for
// client IP. ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// Record writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) Record(ctx context.Context, actor Actor, action, details string) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		if v := l.ipExtractor(ctx); v != "" {
			ip = v
		}
	}
	entry := &domain.AuditLog{
		ID:         uuid.New().String(),
		SessionID:  actor.SessionID,
		IdentityID: actor.IdentityID,
		Username:   actor.Username,
		Action:     action,
		Details:    details,
		IP:         ip,
		CreatedAt:  time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to record %s: %v", action, err)
	}
}
