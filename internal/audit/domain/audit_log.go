package domain

import "time"

// AuditLog is one append-only action record (stored in audit_logs table).
type AuditLog struct {
	ID         string
	SessionID  string
	IdentityID string
	Username   string
	Action     string
	Details    string
	IP         string
	CreatedAt  time.Time
}
