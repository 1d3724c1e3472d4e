package domain

import "time"

// Session is a time-boxed authorization created when a one-time code validates.
// Role is snapshotted at activation; a later role change on the identity takes
// effect only on the next login.
type Session struct {
	ID         string
	IdentityID string
	Role       string
	TokenHash  string
	Active     bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Live reports whether the session authorizes calls at now. A session is live
// only strictly before its expiry instant; at the boundary it is expired.
func (s *Session) Live(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}
