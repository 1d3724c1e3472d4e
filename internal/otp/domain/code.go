package domain

import "time"

// OneTimeCode is a single issued second-factor code (stored in one_time_codes table).
// Consumed flips true exactly once, on the first successful validation.
type OneTimeCode struct {
	ID         string
	IdentityID string
	CodeHash   string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Consumed   bool
}

// Expired reports whether the code is past its expiry at now.
// The boundary instant itself counts as expired.
func (c *OneTimeCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
