package domain

import (
	"errors"
	"time"
)

// Identity is an account that may log in and run statements.
type Identity struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	Phone        string // optional; delivery target for one-time codes
	CreatedAt    time.Time
}

// Role is the authorization role snapshotted into sessions at activation.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ParseRole returns the Role for s, or an error for unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return Role(s), nil
	}
	return "", errors.New("unknown role: " + s)
}

// Validate validates the identity for persistence. Returns an error describing
// the first validation failure.
func (i *Identity) Validate() error {
	if i.Username == "" {
		return errors.New("username is required")
	}
	if i.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if _, err := ParseRole(string(i.Role)); err != nil {
		return err
	}
	return nil
}
