package repository

import (
	"context"

	"trainsafe/backend/internal/session/domain"
)

// Repository defines persistence for sessions.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// GetByIDAndIdentity returns the session with the given id belonging to the
	// identity, or nil if no such session exists.
	GetByIDAndIdentity(ctx context.Context, id, identityID string) (*domain.Session, error)
	// Deactivate marks the session inactive. Expiry itself is a read-time check;
	// Deactivate is for explicit revocation.
	Deactivate(ctx context.Context, id string) error
}
