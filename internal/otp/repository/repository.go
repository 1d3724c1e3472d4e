package repository

import (
	"context"

	"trainsafe/backend/internal/otp/domain"
)

// Repository defines persistence for one-time codes.
type Repository interface {
	Create(ctx context.Context, c *domain.OneTimeCode) error
	// GetLatestByIdentity returns the most recently issued code for the identity,
	// or nil if none exists. Older codes are superseded, never consulted.
	GetLatestByIdentity(ctx context.Context, identityID string) (*domain.OneTimeCode, error)
	// Consume atomically flips consumed false→true for the code with the given id.
	// Returns false if the code was already consumed, so two concurrent
	// validations of the same code cannot both succeed.
	Consume(ctx context.Context, id string) (bool, error)
}
