package repository

import (
	"context"

	"trainsafe/backend/internal/identity/domain"
)

// Repository defines persistence for identities.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
	Create(ctx context.Context, i *domain.Identity) error
}
