package repository

import (
	"context"

	"trainsafe/backend/internal/audit/domain"
)

// Repository defines persistence for audit log entries.
type Repository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByIdentity(ctx context.Context, identityID string, limit, offset int32) ([]*domain.AuditLog, error)
}
