package repository

import (
	"context"
	"database/sql"

	"trainsafe/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit log entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, session_id, identity_id, username, action, details, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.SessionID, entry.IdentityID, entry.Username,
		entry.Action, entry.Details, entry.IP, entry.CreatedAt)
	return err
}

// ListByIdentity returns audit log entries for the identity, newest first,
// with limit and offset.
func (r *PostgresRepository) ListByIdentity(ctx context.Context, identityID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, identity_id, username, action, details, ip, created_at
		FROM audit_logs
		WHERE identity_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, identityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		var e domain.AuditLog
		if err := rows.Scan(&e.ID, &e.SessionID, &e.IdentityID, &e.Username,
			&e.Action, &e.Details, &e.IP, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
