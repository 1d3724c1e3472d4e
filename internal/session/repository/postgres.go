package repository

import (
	"context"
	"database/sql"
	"errors"

	"trainsafe/backend/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the session to the database. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, identity_id, role, token_hash, active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.IdentityID, s.Role, s.TokenHash, s.Active, s.ExpiresAt, s.CreatedAt)
	return err
}

// GetByIDAndIdentity returns the session for (id, identityID), or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByIDAndIdentity(ctx context.Context, id, identityID string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, identity_id, role, token_hash, active, expires_at, created_at
		FROM sessions
		WHERE id = $1 AND identity_id = $2`, id, identityID)
	var s domain.Session
	err := row.Scan(&s.ID, &s.IdentityID, &s.Role, &s.TokenHash, &s.Active, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Deactivate marks the session with the given id as inactive. Returns an error if the update fails.
func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET active = FALSE WHERE id = $1`, id)
	return err
}
