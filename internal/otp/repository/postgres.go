package repository

import (
	"context"
	"database/sql"
	"errors"

	"trainsafe/backend/internal/otp/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a one-time-code repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the one-time code. The code must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.OneTimeCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO one_time_codes (id, identity_id, code_hash, issued_at, expires_at, consumed)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.IdentityID, c.CodeHash, c.IssuedAt, c.ExpiresAt, c.Consumed)
	return err
}

// GetLatestByIdentity returns the most recently issued code for the identity, or nil if none.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetLatestByIdentity(ctx context.Context, identityID string) (*domain.OneTimeCode, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, identity_id, code_hash, issued_at, expires_at, consumed
		FROM one_time_codes
		WHERE identity_id = $1
		ORDER BY issued_at DESC
		LIMIT 1`, identityID)
	var c domain.OneTimeCode
	err := row.Scan(&c.ID, &c.IdentityID, &c.CodeHash, &c.IssuedAt, &c.ExpiresAt, &c.Consumed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Consume marks the code consumed iff it is not already. The WHERE guard makes
// the flip a compare-and-set at the store, so exactly one of any concurrent
// validations observes true.
func (r *PostgresRepository) Consume(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE one_time_codes SET consumed = TRUE
		WHERE id = $1 AND NOT consumed`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
