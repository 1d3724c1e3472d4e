package repository

import (
	"context"
	"database/sql"
	"errors"

	"trainsafe/backend/internal/identity/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an identity repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the identity for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, phone, created_at
		FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

// GetByUsername returns the identity for username, or nil if not found.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, phone, created_at
		FROM identities WHERE username = $1`, username)
	return scanIdentity(row)
}

// Create persists the identity. The identity must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, i *domain.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, username, password_hash, role, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		i.ID, i.Username, i.PasswordHash, string(i.Role), i.Phone, i.CreatedAt)
	return err
}

func scanIdentity(row *sql.Row) (*domain.Identity, error) {
	var i domain.Identity
	var role string
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &role, &i.Phone, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	i.Role = domain.Role(role)
	return &i, nil
}
