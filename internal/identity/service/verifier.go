package service

import (
	"context"
	"errors"
	"strings"

	identitydomain "trainsafe/backend/internal/identity/domain"
	"trainsafe/backend/internal/security"
)

// ErrInvalidCredentials is returned for unknown usernames and wrong passwords alike,
// so callers cannot probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// IdentityRepo is the minimal identity repository needed by the verifier.
type IdentityRepo interface {
	GetByUsername(ctx context.Context, username string) (*identitydomain.Identity, error)
}

// Verifier checks username/password pairs against stored bcrypt hashes.
type Verifier struct {
	identityRepo IdentityRepo
	hasher       *security.Hasher
}

// NewVerifier returns a Verifier with the given dependencies.
func NewVerifier(identityRepo IdentityRepo, hasher *security.Hasher) *Verifier {
	return &Verifier{identityRepo: identityRepo, hasher: hasher}
}

// Verify authenticates the username/password pair and returns the matching identity.
// Returns ErrInvalidCredentials when the username is unknown or the password does not match.
func (v *Verifier) Verify(ctx context.Context, username, password string) (*identitydomain.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	ident, err := v.identityRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if ident == nil || ident.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := v.hasher.Compare(ident.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return ident, nil
}
