package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	identitydomain "trainsafe/backend/internal/identity/domain"
	"trainsafe/backend/internal/otp"
	otpdomain "trainsafe/backend/internal/otp/domain"
	sessiondomain "trainsafe/backend/internal/session/domain"
)

// Sentinel errors for the session lifecycle; handlers map them to HTTP statuses.
// Code errors mean the caller must restart from login; session errors mean the
// caller must restart from login or code validation.
var (
	ErrNoCode           = errors.New("no code issued")
	ErrCodeAlreadyUsed  = errors.New("code already used")
	ErrCodeExpired      = errors.New("code expired")
	ErrCodeMismatch     = errors.New("invalid code")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrSessionNotFound  = errors.New("invalid session token")
	ErrSessionInactive  = errors.New("session is not active")
	ErrSessionExpired   = errors.New("session expired")
)

// ActiveSession is the handle returned by a successful code validation.
// Token is the plaintext code acting as the session token; it is returned
// once and stored only as a hash.
type ActiveSession struct {
	SessionID string
	Role      string
	Token     string
	ExpiresAt time.Time
}

// CodeRepo is the minimal one-time-code repository needed by the lifecycle.
type CodeRepo interface {
	Create(ctx context.Context, c *otpdomain.OneTimeCode) error
	GetLatestByIdentity(ctx context.Context, identityID string) (*otpdomain.OneTimeCode, error)
	Consume(ctx context.Context, id string) (bool, error)
}

// SessionRepo is the minimal session repository needed by the lifecycle.
type SessionRepo interface {
	Create(ctx context.Context, s *sessiondomain.Session) error
	GetByIDAndIdentity(ctx context.Context, id, identityID string) (*sessiondomain.Session, error)
	Deactivate(ctx context.Context, id string) error
}

// IdentityRepo is the minimal identity repository needed by the lifecycle.
type IdentityRepo interface {
	GetByID(ctx context.Context, id string) (*identitydomain.Identity, error)
}

// Lifecycle owns the code→session state machine: issue a code, validate it
// exactly once into a session, and re-derive session liveness on every
// protected call. Expiry is enforced lazily at read time; there is no sweep.
type Lifecycle struct {
	codes      CodeRepo
	sessions   SessionRepo
	identities IdentityRepo
	codeTTL    time.Duration
	sessionTTL time.Duration
	nowF       func() time.Time
}

// NewLifecycle returns a Lifecycle with the given dependencies and TTLs.
func NewLifecycle(codes CodeRepo, sessions SessionRepo, identities IdentityRepo, codeTTL, sessionTTL time.Duration) *Lifecycle {
	return &Lifecycle{
		codes:      codes,
		sessions:   sessions,
		identities: identities,
		codeTTL:    codeTTL,
		sessionTTL: sessionTTL,
		nowF:       func() time.Time { return time.Now().UTC() },
	}
}

// IssueCode generates a fresh code for the identity, persists it hashed, and
// returns the plaintext code with its expiry. Prior unconsumed codes for the
// identity are not touched; validation only ever consults the newest record.
func (l *Lifecycle) IssueCode(ctx context.Context, identityID string) (string, time.Time, error) {
	code, err := otp.GenerateCode()
	if err != nil {
		return "", time.Time{}, err
	}
	now := l.nowF()
	rec := &otpdomain.OneTimeCode{
		ID:         uuid.New().String(),
		IdentityID: identityID,
		CodeHash:   otp.HashCode(code),
		IssuedAt:   now,
		ExpiresAt:  now.Add(l.codeTTL),
	}
	if err := l.codes.Create(ctx, rec); err != nil {
		return "", time.Time{}, err
	}
	return code, rec.ExpiresAt, nil
}

// ValidateCode checks the submitted code against the identity's most recently
// issued record and, on success, consumes the code and activates a session.
// Consumption is a store-level compare-and-set: of two concurrent validations
// with the correct code, exactly one gets a session; the other gets
// ErrCodeAlreadyUsed.
func (l *Lifecycle) ValidateCode(ctx context.Context, identityID, submitted string) (*ActiveSession, error) {
	rec, err := l.codes.GetLatestByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoCode
	}
	if rec.Consumed {
		return nil, ErrCodeAlreadyUsed
	}
	now := l.nowF()
	if rec.Expired(now) {
		return nil, ErrCodeExpired
	}
	if !otp.CodeEqual(submitted, rec.CodeHash) {
		return nil, ErrCodeMismatch
	}
	ok, err := l.codes.Consume(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCodeAlreadyUsed
	}
	ident, err := l.identities.GetByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, ErrIdentityNotFound
	}
	sess := &sessiondomain.Session{
		ID:         uuid.New().String(),
		IdentityID: identityID,
		Role:       string(ident.Role),
		TokenHash:  rec.CodeHash,
		Active:     true,
		ExpiresAt:  now.Add(l.sessionTTL),
		CreatedAt:  now,
	}
	if err := l.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &ActiveSession{
		SessionID: sess.ID,
		Role:      sess.Role,
		Token:     submitted,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// CheckSession re-derives whether the session is live for the given token and
// returns the role snapshotted at activation. Liveness is recomputed on every
// call, never cached.
func (l *Lifecycle) CheckSession(ctx context.Context, sessionID, identityID, token string) (string, error) {
	sess, err := l.getLiveSession(ctx, sessionID, identityID, token)
	if err != nil {
		return "", err
	}
	return sess.Role, nil
}

// Revoke deactivates the session for the given token. Subsequent CheckSession
// calls fail with ErrSessionInactive.
func (l *Lifecycle) Revoke(ctx context.Context, sessionID, identityID, token string) error {
	sess, err := l.getLiveSession(ctx, sessionID, identityID, token)
	if err != nil {
		return err
	}
	return l.sessions.Deactivate(ctx, sess.ID)
}

func (l *Lifecycle) getLiveSession(ctx context.Context, sessionID, identityID, token string) (*sessiondomain.Session, error) {
	sess, err := l.sessions.GetByIDAndIdentity(ctx, sessionID, identityID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if !otp.CodeEqual(token, sess.TokenHash) {
		return nil, ErrSessionNotFound
	}
	if !sess.Active {
		return nil, ErrSessionInactive
	}
	if !l.nowF().Before(sess.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return sess, nil
}
