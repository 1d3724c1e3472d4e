package audit

import (
	"context"
	"errors"
	"testing"

	"trainsafe/backend/internal/audit/domain"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListByIdentity(ctx context.Context, identityID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func TestLogger_Record_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, func(ctx context.Context) string { return "192.168.1.1" })

	actor := Actor{SessionID: "sess-1", IdentityID: "ident-1", Username: "editor_user"}
	logger.Record(context.Background(), actor, "EXECUTE_SQL_DENIED", "DROP TABLE train_data")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.SessionID != "sess-1" {
		t.Errorf("session_id = %q, want %q", entry.SessionID, "sess-1")
	}
	if entry.IdentityID != "ident-1" {
		t.Errorf("identity_id = %q, want %q", entry.IdentityID, "ident-1")
	}
	if entry.Username != "editor_user" {
		t.Errorf("username = %q, want %q", entry.Username, "editor_user")
	}
	if entry.Action != "EXECUTE_SQL_DENIED" {
		t.Errorf("action = %q, want %q", entry.Action, "EXECUTE_SQL_DENIED")
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want %q", entry.IP, "192.168.1.1")
	}
	if entry.ID == "" {
		t.Error("entry ID should be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("entry CreatedAt should be set")
	}
}

func TestLogger_Record_NilIPExtractor(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil)

	logger.Record(context.Background(), Actor{}, "LOGIN_FAILED", "")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want unknown", repo.entries[0].IP)
	}
}

func TestLogger_Record_RepoFailureDoesNotPropagate(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("connection refused")}
	logger := NewLogger(repo, nil)

	// Must not panic or surface the error; the primary operation goes on.
	logger.Record(context.Background(), Actor{Username: "viewer_user"}, "LOGIN_OK", "")
}

func TestLogger_Record_NilRepoNoop(t *testing.T) {
	logger := NewLogger(nil, nil)
	logger.Record(context.Background(), Actor{}, "LOGIN_OK", "")
}
