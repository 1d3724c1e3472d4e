package service

import (
	"context"
	"fmt"

	"trainsafe/backend/internal/audit"
	"trainsafe/backend/internal/permission"
	"trainsafe/backend/internal/query"
)

// PermissionError is a statement denial carrying the rule's reason. Terminal:
// retrying the identical statement yields the identical denial.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string { return e.Reason }

// SessionChecker re-derives session liveness for a protected call.
type SessionChecker interface {
	CheckSession(ctx context.Context, sessionID, identityID, token string) (string, error)
}

// StatementEvaluator decides whether a role may run a statement.
type StatementEvaluator interface {
	Evaluate(role, statement string) permission.Decision
}

// Request carries everything the gateway needs to authorize and run one statement.
type Request struct {
	SessionID  string
	IdentityID string
	Username   string
	Token      string
	Statement  string
}

// Gateway composes the session check, the permission evaluator, and the
// statement executor. Every outcome is audited best-effort.
type Gateway struct {
	sessions SessionChecker
	rules    StatementEvaluator
	store    query.Executor
	auditor  audit.Recorder
}

// NewGateway returns a Gateway with the given dependencies. auditor may be nil.
func NewGateway(sessions SessionChecker, rules StatementEvaluator, store query.Executor, auditor audit.Recorder) *Gateway {
	return &Gateway{sessions: sessions, rules: rules, store: store, auditor: auditor}
}

// ExecuteQuery authenticates the session, authorizes the statement for the
// session's snapshotted role, and executes it. Session denials come back as
// the lifecycle's sentinel errors, permission denials as *PermissionError,
// and store failures as *query.StoreError; none are retried.
func (g *Gateway) ExecuteQuery(ctx context.Context, req Request) (*query.Result, error) {
	actor := audit.Actor{SessionID: req.SessionID, IdentityID: req.IdentityID, Username: req.Username}

	role, err := g.sessions.CheckSession(ctx, req.SessionID, req.IdentityID, req.Token)
	if err != nil {
		g.record(ctx, actor, "EXECUTE_SQL_UNAUTHORIZED", err.Error())
		return nil, err
	}

	if d := g.rules.Evaluate(role, req.Statement); !d.Allowed {
		g.record(ctx, actor, "EXECUTE_SQL_DENIED",
			fmt.Sprintf("role=%s query=%s reason=%s", role, req.Statement, d.Reason))
		return nil, &PermissionError{Reason: d.Reason}
	}

	res, err := g.store.Execute(ctx, req.Statement)
	if err != nil {
		g.record(ctx, actor, "EXECUTE_SQL_ERROR", fmt.Sprintf("%s - %v", req.Statement, err))
		return nil, err
	}

	if res.Read {
		g.record(ctx, actor, "EXECUTE_SQL_OK_SELECT",
			fmt.Sprintf("%s - returned %d row(s)", req.Statement, len(res.Rows)))
	} else {
		g.record(ctx, actor, "EXECUTE_SQL_OK_DML", req.Statement)
	}
	return res, nil
}

func (g *Gateway) record(ctx context.Context, actor audit.Actor, action, details string) {
	if g.auditor == nil {
		return
	}
	g.auditor.Record(ctx, actor, action, details)
}
