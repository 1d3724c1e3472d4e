// Package query executes permitted raw statements against the shared store
// and normalizes the outcome to rows or a write acknowledgment.
package query

import (
	"context"
	"database/sql"
	"strings"
)

// Result is the outcome of a successfully executed statement: Rows for reads,
// RowsAffected for writes.
type Result struct {
	Read         bool
	Rows         []map[string]any
	RowsAffected int64
}

// StoreError wraps a data-store failure so callers can tell connectivity and
// execution errors apart from denials. Never retried here; retry policy, if
// any, belongs to the caller.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store error: " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// Executor runs raw statements against the shared store.
type Executor interface {
	Execute(ctx context.Context, statement string) (*Result, error)
}

// SQLExecutor implements Executor on a *sql.DB.
type SQLExecutor struct {
	db *sql.DB
}

// NewSQLExecutor returns an Executor backed by the given db.
func NewSQLExecutor(db *sql.DB) *SQLExecutor {
	return &SQLExecutor{db: db}
}

// Execute runs the statement. Statements that produce a row set are returned
// as column-name→value maps; everything else returns the affected row count.
// Failures come back as *StoreError.
func (e *SQLExecutor) Execute(ctx context.Context, statement string) (*Result, error) {
	if returnsRows(statement) {
		rows, err := e.db.QueryContext(ctx, statement)
		if err != nil {
			return nil, &StoreError{Err: err}
		}
		defer rows.Close()
		out, err := collectRows(rows)
		if err != nil {
			return nil, &StoreError{Err: err}
		}
		return &Result{Read: true, Rows: out}, nil
	}

	res, err := e.db.ExecContext(ctx, statement)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		// The write itself succeeded; some statements just have no count.
		n = 0
	}
	return &Result{RowsAffected: n}, nil
}

// returnsRows classifies a statement as row-producing by its leading keyword.
// Lexical like the permission rules; adequate for the statement shapes the
// evaluator lets through.
func returnsRows(statement string) bool {
	upper := strings.ToUpper(strings.TrimSpace(statement))
	for _, kw := range []string{"SELECT", "WITH", "SHOW", "VALUES", "EXPLAIN", "TABLE"} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}

func collectRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
