// Package permission decides whether a role may run a raw SQL statement.
//
// The evaluator is an ordered list of role-scoped rules (admin, editor,
// viewer) with a default deny for unrecognized roles. Statement
// classification is a best-effort lexical scan, not a parser; it is a policy
// guard for well-formed statements, not a security boundary against
// adversarial SQL (nested subqueries, comments, multi-statement batches).
package permission

import (
	"fmt"
	"regexp"
	"strings"

	identitydomain "trainsafe/backend/internal/identity/domain"
)

// Decision is the outcome of evaluating a statement for a role.
// Evaluate is a pure function: identical inputs yield identical decisions.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// rule decides the outcome for its own role and defers (ok false) otherwise.
type rule func(role, upperStmt string) (d Decision, ok bool)

// forbiddenPattern is a destructive statement shape editors may never run.
type forbiddenPattern struct {
	re   *regexp.Regexp
	name string
}

var editorForbidden = []forbiddenPattern{
	{regexp.MustCompile(`\bDROP\s+TABLE\b`), "DROP TABLE"},
	{regexp.MustCompile(`\bDROP\s+DATABASE\b`), "DROP DATABASE"},
	{regexp.MustCompile(`\bDROP\s+COLUMN\b`), "DROP COLUMN"},
	{regexp.MustCompile(`\bCREATE\s+DATABASE\b`), "CREATE DATABASE"},
	{regexp.MustCompile(`\bTRUNCATE\s+TABLE\b`), "TRUNCATE TABLE"},
}

var deleteRe = regexp.MustCompile(`\bDELETE\b`)

// Evaluator classifies (role, statement) into allow/deny with a reason.
type Evaluator struct {
	resourceTable string // upper-cased designated resource table
	displayTable  string // as configured, for denial messages
	rules         []rule
}

// NewEvaluator returns an Evaluator restricting non-admin roles to the given
// resource table.
func NewEvaluator(resourceTable string) *Evaluator {
	e := &Evaluator{
		resourceTable: strings.ToUpper(strings.TrimSpace(resourceTable)),
		displayTable:  strings.TrimSpace(resourceTable),
	}
	e.rules = []rule{e.adminRule, e.editorRule, e.viewerRule}
	return e
}

// Evaluate decides whether role may run statement. Rules are consulted in
// fixed priority order (admin, editor, viewer); the first rule owning the
// role decides. Unrecognized roles are denied.
func (e *Evaluator) Evaluate(role, statement string) Decision {
	upper := strings.ToUpper(strings.TrimSpace(statement))
	for _, r := range e.rules {
		if d, ok := r(role, upper); ok {
			return d
		}
	}
	return deny(fmt.Sprintf("unknown role: %s", role))
}

// adminRule: admin may run anything.
func (e *Evaluator) adminRule(role, upperStmt string) (Decision, bool) {
	if role != string(identitydomain.RoleAdmin) {
		return Decision{}, false
	}
	return allow(), true
}

// editorRule: everything except destructive statements and tables other than
// the resource table.
func (e *Evaluator) editorRule(role, upperStmt string) (Decision, bool) {
	if role != string(identitydomain.RoleEditor) {
		return Decision{}, false
	}
	for _, p := range editorForbidden {
		if p.re.MatchString(upperStmt) {
			return deny(fmt.Sprintf("Editor cannot execute: %s", p.name)), true
		}
	}
	// DELETE with no filtering clause wipes the table; RE2 has no lookahead,
	// so check for a WHERE after the DELETE keyword explicitly.
	if m := deleteRe.FindStringIndex(upperStmt); m != nil && !strings.Contains(upperStmt[m[1]:], "WHERE") {
		return deny("Editor cannot execute: DELETE without WHERE"), true
	}
	for _, table := range ExtractTables(upperStmt) {
		if table != e.resourceTable {
			return deny(fmt.Sprintf("Editor can only work with %s, found: %s", e.displayTable, table)), true
		}
	}
	return allow(), true
}

// viewerRule: SELECT only, and only from the resource table.
func (e *Evaluator) viewerRule(role, upperStmt string) (Decision, bool) {
	if role != string(identitydomain.RoleViewer) {
		return Decision{}, false
	}
	if !strings.HasPrefix(upperStmt, "SELECT") {
		return deny("Viewer can only execute SELECT statements."), true
	}
	for _, table := range ExtractReadTables(upperStmt) {
		if table != e.resourceTable {
			return deny(fmt.Sprintf("Viewer can only SELECT from %s, found: %s", e.displayTable, table)), true
		}
	}
	return allow(), true
}
