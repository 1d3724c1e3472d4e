package permission

import (
	"testing"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator("train_data")
}

func TestEvaluate_ViewerSelectResourceTable(t *testing.T) {
	e := newTestEvaluator()
	d := e.Evaluate("viewer", "SELECT * FROM train_data")
	if !d.Allowed {
		t.Errorf("denied: %s", d.Reason)
	}
}

func TestEvaluate_ViewerOtherTableDenied(t *testing.T) {
	e := newTestEvaluator()
	d := e.Evaluate("viewer", "SELECT * FROM OTHER_TABLE")
	if d.Allowed {
		t.Fatal("should be denied")
	}
	want := "Viewer can only SELECT from train_data, found: OTHER_TABLE"
	if d.Reason != want {
		t.Errorf("reason = %q, want %q", d.Reason, want)
	}
}

func TestEvaluate_ViewerNonSelectDenied(t *testing.T) {
	e := newTestEvaluator()
	for _, stmt := range []string{
		"INSERT INTO train_data (loan_id) VALUES ('x')",
		"UPDATE train_data SET loan_status='Y'",
		"DELETE FROM train_data WHERE loan_id='x'",
		"DROP TABLE train_data",
		"",
	} {
		d := e.Evaluate("viewer", stmt)
		if d.Allowed {
			t.Errorf("viewer allowed for %q", stmt)
		}
		if d.Reason != "Viewer can only execute SELECT statements." {
			t.Errorf("reason = %q for %q", d.Reason, stmt)
		}
	}
}

func TestEvaluate_ViewerJoinOtherTableDenied(t *testing.T) {
	e := newTestEvaluator()
	d := e.Evaluate("viewer", "SELECT a.* FROM train_data a JOIN accounts b ON a.id=b.id")
	if d.Allowed {
		t.Fatal("join against another table should be denied")
	}
}

func TestEvaluate_EditorForbiddenPatterns(t *testing.T) {
	e := newTestEvaluator()
	cases := []struct {
		stmt   string
		reason string
	}{
		{"DROP TABLE train_data", "Editor cannot execute: DROP TABLE"},
		{"drop   table train_data", "Editor cannot execute: DROP TABLE"},
		{"DROP DATABASE trainsafe", "Editor cannot execute: DROP DATABASE"},
		{"ALTER TABLE train_data DROP COLUMN gender", "Editor cannot execute: DROP COLUMN"},
		{"CREATE DATABASE other", "Editor cannot execute: CREATE DATABASE"},
		{"TRUNCATE TABLE train_data", "Editor cannot execute: TRUNCATE TABLE"},
		{"DELETE FROM train_data", "Editor cannot execute: DELETE without WHERE"},
	}
	for _, tc := range cases {
		d := e.Evaluate("editor", tc.stmt)
		if d.Allowed {
			t.Errorf("editor allowed for %q", tc.stmt)
			continue
		}
		if d.Reason != tc.reason {
			t.Errorf("reason for %q = %q, want %q", tc.stmt, d.Reason, tc.reason)
		}
	}
}

func TestEvaluate_EditorConditionalDeleteAllowed(t *testing.T) {
	e := newTestEvaluator()
	d := e.Evaluate("editor", "DELETE FROM train_data WHERE Loan_ID='x'")
	if !d.Allowed {
		t.Errorf("denied: %s", d.Reason)
	}
}

func TestEvaluate_EditorOtherTableDenied(t *testing.T) {
	e := newTestEvaluator()
	cases := []string{
		"SELECT * FROM accounts",
		"INSERT INTO accounts (id) VALUES (1)",
		"UPDATE accounts SET name='x' WHERE id=1",
		"SELECT a.* FROM train_data a JOIN accounts b ON a.id=b.id",
	}
	for _, stmt := range cases {
		d := e.Evaluate("editor", stmt)
		if d.Allowed {
			t.Errorf("editor allowed for %q", stmt)
			continue
		}
		want := "Editor can only work with train_data, found: ACCOUNTS"
		if d.Reason != want {
			t.Errorf("reason for %q = %q, want %q", stmt, d.Reason, want)
		}
	}
}

func TestEvaluate_EditorWritesOnResourceTableAllowed(t *testing.T) {
	e := newTestEvaluator()
	for _, stmt := range []string{
		"INSERT INTO train_data (loan_id, loan_status) VALUES ('x', 'Y')",
		"UPDATE train_data SET loan_status='N' WHERE loan_id='x'",
		"SELECT * FROM train_data",
		"SELECT * FROM `train_data`",
	} {
		d := e.Evaluate("editor", stmt)
		if !d.Allowed {
			t.Errorf("editor denied for %q: %s", stmt, d.Reason)
		}
	}
}

func TestEvaluate_AdminAllowsEverything(t *testing.T) {
	e := newTestEvaluator()
	for _, stmt := range []string{
		"DROP TABLE train_data",
		"DELETE FROM train_data",
		"CREATE DATABASE other",
		"SELECT * FROM anything",
		"",
	} {
		if d := e.Evaluate("admin", stmt); !d.Allowed {
			t.Errorf("admin denied for %q: %s", stmt, d.Reason)
		}
	}
}

func TestEvaluate_UnknownRoleDenied(t *testing.T) {
	e := newTestEvaluator()
	for _, role := range []string{"", "root", "superuser", "ADMIN"} {
		d := e.Evaluate(role, "SELECT * FROM train_data")
		if d.Allowed {
			t.Errorf("role %q should be denied", role)
		}
	}
}

func TestEvaluate_RoleMonotonicity(t *testing.T) {
	e := newTestEvaluator()
	statements := []string{
		"SELECT * FROM train_data",
		"SELECT * FROM OTHER_TABLE",
		"INSERT INTO train_data (loan_id) VALUES ('x')",
		"DELETE FROM train_data",
		"DROP TABLE train_data",
	}
	for _, stmt := range statements {
		viewer := e.Evaluate("viewer", stmt)
		editor := e.Evaluate("editor", stmt)
		admin := e.Evaluate("admin", stmt)
		if !admin.Allowed {
			t.Errorf("admin denied for %q", stmt)
		}
		// A read the viewer may run is never denied to the editor.
		if viewer.Allowed && !editor.Allowed {
			t.Errorf("editor narrower than viewer for %q", stmt)
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newTestEvaluator()
	for _, stmt := range []string{"SELECT * FROM train_data", "DROP TABLE train_data"} {
		for _, role := range []string{"admin", "editor", "viewer", "other"} {
			first := e.Evaluate(role, stmt)
			second := e.Evaluate(role, stmt)
			if first != second {
				t.Errorf("Evaluate(%q, %q) not idempotent: %+v vs %+v", role, stmt, first, second)
			}
		}
	}
}

func TestEvaluate_CustomResourceTable(t *testing.T) {
	e := NewEvaluator("cargo_data")
	if d := e.Evaluate("viewer", "SELECT * FROM cargo_data"); !d.Allowed {
		t.Errorf("denied: %s", d.Reason)
	}
	d := e.Evaluate("viewer", "SELECT * FROM train_data")
	if d.Allowed {
		t.Fatal("should be denied against cargo_data restriction")
	}
	want := "Viewer can only SELECT from cargo_data, found: TRAIN_DATA"
	if d.Reason != want {
		t.Errorf("reason = %q, want %q", d.Reason, want)
	}
}
