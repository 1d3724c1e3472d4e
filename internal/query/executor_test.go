package query

import (
	"errors"
	"testing"
)

func TestReturnsRows(t *testing.T) {
	reads := []string{
		"SELECT * FROM train_data",
		"  select loan_id from train_data",
		"WITH t AS (SELECT 1) SELECT * FROM t",
		"EXPLAIN SELECT * FROM train_data",
		"TABLE train_data",
		"VALUES (1), (2)",
	}
	for _, stmt := range reads {
		if !returnsRows(stmt) {
			t.Errorf("returnsRows(%q) = false, want true", stmt)
		}
	}

	writes := []string{
		"INSERT INTO train_data (loan_id) VALUES ('LP1')",
		"UPDATE train_data SET loan_status = 'Y' WHERE loan_id = 'LP1'",
		"DELETE FROM train_data WHERE loan_id = 'LP1'",
		"ALTER TABLE train_data ADD COLUMN notes TEXT",
	}
	for _, stmt := range writes {
		if returnsRows(stmt) {
			t.Errorf("returnsRows(%q) = true, want false", stmt)
		}
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &StoreError{Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("StoreError must unwrap to the underlying error")
	}
	if err.Error() != "store error: connection refused" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
