package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package

	"github.com/ndewijer/Fund-Investment-Results/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The schema comes from the same embedded migrations the server applies.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to set pragma: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
//
// Example usage:
//
//	count := testutil.CountRows(t, db, "investment_result")
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	//nolint:gosec // G202: table names come from test code only
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "investment_result", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}

// FailResultInserts installs a trigger rejecting every insert into investment_result,
// simulating a storage failure in the middle of a calculation.
func FailResultInserts(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec(`
		CREATE TRIGGER fail_result_insert BEFORE INSERT ON investment_result
		BEGIN
			SELECT RAISE(ABORT, 'result inserts disabled');
		END
	`)
	if err != nil {
		t.Fatalf("Failed to create trigger: %v", err)
	}
}

// FailResultInsertsAfter installs a trigger rejecting inserts into investment_result
// dated after the given day, so a batch fails part way through.
func FailResultInsertsAfter(t *testing.T, db *sql.DB, day string) {
	t.Helper()

	//nolint:gosec // G202: day comes from test code only
	_, err := db.Exec(`
		CREATE TRIGGER fail_result_insert_after BEFORE INSERT ON investment_result
		WHEN NEW.result_date > '` + day + `'
		BEGIN
			SELECT RAISE(ABORT, 'result inserts disabled');
		END
	`)
	if err != nil {
		t.Fatalf("Failed to create trigger: %v", err)
	}
}
