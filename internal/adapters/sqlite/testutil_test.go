package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/covenant/internal/db"
	"github.com/example/covenant/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := database.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return database
}

// seedAtom inserts an atom row directly for test setup.
func seedAtom(t *testing.T, database *sql.DB, id, status string, qualityScore *int) {
	t.Helper()

	var score sql.NullInt64
	if qualityScore != nil {
		score = sql.NullInt64{Int64: int64(*qualityScore), Valid: true}
	}
	_, err := database.Exec(
		"INSERT INTO atoms (id, description, category, quality_score, status) VALUES (?, ?, 'functional', ?, ?)",
		id, "seed atom "+id, score, status,
	)
	if err != nil {
		t.Fatalf("failed to seed atom %s: %v", id, err)
	}
}

// seedConfig inserts an invariant config row directly for test setup.
func seedConfig(t *testing.T, database *sql.DB, invariantID, projectID string, enabled, blocking bool) {
	t.Helper()

	_, err := database.Exec(
		"INSERT INTO invariant_configs (invariant_id, project_id, name, enabled, blocking, check_type) VALUES (?, ?, ?, ?, ?, 'builtin')",
		invariantID, projectID, invariantID, boolToInt(enabled), boolToInt(blocking),
	)
	if err != nil {
		t.Fatalf("failed to seed config %s/%q: %v", invariantID, projectID, err)
	}
}

// newCommitmentRecord builds a minimal valid record for Create tests.
func newCommitmentRecord(committedBy string) *secondary.CommitmentRecord {
	return &secondary.CommitmentRecord{
		CanonicalJSON: `[{"atomId":"IA-001"}]`,
		CommittedBy:   committedBy,
		CommittedAt:   time.Now().UTC().Format(time.RFC3339),
		CheckResults:  "[]",
		Status:        "active",
	}
}

func intPtr(n int) *int {
	return &n
}

func testContext() context.Context {
	return context.Background()
}
