package sqlite

import (
	"strings"
	"testing"

	"github.com/example/covenant/internal/ports/secondary"
)

func TestCommitmentRepositoryCreate(t *testing.T) {
	database := setupTestDB(t)
	repo := NewCommitmentRepository(database)
	atoms := NewAtomRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", intPtr(85))
	seedAtom(t, database, "IA-002", "proposed", nil)

	rec := newCommitmentRecord("jane@co.com")
	if err := repo.Create(ctx, rec, []string{"IA-001", "IA-002"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.ID != "COM-001" {
		t.Errorf("allocated id = %s, want COM-001", rec.ID)
	}

	got, err := repo.GetByID(ctx, "COM-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected commitment, got nil")
	}
	if got.CommittedBy != "jane@co.com" {
		t.Errorf("committedBy = %q", got.CommittedBy)
	}
	if got.Status != "active" {
		t.Errorf("status = %q, want active", got.Status)
	}
	if got.CommittedAt == "" {
		t.Error("expected committedAt to round-trip")
	}

	ids, err := repo.GetAtomIDs(ctx, "COM-001")
	if err != nil {
		t.Fatalf("GetAtomIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "IA-001" || ids[1] != "IA-002" {
		t.Errorf("atom ids = %v", ids)
	}

	// Both atoms flipped to committed inside the same transaction.
	for _, id := range []string{"IA-001", "IA-002"} {
		atom, err := atoms.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if atom.Status != "committed" {
			t.Errorf("%s status = %q, want committed", id, atom.Status)
		}
		if atom.CommittedAt == "" {
			t.Errorf("%s committedAt not stamped", id)
		}
	}
}

func TestCommitmentRepositoryCreateSequentialIDs(t *testing.T) {
	database := setupTestDB(t)
	repo := NewCommitmentRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)
	seedAtom(t, database, "IA-002", "draft", nil)
	seedAtom(t, database, "IA-003", "draft", nil)

	for i, atomID := range []string{"IA-001", "IA-002", "IA-003"} {
		rec := newCommitmentRecord("jane@co.com")
		if err := repo.Create(ctx, rec, []string{atomID}); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	records, err := repo.List(ctx, secondary.CommitmentFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 commitments, got %d", len(records))
	}
	// Newest first.
	wantIDs := []string{"COM-003", "COM-002", "COM-001"}
	for i, want := range wantIDs {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %s, want %s", i, records[i].ID, want)
		}
	}
}

func TestCommitmentRepositoryCreateRejectsCommittedAtom(t *testing.T) {
	database := setupTestDB(t)
	repo := NewCommitmentRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)
	seedAtom(t, database, "IA-002", "committed", nil)

	rec := newCommitmentRecord("jane@co.com")
	err := repo.Create(ctx, rec, []string{"IA-001", "IA-002"})
	if err == nil {
		t.Fatal("expected error committing an already-committed atom")
	}
	if !strings.Contains(err.Error(), "no longer committable") {
		t.Errorf("unexpected error: %v", err)
	}

	// Whole transaction rolled back: no commitment row, IA-001 untouched.
	got, err := repo.GetByID(ctx, "COM-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Error("expected rollback to remove the commitment row")
	}
	atoms := NewAtomRepository(database)
	atom, err := atoms.GetByID(ctx, "IA-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if atom.Status != "draft" {
		t.Errorf("IA-001 status = %q, want draft after rollback", atom.Status)
	}
}

func TestCommitmentRepositoryCreateSupersedes(t *testing.T) {
	database := setupTestDB(t)
	repo := NewCommitmentRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)
	seedAtom(t, database, "IA-002", "draft", nil)

	original := newCommitmentRecord("jane@co.com")
	if err := repo.Create(ctx, original, []string{"IA-001"}); err != nil {
		t.Fatalf("Create original failed: %v", err)
	}

	replacement := newCommitmentRecord("jane@co.com")
	replacement.SupersedesID = original.ID
	if err := repo.Create(ctx, replacement, []string{"IA-002"}); err != nil {
		t.Fatalf("Create replacement failed: %v", err)
	}

	// Both directions of the link are set atomically.
	orig, err := repo.GetByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if orig.Status != "superseded" {
		t.Errorf("original status = %q, want superseded", orig.Status)
	}
	if orig.SupersededByID != replacement.ID {
		t.Errorf("original supersededBy = %q, want %s", orig.SupersededByID, replacement.ID)
	}

	repl, err := repo.GetByID(ctx, replacement.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if repl.SupersedesID != original.ID {
		t.Errorf("replacement supersedes = %q, want %s", repl.SupersedesID, original.ID)
	}
	if repl.Status != "active" {
		t.Errorf("replacement status = %q, want active", repl.Status)
	}
}

func TestCommitmentRepositoryCreateSupersedeTwice(t *testing.T) {
	database := setupTestDB(t)
	repo := NewCommitmentRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)
	seedAtom(t, database, "IA-002", "draft", nil)
	seedAtom(t, database, "IA-003", "draft", nil)

	original := newCommitmentRecord("jane@co.com")
	if err := repo.Create(ctx, original, []string{"IA-001"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	first := newCommitmentRecord("jane@co.com")
	first.SupersedesID = original.ID
	if err := repo.Create(ctx, first, []string{"IA-002"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := newCommitmentRecord("jane@co.com")
	second.SupersedesID = original.ID
	err := repo.Create(ctx, second, []string{"IA-003"})
	if err == nil {
		t.Fatal("expected error superseding an already-superseded commitment")
	}
	if !strings.Contains(err.Error(), "superseded concurrently") {
		t.Errorf("unexpected error: %v", err)
	}

	// Rollback leaves IA-003 uncommitted.
	atoms := NewAtomRepository(database)
	atom, err := atoms.GetByID(ctx, "IA-003")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if atom.Status != "draft" {
		t.Errorf("IA-003 status = %q, want draft after rollback", atom.Status)
	}
}

func TestCommitmentRepositoryGetByIDMissing(t *testing.T) {
	database := setupTestDB(t)
	repo := NewCommitmentRepository(database)

	got, err := repo.GetByID(testContext(), "COM-999")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing commitment, got %+v", got)
	}
}

func TestCommitmentRepositoryListFilters(t *testing.T) {
	database := setupTestDB(t)
	repo := NewCommitmentRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)
	seedAtom(t, database, "IA-002", "draft", nil)

	first := newCommitmentRecord("jane@co.com")
	first.ProjectID = "proj-a"
	if err := repo.Create(ctx, first, []string{"IA-001"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second := newCommitmentRecord("sam@co.com")
	second.ProjectID = "proj-b"
	if err := repo.Create(ctx, second, []string{"IA-002"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	byProject, err := repo.List(ctx, secondary.CommitmentFilters{ProjectID: "proj-a"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byProject) != 1 || byProject[0].ID != first.ID {
		t.Errorf("project filter returned %d records", len(byProject))
	}

	byCommitter, err := repo.List(ctx, secondary.CommitmentFilters{CommittedBy: "sam@co.com"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byCommitter) != 1 || byCommitter[0].ID != second.ID {
		t.Errorf("committer filter returned %d records", len(byCommitter))
	}
}
