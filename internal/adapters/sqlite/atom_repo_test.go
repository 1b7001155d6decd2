package sqlite

import (
	"strings"
	"testing"

	"github.com/example/covenant/internal/ports/secondary"
)

func TestAtomRepositoryCreateAndGet(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)
	ctx := testContext()

	atom := &secondary.AtomRecord{
		ID:           "IA-001",
		Description:  "Response time must stay under 200ms",
		Category:     "performance",
		QualityScore: intPtr(85),
		Status:       "draft",
		Tags:         []string{"latency", "api"},
		ParentIntent: "INT-001",
		CreatedBy:    "jane@co.com",
	}
	if err := repo.Create(ctx, atom); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "IA-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected atom, got nil")
	}
	if got.Description != atom.Description {
		t.Errorf("description = %q, want %q", got.Description, atom.Description)
	}
	if got.Category != "performance" {
		t.Errorf("category = %q, want performance", got.Category)
	}
	if got.QualityScore == nil || *got.QualityScore != 85 {
		t.Errorf("qualityScore = %v, want 85", got.QualityScore)
	}
	if got.Status != "draft" {
		t.Errorf("status = %q, want draft", got.Status)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "latency" {
		t.Errorf("tags = %v, want [latency api]", got.Tags)
	}
	if got.ParentIntent != "INT-001" {
		t.Errorf("parentIntent = %q, want INT-001", got.ParentIntent)
	}
	if got.CreatedAt == "" || got.UpdatedAt == "" {
		t.Error("expected timestamps to be set")
	}
	if got.CommittedAt != "" {
		t.Errorf("committedAt = %q, want empty", got.CommittedAt)
	}
}

func TestAtomRepositoryGetByIDMissing(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)

	got, err := repo.GetByID(testContext(), "IA-999")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing atom, got %+v", got)
	}
}

func TestAtomRepositoryGetByIDs(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)
	seedAtom(t, database, "IA-002", "proposed", intPtr(90))
	seedAtom(t, database, "IA-003", "committed", nil)

	records, err := repo.GetByIDs(ctx, []string{"IA-001", "IA-003", "IA-999"})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 atoms, got %d", len(records))
	}
	if records[0].ID != "IA-001" || records[1].ID != "IA-003" {
		t.Errorf("unexpected order: %s, %s", records[0].ID, records[1].ID)
	}
}

func TestAtomRepositoryList(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)
	seedAtom(t, database, "IA-002", "proposed", nil)
	seedAtom(t, database, "IA-003", "draft", nil)

	tests := []struct {
		name    string
		filters secondary.AtomFilters
		wantIDs []string
	}{
		{"all", secondary.AtomFilters{}, []string{"IA-001", "IA-002", "IA-003"}},
		{"by status", secondary.AtomFilters{Status: "draft"}, []string{"IA-001", "IA-003"}},
		{"with limit", secondary.AtomFilters{Limit: 2}, []string{"IA-001", "IA-002"}},
		{"no match", secondary.AtomFilters{Status: "abandoned"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(records) != len(tt.wantIDs) {
				t.Fatalf("got %d atoms, want %d", len(records), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if records[i].ID != want {
					t.Errorf("records[%d].ID = %s, want %s", i, records[i].ID, want)
				}
			}
		})
	}
}

func TestAtomRepositoryListByTag(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)
	ctx := testContext()

	tagged := &secondary.AtomRecord{
		ID: "IA-001", Description: "tagged", Category: "functional",
		Status: "draft", Tags: []string{"auth", "api"},
	}
	untagged := &secondary.AtomRecord{
		ID: "IA-002", Description: "untagged", Category: "functional", Status: "draft",
	}
	if err := repo.Create(ctx, tagged); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, untagged); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	records, err := repo.List(ctx, secondary.AtomFilters{Tag: "auth"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != "IA-001" {
		t.Errorf("expected only IA-001, got %d records", len(records))
	}
}

func TestAtomRepositoryUpdate(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)

	updated := &secondary.AtomRecord{
		ID:           "IA-001",
		Description:  "refined description",
		Category:     "security",
		QualityScore: intPtr(92),
		Tags:         []string{"refined"},
	}
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "IA-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Description != "refined description" {
		t.Errorf("description = %q", got.Description)
	}
	if got.QualityScore == nil || *got.QualityScore != 92 {
		t.Errorf("qualityScore = %v, want 92", got.QualityScore)
	}
}

func TestAtomRepositoryUpdateMissing(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)

	err := repo.Update(testContext(), &secondary.AtomRecord{
		ID: "IA-999", Description: "x", Category: "functional",
	})
	if err == nil {
		t.Fatal("expected error for missing atom")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAtomRepositoryUpdateStatusByIDs(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)
	seedAtom(t, database, "IA-002", "proposed", nil)

	err := repo.UpdateStatusByIDs(ctx, []string{"IA-001", "IA-002"}, "committed", true)
	if err != nil {
		t.Fatalf("UpdateStatusByIDs failed: %v", err)
	}

	for _, id := range []string{"IA-001", "IA-002"} {
		got, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Status != "committed" {
			t.Errorf("%s status = %q, want committed", id, got.Status)
		}
		if got.CommittedAt == "" {
			t.Errorf("%s committedAt not stamped", id)
		}
	}
}

func TestAtomRepositoryDelete(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)
	ctx := testContext()

	seedAtom(t, database, "IA-001", "draft", nil)

	if err := repo.Delete(ctx, "IA-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err := repo.GetByID(ctx, "IA-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Error("expected atom to be deleted")
	}

	if err := repo.Delete(ctx, "IA-001"); err == nil {
		t.Error("expected error deleting missing atom")
	}
}

func TestAtomRepositoryGetNextID(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAtomRepository(database)
	ctx := testContext()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "IA-001" {
		t.Errorf("first id = %s, want IA-001", id)
	}

	seedAtom(t, database, "IA-001", "draft", nil)
	seedAtom(t, database, "IA-009", "draft", nil)

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "IA-010" {
		t.Errorf("next id = %s, want IA-010", id)
	}
}
