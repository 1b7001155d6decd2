package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Version:   "1.0",
		Committer: "jane@co.com",
		ProjectID: "proj-a",
	}
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Committer != "jane@co.com" {
		t.Errorf("committer = %q", loaded.Committer)
	}
	if loaded.ProjectID != "proj-a" {
		t.Errorf("projectID = %q", loaded.ProjectID)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()
	covenantDir := filepath.Join(dir, ".covenant")
	if err := os.MkdirAll(covenantDir, 0755); err != nil {
		t.Fatal(err)
	}

	policyYAML := `invariants:
  - id: minimum-quality-threshold
    enabled: false
  - id: ambiguous-language
    blocking: true
`
	if err := os.WriteFile(filepath.Join(covenantDir, "policy.yaml"), []byte(policyYAML), 0644); err != nil {
		t.Fatal(err)
	}

	policy, err := LoadPolicy(dir)
	if err != nil {
		t.Fatalf("LoadPolicy failed: %v", err)
	}
	if len(policy.Invariants) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(policy.Invariants))
	}

	first := policy.Invariants[0]
	if first.ID != "minimum-quality-threshold" {
		t.Errorf("id = %q", first.ID)
	}
	if first.Enabled == nil || *first.Enabled {
		t.Error("expected enabled=false")
	}
	if first.Blocking != nil {
		t.Error("blocking not in file, expected nil")
	}

	second := policy.Invariants[1]
	if second.Blocking == nil || !*second.Blocking {
		t.Error("expected blocking=true")
	}
}

func TestLoadPolicyAbsent(t *testing.T) {
	policy, err := LoadPolicy(t.TempDir())
	if err != nil {
		t.Fatalf("LoadPolicy failed: %v", err)
	}
	if policy != nil {
		t.Error("expected nil policy when file absent")
	}
}

func TestLoadPolicyRejectsMissingID(t *testing.T) {
	dir := t.TempDir()
	covenantDir := filepath.Join(dir, ".covenant")
	if err := os.MkdirAll(covenantDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(covenantDir, "policy.yaml"), []byte("invariants:\n  - enabled: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPolicy(dir); err == nil {
		t.Error("expected error for entry without id")
	}
}
