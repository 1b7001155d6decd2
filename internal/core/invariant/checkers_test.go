package invariant

import (
	"context"
	"strings"
	"testing"
)

func blockingConfig(id string) Config {
	return Config{InvariantID: id, Name: id, Enabled: true, Blocking: true, CheckType: "builtin"}
}

func warningConfig(id string) Config {
	return Config{InvariantID: id, Name: id, Enabled: true, Blocking: false, CheckType: "builtin"}
}

func scoredAtom(id string, score int) Atom {
	return Atom{ID: id, Description: "The system rejects invalid tokens", Category: "security", QualityScore: &score, Status: "draft"}
}

func TestCommitterRequiredChecker(t *testing.T) {
	checker := &CommitterRequiredChecker{}
	cfg := blockingConfig(IDCommitterRequired)

	res := checker.Check(context.Background(), nil, CheckContext{Committer: "jane@co.com"}, cfg)
	if !res.Passed {
		t.Errorf("expected pass with committer, got: %s", res.Message)
	}
	if res.Severity != SeverityError {
		t.Errorf("severity = %q, want error for blocking config", res.Severity)
	}

	res = checker.Check(context.Background(), nil, CheckContext{}, cfg)
	if res.Passed {
		t.Error("expected failure without committer")
	}
}

func TestHumanCommitterChecker(t *testing.T) {
	checker := &HumanCommitterChecker{}
	cfg := blockingConfig(IDHumanCommitter)

	tests := []struct {
		committer string
		passed    bool
	}{
		{"jane.doe@company.com", true},
		{"John Smith", true},
		{"deploy-bot", false},
		{"ci-pipeline", false},
		{"automation", false},
		{"Automated Release", false},
		{"svc service-account", false},
		{"cron", false},
		{"12345", false},
		{"", false},
		{"Roberta", true}, // contains "bot" as substring only, not a word
		{"system", false},
	}

	for _, tt := range tests {
		t.Run(tt.committer, func(t *testing.T) {
			res := checker.Check(context.Background(), nil, CheckContext{Committer: tt.committer}, cfg)
			if res.Passed != tt.passed {
				t.Errorf("committer %q: passed = %v, want %v (%s)", tt.committer, res.Passed, tt.passed, res.Message)
			}
		})
	}
}

func TestQualityThresholdChecker(t *testing.T) {
	checker := &QualityThresholdChecker{}
	cfg := blockingConfig(IDQualityThreshold)

	tests := []struct {
		name   string
		atoms  []Atom
		params map[string]string
		passed bool
	}{
		{"at threshold", []Atom{scoredAtom("IA-001", 80)}, nil, true},
		{"just below threshold", []Atom{scoredAtom("IA-001", 79)}, nil, false},
		{"unscored passes", []Atom{{ID: "IA-001", Description: "x", Status: "draft"}}, nil, true},
		{"mixed batch fails", []Atom{scoredAtom("IA-001", 95), scoredAtom("IA-002", 50)}, nil, false},
		{"custom threshold", []Atom{scoredAtom("IA-001", 85)}, map[string]string{"minScore": "90"}, false},
		{"bad param falls back to default", []Atom{scoredAtom("IA-001", 85)}, map[string]string{"minScore": "ninety"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			c.Params = tt.params
			res := checker.Check(context.Background(), tt.atoms, CheckContext{}, c)
			if res.Passed != tt.passed {
				t.Errorf("passed = %v, want %v (%s)", res.Passed, tt.passed, res.Message)
			}
		})
	}
}

func TestQualityThresholdCheckerNamesAffectedAtoms(t *testing.T) {
	checker := &QualityThresholdChecker{}
	res := checker.Check(context.Background(),
		[]Atom{scoredAtom("IA-001", 60), scoredAtom("IA-002", 90), scoredAtom("IA-003", 40)},
		CheckContext{}, blockingConfig(IDQualityThreshold))

	if res.Passed {
		t.Fatal("expected failure")
	}
	if len(res.AffectedAtomIDs) != 2 {
		t.Fatalf("affected = %v, want 2 atoms", res.AffectedAtomIDs)
	}
	if res.AffectedAtomIDs[0] != "IA-001" || res.AffectedAtomIDs[1] != "IA-003" {
		t.Errorf("affected = %v", res.AffectedAtomIDs)
	}
	if !strings.Contains(res.Message, "IA-001 (score 60)") {
		t.Errorf("message should name scores: %s", res.Message)
	}
}

func TestAmbiguousLanguageChecker(t *testing.T) {
	checker := &AmbiguousLanguageChecker{}
	cfg := warningConfig(IDAmbiguousLanguage)

	tests := []struct {
		name        string
		description string
		passed      bool
		label       string
	}{
		{"precise", "The API returns HTTP 429 after 100 requests per minute", true, ""},
		{"vague term", "The system should be fast and user-friendly", false, "vague term"},
		{"implementation directive", "Sessions must use Redis for storage", false, "implementation directive"},
		{"unresolved marker", "Timeout value TBD after load testing", false, "unresolved marker"},
		{"vague conditional", "Retry the request if needed", false, "vague conditional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atoms := []Atom{{ID: "IA-001", Description: tt.description, Status: "draft"}}
			res := checker.Check(context.Background(), atoms, CheckContext{}, cfg)
			if res.Passed != tt.passed {
				t.Errorf("passed = %v, want %v (%s)", res.Passed, tt.passed, res.Message)
			}
			if tt.label != "" && !strings.Contains(res.Message, tt.label) {
				t.Errorf("message should name %q: %s", tt.label, res.Message)
			}
		})
	}
}

func TestAtomImmutabilityChecker(t *testing.T) {
	checker := &AtomImmutabilityChecker{}
	cfg := blockingConfig(IDAtomImmutability)

	committable := []Atom{
		{ID: "IA-001", Status: "draft"},
		{ID: "IA-002", Status: "proposed"},
	}
	res := checker.Check(context.Background(), committable, CheckContext{}, cfg)
	if !res.Passed {
		t.Errorf("expected pass for draft/proposed batch: %s", res.Message)
	}

	blocked := []Atom{
		{ID: "IA-001", Status: "draft"},
		{ID: "IA-002", Status: "committed"},
		{ID: "IA-003", Status: "superseded"},
	}
	res = checker.Check(context.Background(), blocked, CheckContext{}, cfg)
	if res.Passed {
		t.Fatal("expected failure for write-protected atoms")
	}
	if len(res.AffectedAtomIDs) != 2 {
		t.Errorf("affected = %v", res.AffectedAtomIDs)
	}
	if !strings.Contains(res.Message, "IA-002 (committed)") {
		t.Errorf("message should name status: %s", res.Message)
	}
}

func TestTraceabilityChecker(t *testing.T) {
	checker := &TraceabilityChecker{}
	cfg := warningConfig(IDTraceabilityRequired)

	tests := []struct {
		name   string
		atom   Atom
		passed bool
	}{
		{"has parent intent", Atom{ID: "IA-001", ParentIntent: "INT-001"}, true},
		{"has creator", Atom{ID: "IA-001", CreatedBy: "jane@co.com"}, true},
		{"no lineage", Atom{ID: "IA-001"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := checker.Check(context.Background(), []Atom{tt.atom}, CheckContext{}, cfg)
			if res.Passed != tt.passed {
				t.Errorf("passed = %v, want %v (%s)", res.Passed, tt.passed, res.Message)
			}
		})
	}
}

func TestPolicyOnlyCheckersAlwaysPass(t *testing.T) {
	checkers := []Checker{
		&EvidenceImmutabilityChecker{},
		&RejectionRateChecker{},
		&AmbiguityResolutionChecker{},
	}
	atoms := []Atom{{ID: "IA-001", Status: "committed"}}

	for _, c := range checkers {
		res := c.Check(context.Background(), atoms, CheckContext{}, warningConfig(c.ID()))
		if !res.Passed {
			t.Errorf("%s: expected pass, got: %s", c.ID(), res.Message)
		}
	}
}
