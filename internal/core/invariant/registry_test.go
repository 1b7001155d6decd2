package invariant

import (
	"context"
	"testing"
)

type stubChecker struct {
	id     string
	result Result
}

func (s *stubChecker) ID() string { return s.id }

func (s *stubChecker) Check(_ context.Context, _ []Atom, _ CheckContext, _ Config) Result {
	return s.result
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if r.Has("custom-check") {
		t.Error("empty registry should not have custom-check")
	}
	if r.Get("custom-check") != nil {
		t.Error("Get on empty registry should return nil")
	}

	r.Register(&stubChecker{id: "custom-check"})
	if !r.Has("custom-check") {
		t.Error("expected custom-check after Register")
	}
	if r.Get("custom-check") == nil {
		t.Error("Get should return the registered checker")
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()

	first := &stubChecker{id: "custom-check", result: Result{Message: "first"}}
	second := &stubChecker{id: "custom-check", result: Result{Message: "second"}}
	r.Register(first)
	r.Register(second)

	got := r.Get("custom-check").Check(context.Background(), nil, CheckContext{}, Config{})
	if got.Message != "second" {
		t.Errorf("expected the later registration to win, got %q", got.Message)
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubChecker{id: "custom-check"})
	r.Unregister("custom-check")
	if r.Has("custom-check") {
		t.Error("expected custom-check to be removed")
	}
}

func TestNewDefaultRegistryLoadsAllBuiltins(t *testing.T) {
	r := NewDefaultRegistry()

	builtins := []string{
		IDCommitterRequired,
		IDQualityThreshold,
		IDAmbiguousLanguage,
		IDAtomImmutability,
		IDTraceabilityRequired,
		IDHumanCommitter,
		IDEvidenceImmutability,
		IDRejectionRateLimit,
		IDAmbiguityResolution,
	}
	for _, id := range builtins {
		if !r.Has(id) {
			t.Errorf("default registry missing %s", id)
		}
	}
	if len(r.GetAll()) != len(builtins) {
		t.Errorf("GetAll returned %d checkers, want %d", len(r.GetAll()), len(builtins))
	}
}
