package invariant

import "sync"

// Registry maps invariant identifiers to checker implementations. It is
// constructed once at startup and shared by reference; registration is
// last-write-wins, so callers swapping a policy at runtime must treat an
// identifier as exclusively theirs.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{checkers: make(map[string]Checker)}
}

// NewDefaultRegistry creates a registry pre-loaded with every built-in checker.
// This is the standard way to construct the registry for CLI or test usage.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CommitterRequiredChecker{})
	r.Register(&QualityThresholdChecker{})
	r.Register(&AmbiguousLanguageChecker{})
	r.Register(&AtomImmutabilityChecker{})
	r.Register(&TraceabilityChecker{})
	r.Register(&HumanCommitterChecker{})
	r.Register(&EvidenceImmutabilityChecker{})
	r.Register(&RejectionRateChecker{})
	r.Register(&AmbiguityResolutionChecker{})
	return r
}

// Register adds a checker under its own ID, replacing any prior entry.
func (r *Registry) Register(c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[c.ID()] = c
}

// Get returns the checker registered under id, or nil if none is.
func (r *Registry) Get(id string) Checker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.checkers[id]
}

// Has reports whether a checker is registered under id.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.checkers[id]
	return ok
}

// GetAll returns every registered checker. Order is unspecified.
func (r *Registry) GetAll() []Checker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Checker, 0, len(r.checkers))
	for _, c := range r.checkers {
		all = append(all, c)
	}
	return all
}

// Unregister removes the checker registered under id. Built-ins are never
// unregistered automatically; doing so is the caller's responsibility.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, id)
}
