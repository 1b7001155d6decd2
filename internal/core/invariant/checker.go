// Package invariant contains the invariant checking machinery: the checker
// contract, the registry of implementations, the built-in checkers, and the
// engine that runs every enabled invariant against a candidate batch.
//
// Checkers are pure functions over their inputs. They must be deterministic
// for a given batch and must never mutate state, preview or not.
package invariant

import "context"

// Severity levels for check results.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Built-in invariant identifiers.
const (
	IDCommitterRequired    = "explicit-committer-required"
	IDQualityThreshold     = "minimum-quality-threshold"
	IDAmbiguousLanguage    = "ambiguous-language"
	IDAtomImmutability     = "atom-immutability"
	IDTraceabilityRequired = "traceability-required"
	IDHumanCommitter       = "human-committer-required"
	IDEvidenceImmutability = "evidence-immutability"
	IDRejectionRateLimit   = "rejection-rate-limit"
	IDAmbiguityResolution  = "ambiguity-resolution-tracking"
)

// Atom is the checker-facing view of a candidate record. It is a copy of the
// live record's fields; checkers never see repository types.
type Atom struct {
	ID           string
	Description  string
	Category     string
	QualityScore *int // nil means not yet evaluated
	Status       string
	Tags         []string
	ParentIntent string
	CreatedBy    string
}

// CheckContext carries the commit context a checker evaluates against.
type CheckContext struct {
	Committer string
	ProjectID string // empty means global scope
	IsPreview bool
}

// Config is one invariant's configuration row as seen by checkers and the engine.
type Config struct {
	InvariantID  string
	Name         string
	Enabled      bool
	Blocking     bool
	CheckType    string // "builtin" or "custom"
	Params       map[string]string
	ErrorMessage string
	ProjectID    string // empty means global scope
}

// Severity returns the severity a failure of this invariant carries.
// Blocking invariants fail with error severity, the rest only warn.
func (c Config) Severity() string {
	if c.Blocking {
		return SeverityError
	}
	return SeverityWarning
}

// Result is the outcome of evaluating one invariant against a batch.
type Result struct {
	InvariantID     string
	InvariantName   string
	Passed          bool
	Severity        string
	Message         string
	AffectedAtomIDs []string
	Suggestions     []string
}

// Checker is one stateless invariant implementation.
type Checker interface {
	// ID returns the invariant identifier this checker implements.
	ID() string

	// Check evaluates the invariant against the batch. Implementations must
	// respect ctx cancellation on long-running work and must be side-effect-free.
	Check(ctx context.Context, atoms []Atom, cctx CheckContext, cfg Config) Result
}

// Suggester is an optional checker extension providing remediation hints.
// The engine attaches these to a failing result that carries none of its own.
type Suggester interface {
	Suggestions() []string
}

// pass builds a passing result for the given config.
func pass(cfg Config, message string) Result {
	return Result{
		InvariantID:   cfg.InvariantID,
		InvariantName: cfg.Name,
		Passed:        true,
		Severity:      cfg.Severity(),
		Message:       message,
	}
}

// fail builds a failing result for the given config. When message is empty the
// config's default error message is used.
func fail(cfg Config, message string, affected []string) Result {
	if message == "" {
		message = cfg.ErrorMessage
	}
	return Result{
		InvariantID:     cfg.InvariantID,
		InvariantName:   cfg.Name,
		Passed:          false,
		Severity:        cfg.Severity(),
		Message:         message,
		AffectedAtomIDs: affected,
	}
}
