// Package atom contains the pure business logic guarding atom mutations.
// Guards are pure functions that evaluate preconditions without side effects;
// they run before any service logic on every mutating operation. Reads and
// creates are never guarded.
package atom

import "fmt"

// CodeAtomImmutable is the stable machine code carried by every rejection of
// a write against a committed or superseded atom. Clients (UI, CI gates)
// pattern-match on it; do not change it.
const CodeAtomImmutable = "ATOM_IMMUTABLE"

// ViolationError is the structured, machine-checkable rejection returned when
// a mutation targets a write-protected atom. Always a client error, never
// transient.
type ViolationError struct {
	Code    string
	AtomID  string
	Status  string
	Message string
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return e.Message
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    string
	Reason  string
	AtomID  string
	Status  string
}

// Error converts the guard result to an error if not allowed. Rejections with
// a machine code become *ViolationError.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Code != "" {
		return &ViolationError{
			Code:    r.Code,
			AtomID:  r.AtomID,
			Status:  r.Status,
			Message: r.Reason,
		}
	}
	return fmt.Errorf("%s", r.Reason)
}

// MutationContext provides context for atom mutation guards.
type MutationContext struct {
	AtomID string
	Found  bool   // whether the atom exists
	Status string // current status, meaningful only when Found
	Bypass bool   // internal status transitions skip the check entirely
}

// CanMutateAtom evaluates whether a mutating operation may proceed.
// Rules:
// - Bypassed operations always pass (the boundary service's own transitions)
// - No id or unknown atom passes through; downstream validation owns those
// - Committed and superseded atoms are write-protected
func CanMutateAtom(ctx MutationContext) GuardResult {
	if ctx.Bypass {
		return GuardResult{Allowed: true}
	}
	if ctx.AtomID == "" || !ctx.Found {
		return GuardResult{Allowed: true}
	}

	if ctx.Status == "committed" || ctx.Status == "superseded" {
		return GuardResult{
			Allowed: false,
			Code:    CodeAtomImmutable,
			Reason:  fmt.Sprintf("atom %s is %s and can no longer be modified", ctx.AtomID, ctx.Status),
			AtomID:  ctx.AtomID,
			Status:  ctx.Status,
		}
	}

	return GuardResult{Allowed: true}
}

// AbandonContext provides context for abandon guards.
type AbandonContext struct {
	AtomID string
	Status string
}

// CanAbandonAtom evaluates whether an atom can be abandoned.
// Rules:
// - Only proposed atoms can be abandoned (human rejection of a suggestion)
func CanAbandonAtom(ctx AbandonContext) GuardResult {
	if ctx.Status != "proposed" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only abandon proposed atoms (current status: %s)", ctx.Status),
			AtomID:  ctx.AtomID,
			Status:  ctx.Status,
		}
	}
	return GuardResult{Allowed: true}
}

// InclusionContext provides context for commitment-inclusion guards.
type InclusionContext struct {
	AtomID string
	Status string
}

// CanIncludeInCommitment evaluates whether an atom may be part of a new
// commitment batch.
// Rules:
// - Only draft and proposed atoms may cross the commitment boundary
func CanIncludeInCommitment(ctx InclusionContext) GuardResult {
	if ctx.Status != "draft" && ctx.Status != "proposed" {
		return GuardResult{
			Allowed: false,
			Code:    CodeAtomImmutable,
			Reason:  fmt.Sprintf("atom %s has status %s and cannot be included in a commitment", ctx.AtomID, ctx.Status),
			AtomID:  ctx.AtomID,
			Status:  ctx.Status,
		}
	}
	return GuardResult{Allowed: true}
}
