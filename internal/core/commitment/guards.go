// Package commitment contains the pure business logic guarding commitment
// mutations and supersession. Guards are pure functions that evaluate
// preconditions without side effects.
package commitment

import "fmt"

// Stable machine codes for commitment guard rejections. Clients pattern-match
// on these; do not change them.
const (
	CodeCommitmentImmutable = "COMMITMENT_IMMUTABLE"
)

// Mutation verbs. GET-style reads and creation are never guarded.
const (
	VerbUpdate = "update"
	VerbDelete = "delete"
)

// ViolationError is the structured, machine-checkable rejection returned when
// a mutation targets a commitment. Always a client error, never transient.
type ViolationError struct {
	Code         string
	CommitmentID string
	Message      string
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return e.Message
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed      bool
	Code         string
	Reason       string
	CommitmentID string
}

// Error converts the guard result to an error if not allowed. Rejections with
// a machine code become *ViolationError.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Code != "" {
		return &ViolationError{
			Code:         r.Code,
			CommitmentID: r.CommitmentID,
			Message:      r.Reason,
		}
	}
	return fmt.Errorf("%s", r.Reason)
}

// MutationContext provides context for commitment mutation guards.
type MutationContext struct {
	CommitmentID string
	Found        bool
	Verb         string // VerbUpdate or VerbDelete
	Bypass       bool   // the supersession link update uses the bypass path
}

// CanMutateCommitment evaluates whether a mutating operation against a
// commitment may proceed.
// Rules:
// - Bypassed operations always pass (supersession link maintenance)
// - No id or unknown commitment passes through; downstream validation owns those
// - Everything else is rejected: commitments have no in-place-edit path at all
func CanMutateCommitment(ctx MutationContext) GuardResult {
	if ctx.Bypass {
		return GuardResult{Allowed: true}
	}
	if ctx.CommitmentID == "" || !ctx.Found {
		return GuardResult{Allowed: true}
	}

	reason := fmt.Sprintf("commitment %s is immutable and cannot be modified; supersede it instead", ctx.CommitmentID)
	if ctx.Verb == VerbDelete {
		reason = fmt.Sprintf("commitment %s is immutable and cannot be deleted; supersede it instead", ctx.CommitmentID)
	}

	return GuardResult{
		Allowed:      false,
		Code:         CodeCommitmentImmutable,
		Reason:       reason,
		CommitmentID: ctx.CommitmentID,
	}
}

// SupersedeContext provides context for supersession guards.
type SupersedeContext struct {
	OriginalID   string
	Found        bool
	Status       string
	SupersededBy string
}

// CanSupersede evaluates whether a commitment can be superseded.
// Rules:
// - Original must exist
// - Original must not already be superseded
func CanSupersede(ctx SupersedeContext) GuardResult {
	if !ctx.Found {
		return GuardResult{
			Allowed:      false,
			Reason:       fmt.Sprintf("commitment %s not found", ctx.OriginalID),
			CommitmentID: ctx.OriginalID,
		}
	}
	if ctx.Status == "superseded" {
		reason := fmt.Sprintf("commitment %s is already superseded", ctx.OriginalID)
		if ctx.SupersededBy != "" {
			reason = fmt.Sprintf("commitment %s is already superseded by %s", ctx.OriginalID, ctx.SupersededBy)
		}
		return GuardResult{
			Allowed:      false,
			Reason:       reason,
			CommitmentID: ctx.OriginalID,
		}
	}
	return GuardResult{Allowed: true}
}
