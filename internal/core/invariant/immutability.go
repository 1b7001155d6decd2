package invariant

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/covenant/internal/models"
)

// AtomImmutabilityChecker rejects any batch that includes an atom which has
// already crossed the commitment boundary. Committed and superseded atoms are
// part of history and can never be committed again.
type AtomImmutabilityChecker struct{}

// ID returns the invariant identifier.
func (c *AtomImmutabilityChecker) ID() string { return IDAtomImmutability }

// Check fails naming exactly the write-protected atoms in the batch.
func (c *AtomImmutabilityChecker) Check(_ context.Context, atoms []Atom, _ CheckContext, cfg Config) Result {
	var affected []string
	var details []string
	for _, a := range atoms {
		if models.IsWriteProtected(a.Status) {
			affected = append(affected, a.ID)
			details = append(details, fmt.Sprintf("%s (%s)", a.ID, a.Status))
		}
	}

	if len(affected) > 0 {
		return fail(cfg, fmt.Sprintf("%d atom(s) are already immutable: %s", len(affected), strings.Join(details, ", ")), affected)
	}
	return pass(cfg, "no atom in the batch is already committed or superseded")
}

// Suggestions returns remediation hints for immutable atoms in a batch.
func (c *AtomImmutabilityChecker) Suggestions() []string {
	return []string{
		"Remove already-committed atoms from the batch",
		"To change a committed requirement, supersede its commitment instead",
	}
}

// EvidenceImmutabilityChecker is a forward-compatible no-op: evidence records
// do not exist yet, so there is nothing to verify. The invariant is seeded so
// that enabling real evidence checks later needs no config migration.
type EvidenceImmutabilityChecker struct{}

// ID returns the invariant identifier.
func (c *EvidenceImmutabilityChecker) ID() string { return IDEvidenceImmutability }

// Check always passes today.
func (c *EvidenceImmutabilityChecker) Check(_ context.Context, _ []Atom, _ CheckContext, cfg Config) Result {
	return pass(cfg, "no evidence records associated with this batch; nothing to verify")
}
