package invariant

import (
	"context"
	"fmt"
	"strings"
)

// TraceabilityChecker enforces lineage on every atom in the batch: an atom
// must record where it came from (parent intent) or who created it.
type TraceabilityChecker struct{}

// ID returns the invariant identifier.
func (c *TraceabilityChecker) ID() string { return IDTraceabilityRequired }

// Check fails naming every atom with no lineage at all.
func (c *TraceabilityChecker) Check(_ context.Context, atoms []Atom, _ CheckContext, cfg Config) Result {
	var affected []string
	for _, a := range atoms {
		if a.ParentIntent == "" && a.CreatedBy == "" {
			affected = append(affected, a.ID)
		}
	}

	if len(affected) > 0 {
		return fail(cfg, fmt.Sprintf("%d atom(s) lack lineage (no parent intent or creator): %s", len(affected), strings.Join(affected, ", ")), affected)
	}
	return pass(cfg, "every atom in the batch carries lineage")
}

// Suggestions returns remediation hints for missing lineage.
func (c *TraceabilityChecker) Suggestions() []string {
	return []string{
		"Record the originating intent when creating atoms",
		"Backfill created-by on machine-suggested atoms before committing",
	}
}
