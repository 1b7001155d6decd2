package invariant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DefaultMinQualityScore is the threshold applied when the invariant config
// carries no minScore parameter.
const DefaultMinQualityScore = 80

// QualityThresholdChecker enforces a minimum quality score on every atom in
// the batch. An absent score means "not yet evaluated" and passes: scoring is
// advisory until it happens.
type QualityThresholdChecker struct{}

// ID returns the invariant identifier.
func (c *QualityThresholdChecker) ID() string { return IDQualityThreshold }

// Check fails naming every atom whose score is below the threshold.
func (c *QualityThresholdChecker) Check(_ context.Context, atoms []Atom, _ CheckContext, cfg Config) Result {
	min := DefaultMinQualityScore
	if raw, ok := cfg.Params["minScore"]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			min = n
		}
	}

	var affected []string
	var details []string
	for _, a := range atoms {
		if a.QualityScore == nil {
			continue
		}
		if *a.QualityScore < min {
			affected = append(affected, a.ID)
			details = append(details, fmt.Sprintf("%s (score %d)", a.ID, *a.QualityScore))
		}
	}

	if len(affected) > 0 {
		return fail(cfg, fmt.Sprintf("%d atom(s) below quality threshold %d: %s", len(affected), min, strings.Join(details, ", ")), affected)
	}
	return pass(cfg, fmt.Sprintf("all scored atoms meet quality threshold %d", min))
}

// Suggestions returns remediation hints for low-quality atoms.
func (c *QualityThresholdChecker) Suggestions() []string {
	return []string{
		"Refine the atom description until it is specific and testable",
		"Re-run quality scoring after editing",
	}
}
