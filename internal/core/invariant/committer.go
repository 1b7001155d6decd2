package invariant

import (
	"context"
	"fmt"
	"regexp"
)

// CommitterRequiredChecker enforces that a commit carries an explicit,
// non-empty committer identity.
type CommitterRequiredChecker struct{}

// ID returns the invariant identifier.
func (c *CommitterRequiredChecker) ID() string { return IDCommitterRequired }

// Check fails when the commit context has no committer.
func (c *CommitterRequiredChecker) Check(_ context.Context, _ []Atom, cctx CheckContext, cfg Config) Result {
	if cctx.Committer == "" {
		return fail(cfg, "commitment requires an explicit committer identity", nil)
	}
	return pass(cfg, fmt.Sprintf("committer %q provided", cctx.Committer))
}

// Suggestions returns remediation hints for a missing committer.
func (c *CommitterRequiredChecker) Suggestions() []string {
	return []string{
		"Set the committer identity in .covenant/config.json",
		"Pass --committer with an email or full name",
	}
}

// automationPattern matches committer strings that identify automation rather
// than a human. Word-boundary, case-insensitive.
var automationPattern = regexp.MustCompile(`(?i)\b(agent|bot|automation|automated|system|ci|pipeline|scheduler|cron|service[-_ ]?account|robot|script)\b`)

// letterPattern requires at least one letter for a string to count as a name.
var letterPattern = regexp.MustCompile(`[a-zA-Z]`)

// HumanCommitterChecker classifies the committer string as human or automation.
// Commitments are legally binding; only a human may sign one.
type HumanCommitterChecker struct{}

// ID returns the invariant identifier.
func (c *HumanCommitterChecker) ID() string { return IDHumanCommitter }

// Check fails when the committer string matches an automation pattern or
// contains no letters at all.
func (c *HumanCommitterChecker) Check(_ context.Context, _ []Atom, cctx CheckContext, cfg Config) Result {
	if cctx.Committer == "" {
		return fail(cfg, "committer identity is empty; cannot classify as human", nil)
	}
	if m := automationPattern.FindString(cctx.Committer); m != "" {
		return fail(cfg, fmt.Sprintf("committer %q appears to be automation (matched %q); commitments must be made by a human", cctx.Committer, m), nil)
	}
	if !letterPattern.MatchString(cctx.Committer) {
		return fail(cfg, fmt.Sprintf("committer %q does not look like a human identity", cctx.Committer), nil)
	}
	return pass(cfg, fmt.Sprintf("committer %q classified as human", cctx.Committer))
}

// Suggestions returns remediation hints for an automation committer.
func (c *HumanCommitterChecker) Suggestions() []string {
	return []string{
		"Commit under the responsible person's identity, not a pipeline account",
		"If a human approved this batch, re-run with their name or email",
	}
}
