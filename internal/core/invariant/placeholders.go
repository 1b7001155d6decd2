package invariant

import "context"

// RejectionRateChecker is a policy-only placeholder. Rate limiting of
// rejected proposals is tracked outside the commitment boundary; the
// invariant exists so projects can pre-configure blocking behavior.
type RejectionRateChecker struct{}

// ID returns the invariant identifier.
func (c *RejectionRateChecker) ID() string { return IDRejectionRateLimit }

// Check always passes; enforcement lives in the proposal workflow.
func (c *RejectionRateChecker) Check(_ context.Context, _ []Atom, _ CheckContext, cfg Config) Result {
	return pass(cfg, "rejection-rate limiting is policy-only; nothing to evaluate at commit time")
}

// AmbiguityResolutionChecker is a policy-only placeholder for tracking that
// flagged ambiguities were resolved through review rather than edited away.
type AmbiguityResolutionChecker struct{}

// ID returns the invariant identifier.
func (c *AmbiguityResolutionChecker) ID() string { return IDAmbiguityResolution }

// Check always passes; resolution tracking lives in the review workflow.
func (c *AmbiguityResolutionChecker) Check(_ context.Context, _ []Atom, _ CheckContext, cfg Config) Result {
	return pass(cfg, "ambiguity-resolution tracking is policy-only; nothing to evaluate at commit time")
}
