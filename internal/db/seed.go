package db

import (
	"database/sql"
	"fmt"
)

// builtinInvariant describes one seeded invariant config row.
type builtinInvariant struct {
	id       string
	name     string
	blocking bool
	errMsg   string
}

// builtinInvariants are seeded at startup into the global scope. Identity and
// check type are structurally protected afterwards; enabled/blocking flags
// may be changed per scope.
var builtinInvariants = []builtinInvariant{
	{"explicit-committer-required", "Explicit committer required", true,
		"a commitment must carry an explicit committer identity"},
	{"minimum-quality-threshold", "Minimum quality threshold", true,
		"every scored atom must meet the minimum quality threshold"},
	{"ambiguous-language", "Ambiguous language detection", false,
		"atom descriptions must not contain ambiguous language"},
	{"atom-immutability", "Atom immutability", true,
		"committed and superseded atoms cannot be committed again"},
	{"traceability-required", "Traceability required", false,
		"every atom must carry lineage"},
	{"human-committer-required", "Human committer required", true,
		"commitments must be made by a human, not automation"},
	{"evidence-immutability", "Evidence immutability", false,
		"evidence attached to a commitment must not change"},
	{"rejection-rate-limit", "Rejection rate limit", false,
		"proposal rejection rate exceeds the configured limit"},
	{"ambiguity-resolution-tracking", "Ambiguity resolution tracking", false,
		"flagged ambiguities must be resolved through review"},
}

// SeedBuiltinInvariants inserts the builtin invariant configs into the global
// scope. Existing rows are left untouched so operator flag changes survive
// restarts. Idempotent.
func SeedBuiltinInvariants(database *sql.DB) error {
	for _, b := range builtinInvariants {
		blocking := 0
		if b.blocking {
			blocking = 1
		}
		_, err := database.Exec(
			`INSERT OR IGNORE INTO invariant_configs
			 (invariant_id, project_id, name, enabled, blocking, check_type, params, error_message)
			 VALUES (?, '', ?, 1, ?, 'builtin', '{}', ?)`,
			b.id, b.name, blocking, b.errMsg,
		)
		if err != nil {
			return fmt.Errorf("seed invariant %s: %w", b.id, err)
		}
	}
	return nil
}
