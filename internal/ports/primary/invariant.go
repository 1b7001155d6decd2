package primary

import "context"

// InvariantService defines the primary port for invariant configuration and
// ad-hoc diagnostics.
type InvariantService interface {
	// ListInvariants returns every invariant config for the scope.
	ListInvariants(ctx context.Context, projectID string) ([]*InvariantConfig, error)

	// EnableInvariant enables an invariant for the scope.
	EnableInvariant(ctx context.Context, invariantID, projectID string) error

	// DisableInvariant disables an invariant for the scope.
	DisableInvariant(ctx context.Context, invariantID, projectID string) error

	// SetBlocking sets whether a failing invariant blocks commits (error
	// severity) or only warns.
	SetBlocking(ctx context.Context, invariantID, projectID string, blocking bool) error

	// RegisterCustomInvariant creates a custom invariant config. The checker
	// implementation is registered separately on the checker registry.
	RegisterCustomInvariant(ctx context.Context, req RegisterInvariantRequest) error

	// DeleteInvariant removes a custom invariant config. Built-ins are
	// structurally protected and refused.
	DeleteInvariant(ctx context.Context, invariantID, projectID string) error

	// CheckSingle evaluates one invariant against a batch for diagnostics.
	// Returns nil when the config or checker implementation is absent.
	CheckSingle(ctx context.Context, req CheckSingleRequest) (*InvariantResult, error)

	// ApplyPolicyOverrides applies enabled/blocking overrides, typically
	// loaded from a project policy file.
	ApplyPolicyOverrides(ctx context.Context, overrides []PolicyOverride) error
}

// Severity values carried by InvariantResult.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// InvariantConfig represents an invariant configuration at the port boundary.
type InvariantConfig struct {
	InvariantID  string
	Name         string
	Enabled      bool
	Blocking     bool
	CheckType    string
	Params       map[string]string
	ErrorMessage string
	ProjectID    string
}

// RegisterInvariantRequest contains parameters for a custom invariant config.
type RegisterInvariantRequest struct {
	InvariantID  string
	Name         string
	Blocking     bool
	Params       map[string]string
	ErrorMessage string
	ProjectID    string
}

// CheckSingleRequest contains parameters for an ad-hoc single-rule check.
type CheckSingleRequest struct {
	AtomIDs     []string
	InvariantID string
	ProjectID   string
}

// PolicyOverride adjusts one invariant's flags. Nil fields are left unchanged.
type PolicyOverride struct {
	InvariantID string
	ProjectID   string
	Enabled     *bool
	Blocking    *bool
}
