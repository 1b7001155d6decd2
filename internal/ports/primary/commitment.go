package primary

import "context"

// CommitmentService defines the primary port for the commitment boundary:
// dry-run previews, commitment creation, supersession, and history traversal.
type CommitmentService interface {
	// Preview runs the full check pipeline against the batch with no side
	// effects and reports whether it could be committed.
	Preview(ctx context.Context, req CommitmentBatch) (*PreviewResponse, error)

	// Create admits the batch across the commitment boundary: it re-runs the
	// checks, then persists an immutable commitment and flips the included
	// atoms to committed as one atomic unit. Blocking issues require a
	// non-empty override justification.
	Create(ctx context.Context, req CreateCommitmentRequest) (*Commitment, error)

	// Supersede replaces an active commitment with a new one for the given
	// batch, linking both sides of the supersession atomically.
	Supersede(ctx context.Context, req SupersedeRequest) (*Commitment, error)

	// GetCommitment retrieves a commitment by ID.
	GetCommitment(ctx context.Context, commitmentID string) (*Commitment, error)

	// GetHistory walks the supersession chain both ways and returns the full
	// ordered chain, origin first, inclusive of the queried node.
	GetHistory(ctx context.Context, commitmentID string) ([]*Commitment, error)

	// GetAtoms returns the live atom association, not the canonical snapshot.
	// Point-in-time values live in the commitment's CanonicalJSON.
	GetAtoms(ctx context.Context, commitmentID string) ([]*Atom, error)

	// ListCommitments lists commitments with optional filters, newest first.
	ListCommitments(ctx context.Context, filters CommitmentFilters) ([]*Commitment, error)

	// DeleteCommitment is always rejected by the immutability guard for any
	// existing commitment; there is no legitimate deletion path. The operation
	// exists so every client receives the same structured error.
	DeleteCommitment(ctx context.Context, commitmentID string) error
}

// CommitmentBatch names the atoms of a candidate commitment.
type CommitmentBatch struct {
	AtomIDs   []string
	ProjectID string // empty means global scope
}

// CreateCommitmentRequest contains parameters for creating a commitment.
type CreateCommitmentRequest struct {
	AtomIDs   []string
	ProjectID string

	// OverrideJustification, when non-empty, admits the batch despite
	// blocking issues. It is persisted verbatim on the commitment.
	OverrideJustification string
}

// SupersedeRequest contains parameters for superseding a commitment.
type SupersedeRequest struct {
	OriginalID            string
	AtomIDs               []string
	ProjectID             string
	Reason                string
	OverrideJustification string
}

// CommitmentFilters contains filter options for listing commitments.
type CommitmentFilters struct {
	ProjectID   string
	Status      string
	CommittedBy string
	Limit       int
	Offset      int
}

// InvariantResult is one invariant's outcome at the port boundary.
type InvariantResult struct {
	InvariantID     string
	InvariantName   string
	Passed          bool
	Severity        string
	Message         string
	AffectedAtomIDs []string
	Suggestions     []string
}

// PreviewResponse is the outcome of a dry run. Results are located by
// invariant id, not by position.
type PreviewResponse struct {
	RunID             string
	CanCommit         bool
	HasBlockingIssues bool
	HasWarnings       bool
	Results           []InvariantResult
	BlockingIssues    []string
	Warnings          []string
}

// Commitment represents a commitment entity at the port boundary. The
// canonical snapshot is carried verbatim as JSON; it is the immutable record
// of what was committed.
type Commitment struct {
	ID                    string
	ProjectID             string
	CanonicalJSON         string
	AtomCount             int
	CommittedBy           string
	CommittedAt           string
	OverrideJustification string
	SupersedesID          string
	SupersededByID        string
	Status                string
	Reason                string // human-supplied supersession reason
}
