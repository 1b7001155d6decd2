// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// external systems.
package secondary

import "context"

// AtomRepository defines the secondary port for atom persistence.
type AtomRepository interface {
	// Create persists a new atom.
	Create(ctx context.Context, atom *AtomRecord) error

	// GetByID retrieves an atom by its ID. Returns (nil, nil) when absent;
	// callers own their own not-found semantics.
	GetByID(ctx context.Context, id string) (*AtomRecord, error)

	// GetByIDs retrieves atoms for the given id set. Missing ids are simply
	// absent from the result; callers compare lengths.
	GetByIDs(ctx context.Context, ids []string) ([]*AtomRecord, error)

	// List retrieves atoms matching the given filters.
	List(ctx context.Context, filters AtomFilters) ([]*AtomRecord, error)

	// Update updates an existing atom's mutable fields.
	Update(ctx context.Context, atom *AtomRecord) error

	// UpdateStatusByIDs flips the status of every atom in the id set in one
	// statement. When stampCommitted is true the commit timestamp is set.
	UpdateStatusByIDs(ctx context.Context, ids []string, status string, stampCommitted bool) error

	// Delete removes an atom from persistence.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available atom ID (IA-###).
	GetNextID(ctx context.Context) (string, error)
}

// AtomRecord represents an atom as stored in persistence.
type AtomRecord struct {
	ID                string
	Description       string
	Category          string
	QualityScore      *int // nil means not yet evaluated
	Status            string
	Tags              []string
	ParentIntent      string
	CreatedBy         string
	RefinementHistory string
	Metadata          map[string]string
	CreatedAt         string
	UpdatedAt         string
	CommittedAt       string
}

// AtomFilters contains filter options for querying atoms.
type AtomFilters struct {
	Status   string
	Category string
	Tag      string
	Limit    int
}

// CommitmentRepository defines the secondary port for commitment persistence.
type CommitmentRepository interface {
	// Create persists a new commitment as one atomic unit: it allocates the
	// next sequential id (filled into rec.ID), writes the commitment row and
	// the atom associations, flips every included atom to committed, and,
	// when rec.SupersedesID is set, stamps the superseded original's
	// forward link and status in the same transaction.
	Create(ctx context.Context, rec *CommitmentRecord, atomIDs []string) error

	// GetByID retrieves a commitment by its ID. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*CommitmentRecord, error)

	// GetAtomIDs returns the live atom association for a commitment.
	GetAtomIDs(ctx context.Context, id string) ([]string, error)

	// List retrieves commitments matching the given filters, newest first.
	List(ctx context.Context, filters CommitmentFilters) ([]*CommitmentRecord, error)
}

// CommitmentRecord represents a commitment as stored in persistence.
type CommitmentRecord struct {
	ID                    string
	ProjectID             string
	CanonicalJSON         string // JSON array of models.CanonicalEntry
	CommittedBy           string
	CommittedAt           string
	CheckResults          string // JSON audit trail of the commit-time run
	OverrideJustification string
	SupersedesID          string
	SupersededByID        string
	Status                string
	Metadata              map[string]string
}

// CommitmentFilters contains filter options for querying commitments.
type CommitmentFilters struct {
	ProjectID   string
	Status      string
	CommittedBy string
	Limit       int
	Offset      int
}

// InvariantConfigRepository defines the secondary port for invariant
// configuration persistence.
type InvariantConfigRepository interface {
	// FindEnabled returns every enabled config for the project scope, falling
	// back to the global row where no project-scoped override exists.
	FindEnabled(ctx context.Context, projectID string) ([]*InvariantConfigRecord, error)

	// FindByInvariantID returns one invariant's config for the scope, or
	// (nil, nil) when absent. Project lookups fall back to the global row.
	FindByInvariantID(ctx context.Context, invariantID, projectID string) (*InvariantConfigRecord, error)

	// List returns every config for the scope, enabled or not.
	List(ctx context.Context, projectID string) ([]*InvariantConfigRecord, error)

	// Upsert inserts or updates a config row keyed by (invariant_id, project_id).
	Upsert(ctx context.Context, rec *InvariantConfigRecord) error

	// SetEnabled flips the enabled flag.
	SetEnabled(ctx context.Context, invariantID, projectID string, enabled bool) error

	// SetBlocking flips the blocking flag.
	SetBlocking(ctx context.Context, invariantID, projectID string, blocking bool) error

	// Delete removes a config row. Structural protection of builtins is the
	// service's responsibility.
	Delete(ctx context.Context, invariantID, projectID string) error
}

// InvariantConfigRecord represents an invariant configuration row.
type InvariantConfigRecord struct {
	InvariantID  string
	Name         string
	Enabled      bool
	Blocking     bool
	CheckType    string // "builtin" or "custom"
	Params       map[string]string
	ErrorMessage string
	ProjectID    string // empty means global scope
	CreatedAt    string
	UpdatedAt    string
}
