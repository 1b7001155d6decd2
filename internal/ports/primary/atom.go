// Package primary defines the primary ports (driving adapters) for the
// application: the service interfaces CLI adapters call, plus their
// request/response DTOs.
package primary

import "context"

// AtomService defines the primary port for atom lifecycle operations.
type AtomService interface {
	// CreateAtom creates a new atom in draft (or proposed) status.
	CreateAtom(ctx context.Context, req CreateAtomRequest) (*CreateAtomResponse, error)

	// GetAtom retrieves an atom by ID.
	GetAtom(ctx context.Context, atomID string) (*Atom, error)

	// ListAtoms lists atoms with optional filters.
	ListAtoms(ctx context.Context, filters AtomFilters) ([]*Atom, error)

	// UpdateAtom updates an atom's mutable fields. Guarded: committed and
	// superseded atoms are rejected with a structured immutability error.
	UpdateAtom(ctx context.Context, req UpdateAtomRequest) error

	// AbandonAtom marks a proposed atom as abandoned (terminal).
	AbandonAtom(ctx context.Context, atomID string) error

	// TagAtom adds a tag to an atom. Guarded like UpdateAtom.
	TagAtom(ctx context.Context, atomID, tag string) error

	// UntagAtom removes a tag from an atom. Guarded like UpdateAtom.
	UntagAtom(ctx context.Context, atomID, tag string) error

	// DeleteAtom deletes an atom. Guarded like UpdateAtom.
	DeleteAtom(ctx context.Context, atomID string) error
}

// CreateAtomRequest contains parameters for creating an atom.
type CreateAtomRequest struct {
	Description  string
	Category     string
	Proposed     bool // machine-suggested atoms start as proposed
	ParentIntent string
	Tags         []string
}

// CreateAtomResponse contains the result of creating an atom.
type CreateAtomResponse struct {
	AtomID string
	Atom   *Atom
}

// UpdateAtomRequest contains parameters for updating an atom. Zero-valued
// fields are left unchanged; QualityScore is applied when non-nil.
type UpdateAtomRequest struct {
	AtomID       string
	Description  string
	Category     string
	QualityScore *int
}

// AtomFilters contains filter options for listing atoms.
type AtomFilters struct {
	Status   string
	Category string
	Tag      string
	Limit    int
}

// Atom represents an atom entity at the port boundary.
type Atom struct {
	ID                string
	Description       string
	Category          string
	QualityScore      *int
	Status            string
	Tags              []string
	ParentIntent      string
	CreatedBy         string
	RefinementHistory string
	CreatedAt         string
	UpdatedAt         string
	CommittedAt       string
}
