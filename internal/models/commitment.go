package models

// Commitment status constants
const (
	CommitmentStatusActive     = "active"
	CommitmentStatusSuperseded = "superseded"
)

// CanonicalEntry is one atom's point-in-time values inside a commitment's
// canonical snapshot. The snapshot is a copy, not a reference: later edits to
// the live atom never alter it.
type CanonicalEntry struct {
	AtomID       string   `json:"atomId"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	QualityScore *int     `json:"qualityScore"`
	Tags         []string `json:"tags,omitempty"`
	ParentIntent string   `json:"parentIntent,omitempty"`
	CreatedBy    string   `json:"createdBy,omitempty"`
}
