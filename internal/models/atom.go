// Package models contains shared domain vocabulary for Covenant entities:
// status and category constants plus the canonical snapshot shape.
// SQL persistence lives in internal/adapters/sqlite/*.go
package models

// Atom status constants
const (
	AtomStatusDraft      = "draft"
	AtomStatusProposed   = "proposed"
	AtomStatusCommitted  = "committed"
	AtomStatusSuperseded = "superseded"
	AtomStatusAbandoned  = "abandoned"
)

// Atom category constants
const (
	AtomCategoryFunctional  = "functional"
	AtomCategoryPerformance = "performance"
	AtomCategorySecurity    = "security"
	AtomCategoryCompliance  = "compliance"
	AtomCategoryUsability   = "usability"
	AtomCategoryReliability = "reliability"
)

// ValidAtomCategories lists every accepted category value.
var ValidAtomCategories = []string{
	AtomCategoryFunctional,
	AtomCategoryPerformance,
	AtomCategorySecurity,
	AtomCategoryCompliance,
	AtomCategoryUsability,
	AtomCategoryReliability,
}

// IsValidAtomCategory reports whether category is an accepted value.
func IsValidAtomCategory(category string) bool {
	for _, c := range ValidAtomCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsWriteProtected reports whether an atom in the given status may no longer
// be mutated through normal write paths.
func IsWriteProtected(status string) bool {
	return status == AtomStatusCommitted || status == AtomStatusSuperseded
}
