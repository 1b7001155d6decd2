// Package app contains the application services implementing the primary
// ports. Services enforce guards before any mutation and delegate persistence
// to the secondary ports.
package app

import (
	"context"
	"fmt"
	"strings"

	atomcore "github.com/example/covenant/internal/core/atom"
	"github.com/example/covenant/internal/ctxutil"
	"github.com/example/covenant/internal/models"
	"github.com/example/covenant/internal/ports/primary"
	"github.com/example/covenant/internal/ports/secondary"
)

// AtomServiceImpl implements the AtomService interface.
type AtomServiceImpl struct {
	atomRepo secondary.AtomRepository
}

// NewAtomService creates a new AtomService with injected dependencies.
func NewAtomService(atomRepo secondary.AtomRepository) *AtomServiceImpl {
	return &AtomServiceImpl{atomRepo: atomRepo}
}

// CreateAtom creates a new atom in draft (or proposed) status.
func (s *AtomServiceImpl) CreateAtom(ctx context.Context, req primary.CreateAtomRequest) (*primary.CreateAtomResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("atom description must not be empty")
	}
	category := req.Category
	if category == "" {
		category = models.AtomCategoryFunctional
	}
	if !models.IsValidAtomCategory(category) {
		return nil, fmt.Errorf("invalid atom category %q (valid: %s)", category, strings.Join(models.ValidAtomCategories, ", "))
	}

	nextID, err := s.atomRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate atom ID: %w", err)
	}

	status := models.AtomStatusDraft
	if req.Proposed {
		status = models.AtomStatusProposed
	}

	record := &secondary.AtomRecord{
		ID:           nextID,
		Description:  req.Description,
		Category:     category,
		Status:       status,
		Tags:         req.Tags,
		ParentIntent: req.ParentIntent,
		CreatedBy:    ctxutil.ActorFromContext(ctx),
	}

	if err := s.atomRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create atom: %w", err)
	}

	created, err := s.atomRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created atom: %w", err)
	}

	return &primary.CreateAtomResponse{
		AtomID: created.ID,
		Atom:   recordToAtom(created),
	}, nil
}

// GetAtom retrieves an atom by ID.
func (s *AtomServiceImpl) GetAtom(ctx context.Context, atomID string) (*primary.Atom, error) {
	record, err := s.atomRepo.GetByID(ctx, atomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get atom: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("atom %s not found", atomID)
	}
	return recordToAtom(record), nil
}

// ListAtoms lists atoms with optional filters.
func (s *AtomServiceImpl) ListAtoms(ctx context.Context, filters primary.AtomFilters) ([]*primary.Atom, error) {
	records, err := s.atomRepo.List(ctx, secondary.AtomFilters{
		Status:   filters.Status,
		Category: filters.Category,
		Tag:      filters.Tag,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list atoms: %w", err)
	}

	atoms := make([]*primary.Atom, 0, len(records))
	for _, r := range records {
		atoms = append(atoms, recordToAtom(r))
	}
	return atoms, nil
}

// UpdateAtom updates an atom's mutable fields. Committed and superseded atoms
// are rejected by the immutability guard before any change is applied.
func (s *AtomServiceImpl) UpdateAtom(ctx context.Context, req primary.UpdateAtomRequest) error {
	record, err := s.guardMutation(ctx, req.AtomID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("atom %s not found", req.AtomID)
	}

	if req.Description != "" {
		record.Description = req.Description
	}
	if req.Category != "" {
		if !models.IsValidAtomCategory(req.Category) {
			return fmt.Errorf("invalid atom category %q (valid: %s)", req.Category, strings.Join(models.ValidAtomCategories, ", "))
		}
		record.Category = req.Category
	}
	if req.QualityScore != nil {
		if *req.QualityScore < 0 || *req.QualityScore > 100 {
			return fmt.Errorf("quality score must be between 0 and 100, got %d", *req.QualityScore)
		}
		record.QualityScore = req.QualityScore
	}

	if err := s.atomRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to update atom: %w", err)
	}
	return nil
}

// AbandonAtom marks a proposed atom as abandoned. Abandoned is terminal and
// reachable only from proposed.
func (s *AtomServiceImpl) AbandonAtom(ctx context.Context, atomID string) error {
	record, err := s.guardMutation(ctx, atomID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("atom %s not found", atomID)
	}

	guard := atomcore.CanAbandonAtom(atomcore.AbandonContext{
		AtomID: record.ID,
		Status: record.Status,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	if err := s.atomRepo.UpdateStatusByIDs(ctx, []string{atomID}, models.AtomStatusAbandoned, false); err != nil {
		return fmt.Errorf("failed to abandon atom: %w", err)
	}
	return nil
}

// TagAtom adds a tag to an atom.
func (s *AtomServiceImpl) TagAtom(ctx context.Context, atomID, tag string) error {
	record, err := s.guardMutation(ctx, atomID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("atom %s not found", atomID)
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("tag must not be empty")
	}

	for _, t := range record.Tags {
		if t == tag {
			return nil // tags are a set
		}
	}
	record.Tags = append(record.Tags, tag)

	if err := s.atomRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to tag atom: %w", err)
	}
	return nil
}

// UntagAtom removes a tag from an atom.
func (s *AtomServiceImpl) UntagAtom(ctx context.Context, atomID, tag string) error {
	record, err := s.guardMutation(ctx, atomID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("atom %s not found", atomID)
	}

	kept := record.Tags[:0]
	for _, t := range record.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	record.Tags = kept

	if err := s.atomRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to untag atom: %w", err)
	}
	return nil
}

// DeleteAtom deletes an atom. Committed and superseded atoms are rejected.
func (s *AtomServiceImpl) DeleteAtom(ctx context.Context, atomID string) error {
	record, err := s.guardMutation(ctx, atomID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("atom %s not found", atomID)
	}

	if err := s.atomRepo.Delete(ctx, atomID); err != nil {
		return fmt.Errorf("failed to delete atom: %w", err)
	}
	return nil
}

// guardMutation loads the atom and consults the immutability guard. Returns
// the record (nil when absent) or the guard's structured rejection.
func (s *AtomServiceImpl) guardMutation(ctx context.Context, atomID string) (*secondary.AtomRecord, error) {
	record, err := s.atomRepo.GetByID(ctx, atomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get atom: %w", err)
	}

	guard := atomcore.CanMutateAtom(atomcore.MutationContext{
		AtomID: atomID,
		Found:  record != nil,
		Status: statusOf(record),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}
	return record, nil
}

func statusOf(record *secondary.AtomRecord) string {
	if record == nil {
		return ""
	}
	return record.Status
}

// recordToAtom converts a persistence record to a port-boundary atom.
func recordToAtom(record *secondary.AtomRecord) *primary.Atom {
	return &primary.Atom{
		ID:                record.ID,
		Description:       record.Description,
		Category:          record.Category,
		QualityScore:      record.QualityScore,
		Status:            record.Status,
		Tags:              record.Tags,
		ParentIntent:      record.ParentIntent,
		CreatedBy:         record.CreatedBy,
		RefinementHistory: record.RefinementHistory,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
		CommittedAt:       record.CommittedAt,
	}
}
