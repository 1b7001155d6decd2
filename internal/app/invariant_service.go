package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/covenant/internal/core/invariant"
	"github.com/example/covenant/internal/ctxutil"
	"github.com/example/covenant/internal/ports/primary"
	"github.com/example/covenant/internal/ports/secondary"
)

// ConfigSourceAdapter bridges the invariant-config repository to the checking
// engine's ConfigSource contract.
type ConfigSourceAdapter struct {
	configRepo secondary.InvariantConfigRepository
}

// NewConfigSourceAdapter creates a new adapter over the given repository.
func NewConfigSourceAdapter(configRepo secondary.InvariantConfigRepository) *ConfigSourceAdapter {
	return &ConfigSourceAdapter{configRepo: configRepo}
}

// FindEnabled returns every enabled invariant config for the scope.
func (a *ConfigSourceAdapter) FindEnabled(ctx context.Context, projectID string) ([]invariant.Config, error) {
	records, err := a.configRepo.FindEnabled(ctx, projectID)
	if err != nil {
		return nil, err
	}
	configs := make([]invariant.Config, 0, len(records))
	for _, r := range records {
		configs = append(configs, recordToEngineConfig(r))
	}
	return configs, nil
}

// FindByInvariantID returns one invariant's config, or nil if absent.
func (a *ConfigSourceAdapter) FindByInvariantID(ctx context.Context, invariantID, projectID string) (*invariant.Config, error) {
	record, err := a.configRepo.FindByInvariantID(ctx, invariantID, projectID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	cfg := recordToEngineConfig(record)
	return &cfg, nil
}

// InvariantServiceImpl implements the InvariantService interface.
type InvariantServiceImpl struct {
	configRepo secondary.InvariantConfigRepository
	atomRepo   secondary.AtomRepository
	registry   *invariant.Registry
	engine     *invariant.Engine
}

// NewInvariantService creates a new InvariantService with injected dependencies.
func NewInvariantService(
	configRepo secondary.InvariantConfigRepository,
	atomRepo secondary.AtomRepository,
	registry *invariant.Registry,
	engine *invariant.Engine,
) *InvariantServiceImpl {
	return &InvariantServiceImpl{
		configRepo: configRepo,
		atomRepo:   atomRepo,
		registry:   registry,
		engine:     engine,
	}
}

// ListInvariants returns every invariant config for the scope, sorted by id.
func (s *InvariantServiceImpl) ListInvariants(ctx context.Context, projectID string) ([]*primary.InvariantConfig, error) {
	records, err := s.configRepo.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invariants: %w", err)
	}

	configs := make([]*primary.InvariantConfig, 0, len(records))
	for _, r := range records {
		configs = append(configs, recordToInvariantConfig(r))
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].InvariantID < configs[j].InvariantID })
	return configs, nil
}

// EnableInvariant enables an invariant for the scope.
func (s *InvariantServiceImpl) EnableInvariant(ctx context.Context, invariantID, projectID string) error {
	return s.setFlag(ctx, invariantID, projectID, func(rec *secondary.InvariantConfigRecord) {
		rec.Enabled = true
	})
}

// DisableInvariant disables an invariant for the scope.
func (s *InvariantServiceImpl) DisableInvariant(ctx context.Context, invariantID, projectID string) error {
	return s.setFlag(ctx, invariantID, projectID, func(rec *secondary.InvariantConfigRecord) {
		rec.Enabled = false
	})
}

// SetBlocking sets whether a failing invariant blocks commits or only warns.
func (s *InvariantServiceImpl) SetBlocking(ctx context.Context, invariantID, projectID string, blocking bool) error {
	return s.setFlag(ctx, invariantID, projectID, func(rec *secondary.InvariantConfigRecord) {
		rec.Blocking = blocking
	})
}

// setFlag loads the effective config for the scope (falling back to the
// global row), applies the change, and upserts it under the requested scope.
// This is how per-project overrides of a global invariant come to exist.
func (s *InvariantServiceImpl) setFlag(ctx context.Context, invariantID, projectID string, apply func(*secondary.InvariantConfigRecord)) error {
	record, err := s.configRepo.FindByInvariantID(ctx, invariantID, projectID)
	if err != nil {
		return fmt.Errorf("failed to get invariant config: %w", err)
	}
	if record == nil {
		return fmt.Errorf("invariant %s not found", invariantID)
	}

	record.ProjectID = projectID
	apply(record)

	if err := s.configRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to update invariant config: %w", err)
	}
	return nil
}

// RegisterCustomInvariant creates a custom invariant config. Built-in
// identities are structurally protected.
func (s *InvariantServiceImpl) RegisterCustomInvariant(ctx context.Context, req primary.RegisterInvariantRequest) error {
	if strings.TrimSpace(req.InvariantID) == "" {
		return fmt.Errorf("invariant id must not be empty")
	}

	existing, err := s.configRepo.FindByInvariantID(ctx, req.InvariantID, req.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to check invariant config: %w", err)
	}
	if existing != nil && existing.CheckType == "builtin" {
		return fmt.Errorf("invariant %s is built-in; its identity and check type cannot be altered", req.InvariantID)
	}

	name := req.Name
	if name == "" {
		name = req.InvariantID
	}

	rec := &secondary.InvariantConfigRecord{
		InvariantID:  req.InvariantID,
		Name:         name,
		Enabled:      true,
		Blocking:     req.Blocking,
		CheckType:    "custom",
		Params:       req.Params,
		ErrorMessage: req.ErrorMessage,
		ProjectID:    req.ProjectID,
	}
	if err := s.configRepo.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("failed to register invariant: %w", err)
	}
	return nil
}

// DeleteInvariant removes a custom invariant config. Built-ins are refused.
func (s *InvariantServiceImpl) DeleteInvariant(ctx context.Context, invariantID, projectID string) error {
	record, err := s.configRepo.FindByInvariantID(ctx, invariantID, projectID)
	if err != nil {
		return fmt.Errorf("failed to get invariant config: %w", err)
	}
	if record == nil {
		return fmt.Errorf("invariant %s not found", invariantID)
	}
	if record.CheckType == "builtin" {
		return fmt.Errorf("invariant %s is built-in and cannot be deleted", invariantID)
	}

	if err := s.configRepo.Delete(ctx, invariantID, projectID); err != nil {
		return fmt.Errorf("failed to delete invariant config: %w", err)
	}
	return nil
}

// CheckSingle evaluates one invariant against a batch for diagnostics.
// Returns nil when the config or the checker implementation is absent.
func (s *InvariantServiceImpl) CheckSingle(ctx context.Context, req primary.CheckSingleRequest) (*primary.InvariantResult, error) {
	records, err := s.atomRepo.GetByIDs(ctx, req.AtomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load atoms: %w", err)
	}

	atoms := make([]invariant.Atom, 0, len(records))
	for _, r := range records {
		atoms = append(atoms, recordToCheckerAtom(r))
	}

	res, err := s.engine.CheckSingle(ctx, atoms, req.InvariantID, invariant.CheckContext{
		Committer: ctxutil.ActorFromContext(ctx),
		ProjectID: req.ProjectID,
		IsPreview: true,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}

	return &primary.InvariantResult{
		InvariantID:     res.InvariantID,
		InvariantName:   res.InvariantName,
		Passed:          res.Passed,
		Severity:        res.Severity,
		Message:         res.Message,
		AffectedAtomIDs: res.AffectedAtomIDs,
		Suggestions:     res.Suggestions,
	}, nil
}

// ApplyPolicyOverrides applies enabled/blocking overrides, typically loaded
// from a project policy file. Unknown invariant ids fail the whole batch.
func (s *InvariantServiceImpl) ApplyPolicyOverrides(ctx context.Context, overrides []primary.PolicyOverride) error {
	for _, o := range overrides {
		record, err := s.configRepo.FindByInvariantID(ctx, o.InvariantID, o.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to get invariant config: %w", err)
		}
		if record == nil {
			return fmt.Errorf("policy names unknown invariant %s", o.InvariantID)
		}

		record.ProjectID = o.ProjectID
		if o.Enabled != nil {
			record.Enabled = *o.Enabled
		}
		if o.Blocking != nil {
			record.Blocking = *o.Blocking
		}

		if err := s.configRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to apply policy override for %s: %w", o.InvariantID, err)
		}
	}
	return nil
}

// recordToEngineConfig converts a persistence record into the engine's config type.
func recordToEngineConfig(r *secondary.InvariantConfigRecord) invariant.Config {
	return invariant.Config{
		InvariantID:  r.InvariantID,
		Name:         r.Name,
		Enabled:      r.Enabled,
		Blocking:     r.Blocking,
		CheckType:    r.CheckType,
		Params:       r.Params,
		ErrorMessage: r.ErrorMessage,
		ProjectID:    r.ProjectID,
	}
}

// recordToInvariantConfig converts a persistence record to a port-boundary config.
func recordToInvariantConfig(r *secondary.InvariantConfigRecord) *primary.InvariantConfig {
	return &primary.InvariantConfig{
		InvariantID:  r.InvariantID,
		Name:         r.Name,
		Enabled:      r.Enabled,
		Blocking:     r.Blocking,
		CheckType:    r.CheckType,
		Params:       r.Params,
		ErrorMessage: r.ErrorMessage,
		ProjectID:    r.ProjectID,
	}
}
