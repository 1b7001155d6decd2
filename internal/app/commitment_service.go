package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	atomcore "github.com/example/covenant/internal/core/atom"
	commitmentcore "github.com/example/covenant/internal/core/commitment"
	"github.com/example/covenant/internal/core/invariant"
	"github.com/example/covenant/internal/ctxutil"
	"github.com/example/covenant/internal/models"
	"github.com/example/covenant/internal/ports/primary"
	"github.com/example/covenant/internal/ports/secondary"
)

// maxHistoryDepth bounds supersession chain traversal. Chains are guarded
// against cycles with a visited set; the depth bound is a second backstop
// against corrupted link data.
const maxHistoryDepth = 1000

// CommitmentServiceImpl implements the CommitmentService interface. It is the
// transactional boundary between mutable atoms and immutable commitments.
type CommitmentServiceImpl struct {
	atomRepo       secondary.AtomRepository
	commitmentRepo secondary.CommitmentRepository
	engine         *invariant.Engine
}

// NewCommitmentService creates a new CommitmentService with injected dependencies.
func NewCommitmentService(
	atomRepo secondary.AtomRepository,
	commitmentRepo secondary.CommitmentRepository,
	engine *invariant.Engine,
) *CommitmentServiceImpl {
	return &CommitmentServiceImpl{
		atomRepo:       atomRepo,
		commitmentRepo: commitmentRepo,
		engine:         engine,
	}
}

// Preview runs the full check pipeline against the batch with no side effects.
func (s *CommitmentServiceImpl) Preview(ctx context.Context, req primary.CommitmentBatch) (*primary.PreviewResponse, error) {
	records, err := s.loadBatch(ctx, req.AtomIDs)
	if err != nil {
		return nil, err
	}

	agg, err := s.runChecks(ctx, records, req.ProjectID, true)
	if err != nil {
		return nil, err
	}

	return aggregatedToPreview(agg), nil
}

// Create admits the batch across the commitment boundary. It re-runs the
// checks, gates on blocking issues (unless overridden with a justification),
// and persists the commitment plus the atom status flips as one atomic unit.
func (s *CommitmentServiceImpl) Create(ctx context.Context, req primary.CreateCommitmentRequest) (*primary.Commitment, error) {
	return s.create(ctx, req, "", "")
}

// Supersede replaces an active commitment with a new one. The new
// commitment's back-link and the original's forward-link are applied in the
// same transaction; an observer never sees one without the other.
func (s *CommitmentServiceImpl) Supersede(ctx context.Context, req primary.SupersedeRequest) (*primary.Commitment, error) {
	original, err := s.commitmentRepo.GetByID(ctx, req.OriginalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get commitment: %w", err)
	}

	guard := commitmentcore.CanSupersede(commitmentcore.SupersedeContext{
		OriginalID:   req.OriginalID,
		Found:        original != nil,
		Status:       statusOfCommitment(original),
		SupersededBy: supersededByOf(original),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	return s.create(ctx, primary.CreateCommitmentRequest{
		AtomIDs:               req.AtomIDs,
		ProjectID:             req.ProjectID,
		OverrideJustification: req.OverrideJustification,
	}, req.OriginalID, req.Reason)
}

// create is the shared commit path for Create and Supersede.
func (s *CommitmentServiceImpl) create(ctx context.Context, req primary.CreateCommitmentRequest, supersedesID, reason string) (*primary.Commitment, error) {
	records, err := s.loadBatch(ctx, req.AtomIDs)
	if err != nil {
		return nil, err
	}

	agg, err := s.runChecks(ctx, records, req.ProjectID, false)
	if err != nil {
		return nil, err
	}

	if agg.HasBlockingViolations && strings.TrimSpace(req.OverrideJustification) == "" {
		return nil, fmt.Errorf("cannot commit: blocking invariant violations:\n- %s", strings.Join(agg.BlockingIssues, "\n- "))
	}

	// The commitment boundary holds independently of the checking engine: a
	// write-protected atom never crosses it, override or not.
	for _, r := range records {
		guard := atomcore.CanIncludeInCommitment(atomcore.InclusionContext{
			AtomID: r.ID,
			Status: r.Status,
		})
		if err := guard.Error(); err != nil {
			return nil, err
		}
	}

	canonical, err := buildCanonicalSnapshot(records)
	if err != nil {
		return nil, err
	}

	checkResults, err := json.Marshal(checkAudit{
		RunID:   agg.RunID,
		Results: aggregatedToResults(agg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode check results: %w", err)
	}

	rec := &secondary.CommitmentRecord{
		ProjectID:             req.ProjectID,
		CanonicalJSON:         canonical,
		CommittedBy:           ctxutil.ActorFromContext(ctx),
		CommittedAt:           time.Now().UTC().Format(time.RFC3339),
		CheckResults:          string(checkResults),
		OverrideJustification: strings.TrimSpace(req.OverrideJustification),
		SupersedesID:          supersedesID,
		Status:                models.CommitmentStatusActive,
	}
	if reason != "" {
		rec.Metadata = map[string]string{"supersessionReason": reason}
	}

	if err := s.commitmentRepo.Create(ctx, rec, req.AtomIDs); err != nil {
		return nil, fmt.Errorf("failed to create commitment: %w", err)
	}

	created, err := s.commitmentRepo.GetByID(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created commitment: %w", err)
	}
	return recordToCommitment(created), nil
}

// GetCommitment retrieves a commitment by ID.
func (s *CommitmentServiceImpl) GetCommitment(ctx context.Context, commitmentID string) (*primary.Commitment, error) {
	record, err := s.commitmentRepo.GetByID(ctx, commitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get commitment: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("commitment %s not found", commitmentID)
	}
	return recordToCommitment(record), nil
}

// GetHistory walks the supersession chain to the origin and forward to the
// latest, returning the full ordered chain inclusive of the queried node.
func (s *CommitmentServiceImpl) GetHistory(ctx context.Context, commitmentID string) ([]*primary.Commitment, error) {
	start, err := s.commitmentRepo.GetByID(ctx, commitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get commitment: %w", err)
	}
	if start == nil {
		return nil, fmt.Errorf("commitment %s not found", commitmentID)
	}

	visited := map[string]bool{start.ID: true}

	// Walk backward to the origin.
	var backward []*secondary.CommitmentRecord
	cur := start
	for depth := 0; cur.SupersedesID != "" && depth < maxHistoryDepth; depth++ {
		if visited[cur.SupersedesID] {
			break
		}
		prev, err := s.commitmentRepo.GetByID(ctx, cur.SupersedesID)
		if err != nil {
			return nil, fmt.Errorf("failed to walk supersession chain: %w", err)
		}
		if prev == nil {
			break
		}
		visited[prev.ID] = true
		backward = append(backward, prev)
		cur = prev
	}

	// Walk forward to the latest.
	var forward []*secondary.CommitmentRecord
	cur = start
	for depth := 0; cur.SupersededByID != "" && depth < maxHistoryDepth; depth++ {
		if visited[cur.SupersededByID] {
			break
		}
		next, err := s.commitmentRepo.GetByID(ctx, cur.SupersededByID)
		if err != nil {
			return nil, fmt.Errorf("failed to walk supersession chain: %w", err)
		}
		if next == nil {
			break
		}
		visited[next.ID] = true
		forward = append(forward, next)
		cur = next
	}

	chain := make([]*primary.Commitment, 0, len(backward)+1+len(forward))
	for i := len(backward) - 1; i >= 0; i-- {
		chain = append(chain, recordToCommitment(backward[i]))
	}
	chain = append(chain, recordToCommitment(start))
	for _, r := range forward {
		chain = append(chain, recordToCommitment(r))
	}
	return chain, nil
}

// GetAtoms returns the live atom association, not the canonical snapshot.
func (s *CommitmentServiceImpl) GetAtoms(ctx context.Context, commitmentID string) ([]*primary.Atom, error) {
	record, err := s.commitmentRepo.GetByID(ctx, commitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get commitment: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("commitment %s not found", commitmentID)
	}

	ids, err := s.commitmentRepo.GetAtomIDs(ctx, commitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get commitment atoms: %w", err)
	}

	records, err := s.atomRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load atoms: %w", err)
	}

	atoms := make([]*primary.Atom, 0, len(records))
	for _, r := range records {
		atoms = append(atoms, recordToAtom(r))
	}
	return atoms, nil
}

// ListCommitments lists commitments with optional filters, newest first.
func (s *CommitmentServiceImpl) ListCommitments(ctx context.Context, filters primary.CommitmentFilters) ([]*primary.Commitment, error) {
	records, err := s.commitmentRepo.List(ctx, secondary.CommitmentFilters{
		ProjectID:   filters.ProjectID,
		Status:      filters.Status,
		CommittedBy: filters.CommittedBy,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list commitments: %w", err)
	}

	commitments := make([]*primary.Commitment, 0, len(records))
	for _, r := range records {
		commitments = append(commitments, recordToCommitment(r))
	}
	return commitments, nil
}

// DeleteCommitment consults the commitment guard, which rejects deletion of
// any existing commitment with a structured, non-retryable error.
func (s *CommitmentServiceImpl) DeleteCommitment(ctx context.Context, commitmentID string) error {
	record, err := s.commitmentRepo.GetByID(ctx, commitmentID)
	if err != nil {
		return fmt.Errorf("failed to get commitment: %w", err)
	}

	guard := commitmentcore.CanMutateCommitment(commitmentcore.MutationContext{
		CommitmentID: commitmentID,
		Found:        record != nil,
		Verb:         commitmentcore.VerbDelete,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	// The guard passes through only when the commitment does not exist.
	return fmt.Errorf("commitment %s not found", commitmentID)
}

// loadBatch validates and loads the batch's atoms. A missing id fails the
// whole batch, naming every missing id; the boundary never partially
// proceeds.
func (s *CommitmentServiceImpl) loadBatch(ctx context.Context, atomIDs []string) ([]*secondary.AtomRecord, error) {
	if len(atomIDs) == 0 {
		return nil, fmt.Errorf("commitment batch must name at least one atom")
	}

	seen := make(map[string]bool, len(atomIDs))
	for _, id := range atomIDs {
		if seen[id] {
			return nil, fmt.Errorf("commitment batch names atom %s more than once", id)
		}
		seen[id] = true
	}

	records, err := s.atomRepo.GetByIDs(ctx, atomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load atoms: %w", err)
	}

	if len(records) != len(atomIDs) {
		found := make(map[string]bool, len(records))
		for _, r := range records {
			found[r.ID] = true
		}
		var missing []string
		for _, id := range atomIDs {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("atom(s) not found: %s", strings.Join(missing, ", "))
	}

	return records, nil
}

// runChecks runs the checking engine over the batch.
func (s *CommitmentServiceImpl) runChecks(ctx context.Context, records []*secondary.AtomRecord, projectID string, isPreview bool) (*invariant.AggregatedResult, error) {
	atoms := make([]invariant.Atom, 0, len(records))
	for _, r := range records {
		atoms = append(atoms, recordToCheckerAtom(r))
	}

	agg, err := s.engine.CheckAll(ctx, atoms, invariant.CheckContext{
		Committer: ctxutil.ActorFromContext(ctx),
		ProjectID: projectID,
		IsPreview: isPreview,
	}, invariant.Options{})
	if err != nil {
		return nil, fmt.Errorf("invariant check run failed: %w", err)
	}
	return agg, nil
}

// buildCanonicalSnapshot copies the current field values of every included
// atom into the immutable snapshot array.
func buildCanonicalSnapshot(records []*secondary.AtomRecord) (string, error) {
	entries := make([]models.CanonicalEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, models.CanonicalEntry{
			AtomID:       r.ID,
			Description:  r.Description,
			Category:     r.Category,
			QualityScore: r.QualityScore,
			Tags:         r.Tags,
			ParentIntent: r.ParentIntent,
			CreatedBy:    r.CreatedBy,
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode canonical snapshot: %w", err)
	}
	return string(data), nil
}

// recordToCheckerAtom converts a persistence record into the checker view.
func recordToCheckerAtom(r *secondary.AtomRecord) invariant.Atom {
	return invariant.Atom{
		ID:           r.ID,
		Description:  r.Description,
		Category:     r.Category,
		QualityScore: r.QualityScore,
		Status:       r.Status,
		Tags:         r.Tags,
		ParentIntent: r.ParentIntent,
		CreatedBy:    r.CreatedBy,
	}
}

// aggregatedToPreview maps an engine run onto the preview DTO.
func aggregatedToPreview(agg *invariant.AggregatedResult) *primary.PreviewResponse {
	return &primary.PreviewResponse{
		RunID:             agg.RunID,
		CanCommit:         !agg.HasBlockingViolations,
		HasBlockingIssues: agg.HasBlockingViolations,
		HasWarnings:       agg.WarningCount > 0,
		Results:           aggregatedToResults(agg),
		BlockingIssues:    agg.BlockingIssues,
		Warnings:          agg.Warnings,
	}
}

// checkAudit is the persisted shape of a commitment's commit-time check run.
type checkAudit struct {
	RunID   string                    `json:"runId"`
	Results []primary.InvariantResult `json:"results"`
}

// aggregatedToResults maps engine results onto port DTOs.
func aggregatedToResults(agg *invariant.AggregatedResult) []primary.InvariantResult {
	results := make([]primary.InvariantResult, 0, len(agg.Results))
	for _, r := range agg.Results {
		results = append(results, primary.InvariantResult{
			InvariantID:     r.InvariantID,
			InvariantName:   r.InvariantName,
			Passed:          r.Passed,
			Severity:        r.Severity,
			Message:         r.Message,
			AffectedAtomIDs: r.AffectedAtomIDs,
			Suggestions:     r.Suggestions,
		})
	}
	return results
}

// recordToCommitment converts a persistence record to a port-boundary commitment.
func recordToCommitment(record *secondary.CommitmentRecord) *primary.Commitment {
	atomCount := 0
	var entries []models.CanonicalEntry
	if record.CanonicalJSON != "" {
		if err := json.Unmarshal([]byte(record.CanonicalJSON), &entries); err == nil {
			atomCount = len(entries)
		}
	}

	return &primary.Commitment{
		ID:                    record.ID,
		ProjectID:             record.ProjectID,
		CanonicalJSON:         record.CanonicalJSON,
		AtomCount:             atomCount,
		CommittedBy:           record.CommittedBy,
		CommittedAt:           record.CommittedAt,
		OverrideJustification: record.OverrideJustification,
		SupersedesID:          record.SupersedesID,
		SupersededByID:        record.SupersededByID,
		Status:                record.Status,
		Reason:                record.Metadata["supersessionReason"],
	}
}

func statusOfCommitment(record *secondary.CommitmentRecord) string {
	if record == nil {
		return ""
	}
	return record.Status
}

func supersededByOf(record *secondary.CommitmentRecord) string {
	if record == nil {
		return ""
	}
	return record.SupersededByID
}
