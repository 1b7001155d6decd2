// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/covenant/internal/ports/primary"
)

var (
	passMark = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
)

// CommitmentAdapter is a thin adapter that translates CLI operations to
// CommitmentService calls. It depends only on the service interface, enabling
// easy testing with mocks.
type CommitmentAdapter struct {
	service primary.CommitmentService
	out     io.Writer
}

// NewCommitmentAdapter creates a new CommitmentAdapter with the given service.
func NewCommitmentAdapter(service primary.CommitmentService, out io.Writer) *CommitmentAdapter {
	return &CommitmentAdapter{
		service: service,
		out:     out,
	}
}

// Preview runs the check pipeline without committing and renders the report.
func (a *CommitmentAdapter) Preview(ctx context.Context, atomIDs []string, projectID string) error {
	resp, err := a.service.Preview(ctx, primary.CommitmentBatch{
		AtomIDs:   atomIDs,
		ProjectID: projectID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nCheck run %s (%d atoms)\n\n", resp.RunID, len(atomIDs))
	a.renderResults(resp.Results)

	if resp.CanCommit {
		fmt.Fprintf(a.out, "\n%s Batch can be committed\n", passMark("✓"))
	} else {
		fmt.Fprintf(a.out, "\n%s Batch cannot be committed (%d blocking issue(s))\n", failMark("✗"), len(resp.BlockingIssues))
		fmt.Fprintln(a.out, "  Fix the issues above, or commit with --override and a justification.")
	}
	if resp.HasWarnings {
		fmt.Fprintf(a.out, "%s %d warning(s); warnings never block a commit\n", warnMark("!"), len(resp.Warnings))
	}
	return nil
}

// Create commits the batch and renders the resulting commitment.
func (a *CommitmentAdapter) Create(ctx context.Context, atomIDs []string, projectID, override string) error {
	commitment, err := a.service.Create(ctx, primary.CreateCommitmentRequest{
		AtomIDs:               atomIDs,
		ProjectID:             projectID,
		OverrideJustification: override,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Created commitment %s (%d atoms) by %s\n",
		passMark("✓"), commitment.ID, commitment.AtomCount, commitment.CommittedBy)
	if commitment.OverrideJustification != "" {
		fmt.Fprintf(a.out, "  Override: %s\n", commitment.OverrideJustification)
	}
	return nil
}

// Supersede replaces an existing commitment and renders both sides of the link.
func (a *CommitmentAdapter) Supersede(ctx context.Context, originalID string, atomIDs []string, projectID, reason, override string) error {
	commitment, err := a.service.Supersede(ctx, primary.SupersedeRequest{
		OriginalID:            originalID,
		AtomIDs:               atomIDs,
		ProjectID:             projectID,
		Reason:                reason,
		OverrideJustification: override,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Created commitment %s superseding %s\n", passMark("✓"), commitment.ID, originalID)
	if commitment.Reason != "" {
		fmt.Fprintf(a.out, "  Reason: %s\n", commitment.Reason)
	}
	return nil
}

// Show displays one commitment.
func (a *CommitmentAdapter) Show(ctx context.Context, commitmentID string) error {
	commitment, err := a.service.GetCommitment(ctx, commitmentID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nCommitment: %s\n", commitment.ID)
	fmt.Fprintf(a.out, "Status:     %s\n", commitment.Status)
	fmt.Fprintf(a.out, "Committed:  %s by %s\n", commitment.CommittedAt, commitment.CommittedBy)
	fmt.Fprintf(a.out, "Atoms:      %d\n", commitment.AtomCount)
	if commitment.ProjectID != "" {
		fmt.Fprintf(a.out, "Project:    %s\n", commitment.ProjectID)
	}
	if commitment.SupersedesID != "" {
		fmt.Fprintf(a.out, "Supersedes: %s\n", commitment.SupersedesID)
	}
	if commitment.SupersededByID != "" {
		fmt.Fprintf(a.out, "Superseded by: %s\n", commitment.SupersededByID)
	}
	if commitment.Reason != "" {
		fmt.Fprintf(a.out, "Reason:     %s\n", commitment.Reason)
	}
	if commitment.OverrideJustification != "" {
		fmt.Fprintf(a.out, "Override:   %s\n", commitment.OverrideJustification)
	}
	fmt.Fprintln(a.out)

	atoms, err := a.service.GetAtoms(ctx, commitmentID)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Included atoms:")
	for _, atom := range atoms {
		fmt.Fprintf(a.out, "  %s [%s] %s\n", atom.ID, atom.Status, atom.Description)
	}
	return nil
}

// History renders the full supersession chain, origin first.
func (a *CommitmentAdapter) History(ctx context.Context, commitmentID string) error {
	chain, err := a.service.GetHistory(ctx, commitmentID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nSupersession chain for %s (%d entries):\n\n", commitmentID, len(chain))
	for i, c := range chain {
		marker := "├─"
		if i == len(chain)-1 {
			marker = "└─"
		}
		fmt.Fprintf(a.out, "%s %s [%s] %s by %s\n", marker, c.ID, c.Status, c.CommittedAt, c.CommittedBy)
		if c.Reason != "" {
			fmt.Fprintf(a.out, "   Reason: %s\n", c.Reason)
		}
	}
	return nil
}

// List renders commitments matching the filters, newest first.
func (a *CommitmentAdapter) List(ctx context.Context, filters primary.CommitmentFilters) error {
	commitments, err := a.service.ListCommitments(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list commitments: %w", err)
	}

	if len(commitments) == 0 {
		fmt.Fprintln(a.out, "No commitments found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-12s %-6s %-22s %s\n", "ID", "STATUS", "ATOMS", "COMMITTED BY", "AT")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, c := range commitments {
		fmt.Fprintf(a.out, "%-10s %-12s %-6d %-22s %s\n", c.ID, c.Status, c.AtomCount, c.CommittedBy, c.CommittedAt)
	}
	fmt.Fprintln(a.out)
	return nil
}

// renderResults prints one line per invariant outcome plus failure details.
func (a *CommitmentAdapter) renderResults(results []primary.InvariantResult) {
	for _, r := range results {
		switch {
		case r.Passed:
			fmt.Fprintf(a.out, "  %s %s\n", passMark("✓"), r.InvariantName)
		case r.Severity == primary.SeverityWarning:
			fmt.Fprintf(a.out, "  %s %s: %s\n", warnMark("!"), r.InvariantName, r.Message)
		default:
			fmt.Fprintf(a.out, "  %s %s: %s\n", failMark("✗"), r.InvariantName, r.Message)
		}
		for _, s := range r.Suggestions {
			fmt.Fprintf(a.out, "      → %s\n", s)
		}
	}
}
