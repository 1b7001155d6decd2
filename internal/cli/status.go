package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/covenant/internal/ports/primary"
	"github.com/example/covenant/internal/wire"
)

// StatusCmd returns a command that summarizes the workspace: atom counts per
// status and the active commitments.
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show workspace status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, projectID := commitContext(cmd)
			cfg := loadWorkspaceConfig()

			fmt.Println("\nWorkspace")
			if cfg.Committer != "" {
				fmt.Printf("  Committer: %s\n", cfg.Committer)
			}
			if projectID != "" {
				fmt.Printf("  Project:   %s\n", projectID)
			}

			atoms, err := wire.AtomService().ListAtoms(ctx, primary.AtomFilters{})
			if err != nil {
				return err
			}
			counts := map[string]int{}
			for _, atom := range atoms {
				counts[atom.Status]++
			}
			fmt.Printf("\nAtoms (%d total)\n", len(atoms))
			for _, status := range []string{"draft", "proposed", "committed", "superseded", "abandoned"} {
				if counts[status] > 0 {
					fmt.Printf("  %-12s %d\n", status, counts[status])
				}
			}

			commitments, err := wire.CommitmentService().ListCommitments(ctx, primary.CommitmentFilters{
				ProjectID: projectID,
				Status:    "active",
			})
			if err != nil {
				return err
			}
			fmt.Printf("\nActive commitments (%d)\n", len(commitments))
			for _, c := range commitments {
				fmt.Printf("  %s (%d atoms) by %s at %s\n", c.ID, c.AtomCount, c.CommittedBy, c.CommittedAt)
			}
			fmt.Println()
			return nil
		},
	}
	addIdentityFlags(cmd)
	return cmd
}
