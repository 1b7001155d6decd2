package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/covenant/internal/ports/primary"
	"github.com/example/covenant/internal/wire"
)

var (
	commitOverride string
	commitReason   string

	commitListStatus    string
	commitListCommitter string
	commitListLimit     int
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Manage the commitment boundary",
	Long:  `Preview and create commitments. A commitment freezes a batch of atoms into an immutable record; changing it later means superseding it.`,
}

var commitPreviewCmd = &cobra.Command{
	Use:   "preview <atom-id>...",
	Short: "Dry-run the invariant checks for a batch",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		return wire.CommitmentAdapter().Preview(ctx, args, projectID)
	},
}

var commitCreateCmd = &cobra.Command{
	Use:   "create <atom-id>...",
	Short: "Commit a batch of atoms",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		return wire.CommitmentAdapter().Create(ctx, args, projectID, commitOverride)
	},
}

var commitSupersedeCmd = &cobra.Command{
	Use:   "supersede <commitment-id> <atom-id>...",
	Short: "Replace a commitment with a new one",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		return wire.CommitmentAdapter().Supersede(ctx, args[0], args[1:], projectID, commitReason, commitOverride)
	},
}

var commitShowCmd = &cobra.Command{
	Use:   "show <commitment-id>",
	Short: "Show a commitment and its atoms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		return wire.CommitmentAdapter().Show(ctx, args[0])
	},
}

var commitHistoryCmd = &cobra.Command{
	Use:   "history <commitment-id>",
	Short: "Show a commitment's supersession chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		return wire.CommitmentAdapter().History(ctx, args[0])
	},
}

var commitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List commitments, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		return wire.CommitmentAdapter().List(ctx, primary.CommitmentFilters{
			ProjectID:   projectID,
			Status:      commitListStatus,
			CommittedBy: commitListCommitter,
			Limit:       commitListLimit,
		})
	},
}

func init() {
	commitCreateCmd.Flags().StringVar(&commitOverride, "override", "", "Justification for committing despite blocking issues")
	commitSupersedeCmd.Flags().StringVar(&commitOverride, "override", "", "Justification for committing despite blocking issues")
	commitSupersedeCmd.Flags().StringVar(&commitReason, "reason", "", "Why the original commitment is being replaced")

	commitListCmd.Flags().StringVarP(&commitListStatus, "status", "s", "", "Filter by status (active, superseded)")
	commitListCmd.Flags().StringVar(&commitListCommitter, "by", "", "Filter by committer")
	commitListCmd.Flags().IntVar(&commitListLimit, "limit", 0, "Maximum number of commitments")

	for _, sub := range []*cobra.Command{
		commitPreviewCmd, commitCreateCmd, commitSupersedeCmd,
		commitShowCmd, commitHistoryCmd, commitListCmd,
	} {
		addIdentityFlags(sub)
		commitCmd.AddCommand(sub)
	}
}

// CommitCmd returns the commit command for registration with the root command.
func CommitCmd() *cobra.Command {
	return commitCmd
}
