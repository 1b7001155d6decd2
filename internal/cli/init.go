package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/covenant/internal/config"
	"github.com/example/covenant/internal/ports/primary"
	"github.com/example/covenant/internal/wire"
)

var (
	initCommitter string
	initProject   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a covenant workspace",
	Long:  `Write .covenant/config.json in the current directory and apply any policy overrides found in .covenant/policy.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		cfg := &config.Config{
			Version:   "1.0",
			Committer: initCommitter,
			ProjectID: initProject,
		}
		if err := config.SaveConfig(cwd, cfg); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Println("✓ Wrote .covenant/config.json")

		policy, err := config.LoadPolicy(cwd)
		if err != nil {
			return fmt.Errorf("failed to read policy: %w", err)
		}
		if policy == nil {
			return nil
		}

		overrides := make([]primary.PolicyOverride, 0, len(policy.Invariants))
		for _, entry := range policy.Invariants {
			overrides = append(overrides, primary.PolicyOverride{
				InvariantID: entry.ID,
				ProjectID:   initProject,
				Enabled:     entry.Enabled,
				Blocking:    entry.Blocking,
			})
		}

		ctx, _ := commitContext(cmd)
		if err := wire.InvariantService().ApplyPolicyOverrides(ctx, overrides); err != nil {
			return fmt.Errorf("failed to apply policy: %w", err)
		}
		fmt.Printf("✓ Applied %d policy override(s) from .covenant/policy.yaml\n", len(overrides))
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initCommitter, "committer", "", "Default committer identity for this workspace")
	initCmd.Flags().StringVar(&initProject, "project", "", "Project scope for this workspace")
}

// InitCmd returns the init command for registration with the root command.
func InitCmd() *cobra.Command {
	return initCmd
}
