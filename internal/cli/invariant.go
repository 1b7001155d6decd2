package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/covenant/internal/ports/primary"
	"github.com/example/covenant/internal/wire"
)

var (
	invariantName     string
	invariantBlocking bool
	invariantParams   []string
	invariantErrMsg   string

	invariantCheckID string
)

var invariantCmd = &cobra.Command{
	Use:   "invariant",
	Short: "Manage invariant checks",
	Long:  `Inspect and configure the invariant checks that gate the commitment boundary.`,
}

var invariantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invariants for the current scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		service := wire.InvariantService()

		configs, err := service.ListInvariants(ctx, projectID)
		if err != nil {
			return err
		}

		fmt.Printf("\n%-30s %-9s %-9s %-9s %s\n", "INVARIANT", "ENABLED", "BLOCKING", "TYPE", "SCOPE")
		fmt.Println("──────────────────────────────────────────────────────────────────────")
		for _, c := range configs {
			scope := "global"
			if c.ProjectID != "" {
				scope = c.ProjectID
			}
			fmt.Printf("%-30s %-9s %-9s %-9s %s\n",
				c.InvariantID, yesNo(c.Enabled), yesNo(c.Blocking), c.CheckType, scope)
		}
		fmt.Println()
		return nil
	},
}

var invariantEnableCmd = &cobra.Command{
	Use:   "enable <invariant-id>",
	Short: "Enable an invariant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		if err := wire.InvariantService().EnableInvariant(ctx, args[0], projectID); err != nil {
			return err
		}
		fmt.Printf("✓ Enabled invariant %s\n", args[0])
		return nil
	},
}

var invariantDisableCmd = &cobra.Command{
	Use:   "disable <invariant-id>",
	Short: "Disable an invariant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		if err := wire.InvariantService().DisableInvariant(ctx, args[0], projectID); err != nil {
			return err
		}
		fmt.Printf("✓ Disabled invariant %s\n", args[0])
		return nil
	},
}

var invariantBlockCmd = &cobra.Command{
	Use:   "block <invariant-id>",
	Short: "Make a failing invariant block commits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		if err := wire.InvariantService().SetBlocking(ctx, args[0], projectID, true); err != nil {
			return err
		}
		fmt.Printf("✓ Invariant %s now blocks commits\n", args[0])
		return nil
	},
}

var invariantWarnCmd = &cobra.Command{
	Use:   "warn <invariant-id>",
	Short: "Demote a failing invariant to a warning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		if err := wire.InvariantService().SetBlocking(ctx, args[0], projectID, false); err != nil {
			return err
		}
		fmt.Printf("✓ Invariant %s now only warns\n", args[0])
		return nil
	},
}

var invariantRegisterCmd = &cobra.Command{
	Use:   "register <invariant-id>",
	Short: "Register a custom invariant config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)

		params := make(map[string]string, len(invariantParams))
		for _, p := range invariantParams {
			key, value, ok := strings.Cut(p, "=")
			if !ok {
				return fmt.Errorf("invalid param %q, expected key=value", p)
			}
			params[key] = value
		}

		err := wire.InvariantService().RegisterCustomInvariant(ctx, primary.RegisterInvariantRequest{
			InvariantID:  args[0],
			Name:         invariantName,
			Blocking:     invariantBlocking,
			Params:       params,
			ErrorMessage: invariantErrMsg,
			ProjectID:    projectID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Registered invariant %s\n", args[0])
		return nil
	},
}

var invariantDeleteCmd = &cobra.Command{
	Use:   "delete <invariant-id>",
	Short: "Delete a custom invariant config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)
		if err := wire.InvariantService().DeleteInvariant(ctx, args[0], projectID); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted invariant %s\n", args[0])
		return nil
	},
}

var invariantCheckCmd = &cobra.Command{
	Use:   "check <atom-id>...",
	Short: "Run a single invariant against a batch",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, projectID := commitContext(cmd)

		result, err := wire.InvariantService().CheckSingle(ctx, primary.CheckSingleRequest{
			AtomIDs:     args,
			InvariantID: invariantCheckID,
			ProjectID:   projectID,
		})
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Printf("Invariant %s has no configuration or implementation in this scope\n", invariantCheckID)
			return nil
		}

		if result.Passed {
			fmt.Printf("✓ %s passed\n", result.InvariantName)
		} else {
			fmt.Printf("✗ %s [%s]: %s\n", result.InvariantName, result.Severity, result.Message)
			for _, s := range result.Suggestions {
				fmt.Printf("    → %s\n", s)
			}
		}
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	invariantRegisterCmd.Flags().StringVarP(&invariantName, "name", "n", "", "Human-readable invariant name (required)")
	invariantRegisterCmd.Flags().BoolVar(&invariantBlocking, "blocking", false, "Failures block commits")
	invariantRegisterCmd.Flags().StringSliceVar(&invariantParams, "param", nil, "Checker parameter as key=value (repeatable)")
	invariantRegisterCmd.Flags().StringVar(&invariantErrMsg, "message", "", "Custom failure message")
	_ = invariantRegisterCmd.MarkFlagRequired("name")

	invariantCheckCmd.Flags().StringVarP(&invariantCheckID, "invariant", "i", "", "Invariant id to evaluate (required)")
	_ = invariantCheckCmd.MarkFlagRequired("invariant")

	for _, sub := range []*cobra.Command{
		invariantListCmd, invariantEnableCmd, invariantDisableCmd,
		invariantBlockCmd, invariantWarnCmd, invariantRegisterCmd,
		invariantDeleteCmd, invariantCheckCmd,
	} {
		addIdentityFlags(sub)
		invariantCmd.AddCommand(sub)
	}
}

// InvariantCmd returns the invariant command for registration with the root command.
func InvariantCmd() *cobra.Command {
	return invariantCmd
}
