// Package cli contains the covenant command tree. Commands parse flags,
// resolve the commit context, and delegate to the wired services.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/covenant/internal/config"
	"github.com/example/covenant/internal/ctxutil"
)

// loadWorkspaceConfig reads .covenant/config.json from the current directory.
// A missing config is not an error; commands fall back to flags.
func loadWorkspaceConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		return &config.Config{}
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return &config.Config{}
	}
	return cfg
}

// commitContext resolves the actor and project for an invocation: explicit
// flags win over the workspace config. The returned context carries both for
// the service layer; the project id is also returned for filter plumbing.
func commitContext(cmd *cobra.Command) (context.Context, string) {
	cfg := loadWorkspaceConfig()

	committer, _ := cmd.Flags().GetString("committer")
	if committer == "" {
		committer = cfg.Committer
	}
	projectID, _ := cmd.Flags().GetString("project")
	if projectID == "" {
		projectID = cfg.ProjectID
	}

	ctx := ctxutil.WithActorID(context.Background(), committer)
	ctx = ctxutil.WithProjectID(ctx, projectID)
	return ctx, projectID
}

// addIdentityFlags registers the shared --committer/--project flags.
func addIdentityFlags(cmd *cobra.Command) {
	cmd.Flags().String("committer", "", "Committer identity (overrides .covenant/config.json)")
	cmd.Flags().String("project", "", "Project scope (overrides .covenant/config.json)")
}
