package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/covenant/internal/cli"
	"github.com/example/covenant/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "covenant",
	Short:   "Covenant - a commitment boundary for intent atoms",
	Version: version.String(),
	Long: `Covenant manages the boundary between mutable intent atoms and immutable
commitments. Atoms are drafted and refined freely; committing a batch runs it
through configurable invariant checks and freezes it into a commitment that
can only ever be superseded, never edited or deleted.`,
}

func main() {
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.AtomCmd())
	rootCmd.AddCommand(cli.CommitCmd())
	rootCmd.AddCommand(cli.InvariantCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
