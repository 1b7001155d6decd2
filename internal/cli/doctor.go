package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/covenant/internal/config"
	"github.com/example/covenant/internal/db"
	"github.com/example/covenant/internal/wire"
)

// DoctorCmd returns a command that checks the local installation: database
// reachability, workspace config, and checker registry coverage.
func DoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the local covenant installation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := true

			path, err := db.GetDBPath()
			if err != nil {
				fmt.Printf("✗ database path: %v\n", err)
				ok = false
			} else {
				fmt.Printf("✓ database path: %s\n", path)
			}

			database, err := db.GetDB()
			if err != nil {
				fmt.Printf("✗ database: %v\n", err)
				ok = false
			} else if err := database.Ping(); err != nil {
				fmt.Printf("✗ database ping: %v\n", err)
				ok = false
			} else {
				fmt.Println("✓ database reachable")
			}

			cwd, err := os.Getwd()
			if err == nil {
				if _, err := config.LoadConfig(cwd); err != nil {
					fmt.Println("! no .covenant/config.json in this directory (run 'covenant init')")
				} else {
					fmt.Println("✓ workspace config present")
				}
			}

			registry := wire.Registry()
			fmt.Printf("✓ %d checker(s) registered\n", len(registry.GetAll()))

			if !ok {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}
}
