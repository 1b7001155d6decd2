package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/covenant/internal/ports/primary"
	"github.com/example/covenant/internal/wire"
)

var (
	atomDescription string
	atomCategory    string
	atomProposed    bool
	atomParent      string
	atomTags        []string

	atomUpdateDescription string
	atomUpdateCategory    string
	atomUpdateScore       int

	atomListStatus   string
	atomListCategory string
	atomListTag      string
	atomListLimit    int
)

var atomCmd = &cobra.Command{
	Use:   "atom",
	Short: "Manage intent atoms",
	Long:  `Create, refine, and inspect intent atoms before they cross the commitment boundary.`,
}

var atomCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new atom",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		service := wire.AtomService()

		resp, err := service.CreateAtom(ctx, primary.CreateAtomRequest{
			Description:  atomDescription,
			Category:     atomCategory,
			Proposed:     atomProposed,
			ParentIntent: atomParent,
			Tags:         atomTags,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Created atom %s [%s]\n", resp.AtomID, resp.Atom.Status)
		return nil
	},
}

var atomShowCmd = &cobra.Command{
	Use:   "show <atom-id>",
	Short: "Show an atom",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		service := wire.AtomService()

		atom, err := service.GetAtom(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("\nAtom:        %s\n", atom.ID)
		fmt.Printf("Status:      %s\n", atom.Status)
		fmt.Printf("Category:    %s\n", atom.Category)
		fmt.Printf("Description: %s\n", atom.Description)
		if atom.QualityScore != nil {
			fmt.Printf("Quality:     %d\n", *atom.QualityScore)
		}
		if len(atom.Tags) > 0 {
			fmt.Printf("Tags:        %s\n", strings.Join(atom.Tags, ", "))
		}
		if atom.ParentIntent != "" {
			fmt.Printf("Parent:      %s\n", atom.ParentIntent)
		}
		if atom.CreatedBy != "" {
			fmt.Printf("Created by:  %s\n", atom.CreatedBy)
		}
		if atom.CommittedAt != "" {
			fmt.Printf("Committed:   %s\n", atom.CommittedAt)
		}
		return nil
	},
}

var atomListCmd = &cobra.Command{
	Use:   "list",
	Short: "List atoms",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		service := wire.AtomService()

		atoms, err := service.ListAtoms(ctx, primary.AtomFilters{
			Status:   atomListStatus,
			Category: atomListCategory,
			Tag:      atomListTag,
			Limit:    atomListLimit,
		})
		if err != nil {
			return err
		}

		if len(atoms) == 0 {
			fmt.Println("No atoms found")
			return nil
		}

		fmt.Printf("\n%-10s %-12s %-14s %-7s %s\n", "ID", "STATUS", "CATEGORY", "SCORE", "DESCRIPTION")
		fmt.Println("────────────────────────────────────────────────────────────────")
		for _, atom := range atoms {
			score := "-"
			if atom.QualityScore != nil {
				score = fmt.Sprintf("%d", *atom.QualityScore)
			}
			fmt.Printf("%-10s %-12s %-14s %-7s %s\n", atom.ID, atom.Status, atom.Category, score, atom.Description)
		}
		fmt.Println()
		return nil
	},
}

var atomUpdateCmd = &cobra.Command{
	Use:   "update <atom-id>",
	Short: "Update an atom's mutable fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		service := wire.AtomService()

		req := primary.UpdateAtomRequest{
			AtomID:      args[0],
			Description: atomUpdateDescription,
			Category:    atomUpdateCategory,
		}
		if cmd.Flags().Changed("score") {
			score := atomUpdateScore
			req.QualityScore = &score
		}

		if err := service.UpdateAtom(ctx, req); err != nil {
			return err
		}

		fmt.Printf("✓ Updated atom %s\n", args[0])
		return nil
	},
}

var atomAbandonCmd = &cobra.Command{
	Use:   "abandon <atom-id>",
	Short: "Abandon a proposed atom",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		service := wire.AtomService()

		if err := service.AbandonAtom(ctx, args[0]); err != nil {
			return err
		}

		fmt.Printf("✓ Abandoned atom %s\n", args[0])
		return nil
	},
}

var atomTagCmd = &cobra.Command{
	Use:   "tag <atom-id> <tag>",
	Short: "Add a tag to an atom",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		service := wire.AtomService()

		if err := service.TagAtom(ctx, args[0], args[1]); err != nil {
			return err
		}

		fmt.Printf("✓ Tagged atom %s with '%s'\n", args[0], args[1])
		return nil
	},
}

var atomUntagCmd = &cobra.Command{
	Use:   "untag <atom-id> <tag>",
	Short: "Remove a tag from an atom",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		service := wire.AtomService()

		if err := service.UntagAtom(ctx, args[0], args[1]); err != nil {
			return err
		}

		fmt.Printf("✓ Removed tag '%s' from atom %s\n", args[1], args[0])
		return nil
	},
}

var atomDeleteCmd = &cobra.Command{
	Use:   "delete <atom-id>",
	Short: "Delete an uncommitted atom",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _ := commitContext(cmd)
		service := wire.AtomService()

		if err := service.DeleteAtom(ctx, args[0]); err != nil {
			return err
		}

		fmt.Printf("✓ Deleted atom %s\n", args[0])
		return nil
	},
}

func init() {
	atomCreateCmd.Flags().StringVarP(&atomDescription, "description", "d", "", "Atom description (required)")
	atomCreateCmd.Flags().StringVarP(&atomCategory, "category", "c", "", "Category (functional, performance, security, compliance, usability, reliability)")
	atomCreateCmd.Flags().BoolVar(&atomProposed, "proposed", false, "Create as proposed (machine-suggested)")
	atomCreateCmd.Flags().StringVar(&atomParent, "parent", "", "Parent intent this atom traces to")
	atomCreateCmd.Flags().StringSliceVar(&atomTags, "tag", nil, "Tags (repeatable)")
	_ = atomCreateCmd.MarkFlagRequired("description")

	atomUpdateCmd.Flags().StringVarP(&atomUpdateDescription, "description", "d", "", "New description")
	atomUpdateCmd.Flags().StringVarP(&atomUpdateCategory, "category", "c", "", "New category")
	atomUpdateCmd.Flags().IntVar(&atomUpdateScore, "score", 0, "Quality score (0-100)")

	atomListCmd.Flags().StringVarP(&atomListStatus, "status", "s", "", "Filter by status")
	atomListCmd.Flags().StringVarP(&atomListCategory, "category", "c", "", "Filter by category")
	atomListCmd.Flags().StringVar(&atomListTag, "tag", "", "Filter by tag")
	atomListCmd.Flags().IntVar(&atomListLimit, "limit", 0, "Maximum number of atoms")

	for _, sub := range []*cobra.Command{
		atomCreateCmd, atomShowCmd, atomListCmd, atomUpdateCmd,
		atomAbandonCmd, atomTagCmd, atomUntagCmd, atomDeleteCmd,
	} {
		addIdentityFlags(sub)
		atomCmd.AddCommand(sub)
	}
}

// AtomCmd returns the atom command for registration with the root command.
func AtomCmd() *cobra.Command {
	return atomCmd
}
