package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/usecase"
)

func cardsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "cards",
		Short: "Manage card sets in a workspace",
	}

	c.AddCommand(cardsListCmd(), cardsValidateCmd())
	return c
}

func cardsListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List card sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			refs, err := ws.cards.ListCardSets(ws.root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, "(no card sets found)")
				return nil
			}

			fmt.Fprintf(out, "Workspace: %s\n\n", ws.root)
			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				marker := ""
				if r.Name == ws.cfg.Defaults.CardSet {
					marker = "  [default]"
				}
				fmt.Fprintf(out, "- %s  (%s)%s\n", r.Name, rel, marker)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}

func cardsValidateCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "validate [card-set]",
		Short: "Check that a card set loads (defaults to the workspace card set)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			path, name, err := resolveCardSetPath(ws, arg)
			if err != nil {
				return err
			}

			props, err := usecase.NewValidateCardSet(ws.cards).Execute(path)
			if err != nil {
				return err
			}

			counts := map[domain.PropertyType]int{}
			groups := map[string]bool{}
			for _, p := range props {
				counts[p.Type]++
				if p.Street != nil {
					groups[p.Street.Group.Colour] = true
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s (%d properties: %d streets in %d colour groups, %d railroads, %d utilities)\n",
				name, len(props),
				counts[domain.TypeStandard], len(groups),
				counts[domain.TypeRailroad], counts[domain.TypeUtility],
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
