package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/lineage"
)

func newTeamsCmd(a *app) *cobra.Command {
	var years string

	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List franchises, optionally those active in a year window",
		Example: `  draftctl teams
  draftctl teams --years 1960-1969`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			d, err := a.deps()
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, d.Close()) }()

			all, err := d.resolver.Catalogue(cmd.Context())
			if err != nil {
				return err
			}
			teams := all
			if years != "" {
				start, end, err := draft.ParseYearLabel(years)
				if err != nil {
					return fmt.Errorf("--years: %w", err)
				}
				if teams, err = d.resolver.ActiveTeams(cmd.Context(), start, end); err != nil {
					return err
				}
			}
			printFranchises(cmd.OutOrStdout(), all, teams)
			return nil
		},
	}

	cmd.Flags().StringVar(&years, "years", "", "Year window such as 1990-1999")

	return cmd
}

// printFranchises groups teams by franchise using the full catalogue for
// lineage, so predecessors outside the window still link up.
func printFranchises(out io.Writer, catalogue, teams []draft.Team) {
	idx := lineage.NewIndex(catalogue)
	ids := make([]int, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	for _, g := range idx.Coalesce(ids) {
		names := make([]string, 0, len(g.Members))
		for _, m := range g.Members {
			name := m.Team.Name
			if m.Team.Abbreviation != "" {
				name = m.Team.Abbreviation + " " + name
			}
			if m.Years != "" {
				name += " (" + m.Years + ")"
			}
			names = append(names, name)
		}
		fmt.Fprintln(out, strings.Join(names, " -> "))
	}
}
