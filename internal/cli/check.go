package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/eligibility"
)

type checkFlags struct {
	teams    []string
	years    string
	letter   string
	namePart string
	active   bool
	retired  bool
}

func newCheckCmd(a *app) *cobra.Command {
	var f checkFlags

	cmd := &cobra.Command{
		Use:   "check <player-id>",
		Short: "Evaluate a player against an ad-hoc constraint",
		Example: `  draftctl check 2544 --team LAL --years 2010-2019
  draftctl check 977 --team OKC --years 1990-1999 --letter S --name-part last`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("player id: %w", err)
			}
			d, err := a.deps()
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, d.Close()) }()

			con, err := f.constraint(cmd.Context(), d)
			if err != nil {
				return err
			}
			res := d.checker.Check(cmd.Context(), draft.Player{ID: id}, con, nil)
			printResult(cmd.OutOrStdout(), id, con, res)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&f.teams, "team", nil, "Team abbreviation or id; repeatable")
	flags.StringVar(&f.years, "years", "", "Year window such as 2008-2015")
	flags.StringVar(&f.letter, "letter", "", "Allowed initial letters, e.g. R or RS")
	flags.StringVar(&f.namePart, "name-part", "first", "Name part the letter applies to: first, last or either")
	flags.BoolVar(&f.active, "active", true, "Allow active players")
	flags.BoolVar(&f.retired, "retired", true, "Allow retired players")

	return cmd
}

// constraint builds the draft constraint the flags describe, expanding
// teams to every franchise segment active in the window.
func (f checkFlags) constraint(ctx context.Context, d *deps) (draft.Constraint, error) {
	con := draft.Constraint{
		NameLetter:   strings.ToUpper(f.letter),
		NamePart:     draft.ParseNamePart(f.namePart),
		AllowActive:  f.active,
		AllowRetired: f.retired,
	}
	if f.years != "" {
		start, end, err := draft.ParseYearLabel(f.years)
		if err != nil {
			return con, fmt.Errorf("--years: %w", err)
		}
		con.YearLabel = draft.YearLabel(start, end)
		con.YearStart, con.YearEnd = &start, &end
	}
	if len(f.teams) == 0 {
		return con, nil
	}

	catalogue, err := d.resolver.Catalogue(ctx)
	if err != nil {
		return con, err
	}
	for _, ref := range f.teams {
		t, ok := findTeam(catalogue, ref)
		if !ok {
			return con, fmt.Errorf("unknown team %q", ref)
		}
		con.Segments = append(con.Segments, draft.Segment{Team: t})
	}
	return d.resolver.Resolve(ctx, con)
}

func findTeam(teams []draft.Team, ref string) (draft.Team, bool) {
	id, err := strconv.Atoi(ref)
	for _, t := range teams {
		if err == nil && t.ID == id {
			return t, true
		}
		if err != nil && strings.EqualFold(t.Abbreviation, ref) {
			return t, true
		}
	}
	return draft.Team{}, false
}

func printResult(out io.Writer, id int, con draft.Constraint, res eligibility.Result) {
	fmt.Fprintf(out, "player %d vs %s: %s", id, describeConstraint(&con), res.Verdict)
	if res.Reason != eligibility.ReasonNone {
		fmt.Fprintf(out, " (%s)", res.Reason)
	}
	if res.Err != nil {
		fmt.Fprintf(out, " error: %v", res.Err)
	}
	fmt.Fprintln(out)
}
