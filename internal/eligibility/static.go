package eligibility

import (
	"slices"
	"strings"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/lineage"
)

// StaticConstraint derives the constraint clauses for every field the rule
// set does not spin. teams is the full team catalogue used to resolve team
// lists and franchise lineage.
func StaticConstraint(rules draft.RuleSet, teams []draft.Team) draft.Constraint {
	con := draft.Constraint{
		AllowActive:  rules.ActiveAllowed(),
		AllowRetired: rules.RetiredAllowed(),
	}

	if !rules.Spins(draft.FieldYear) {
		con.YearLabel, con.YearStart, con.YearEnd, con.Windows = staticYears(rules.Year)
	}

	if !rules.Spins(draft.FieldTeam) {
		if ids := staticTeamIDs(rules.Team, teams, con.YearWindows()); len(ids) > 0 {
			con.Segments = ExpandSegments(lineage.NewIndex(teams), ids, con.YearStart, con.YearEnd)
		}
	}

	if !rules.Spins(draft.FieldNameLetter) && rules.NameLetter.Type == draft.LetterSpecific {
		con.NameLetter = letterSet(rules.NameLetter.Options)
		if con.NameLetter != "" {
			con.NamePart = draft.ParseNamePart(string(rules.NameLetter.NamePart))
		}
	}
	return con
}

// Combine overlays the rolled clauses onto the static ones: spun fields come
// from rolled, everything else from static. A nil rolled constraint leaves
// spun fields unrestricted until the roll lands.
func Combine(rules draft.RuleSet, rolled *draft.Constraint, static draft.Constraint) draft.Constraint {
	out := static.Clone()
	if rolled == nil {
		return out
	}
	r := rolled.Clone()
	if rules.Spins(draft.FieldYear) {
		out.YearLabel, out.YearStart, out.YearEnd, out.Windows = r.YearLabel, r.YearStart, r.YearEnd, r.Windows
	}
	if rules.Spins(draft.FieldTeam) {
		out.Segments = r.Segments
	}
	if rules.Spins(draft.FieldNameLetter) {
		out.NameLetter, out.NamePart = r.NameLetter, r.NamePart
	}
	return out
}

// staticYears turns a fixed year rule into a window. Several decades keep
// their own windows, with the overall span in start and end.
func staticYears(yc draft.YearConstraint) (string, *int, *int, []draft.YearWindow) {
	switch yc.Type {
	case draft.YearRange:
		if yc.Start == nil || yc.End == nil {
			return "", nil, nil, nil
		}
		s, e := *yc.Start, *yc.End
		return draft.YearLabel(s, e), &s, &e, nil
	case draft.YearDecade:
		var labels []string
		var windows []draft.YearWindow
		for _, opt := range yc.Options {
			s, e, err := draft.ParseYearLabel(opt)
			if err != nil {
				continue
			}
			labels = append(labels, opt)
			windows = append(windows, draft.YearWindow{Start: s, End: e})
		}
		if len(windows) == 0 {
			return "", nil, nil, nil
		}
		lo, hi := windows[0].Start, windows[0].End
		for _, w := range windows[1:] {
			lo, hi = min(lo, w.Start), max(hi, w.End)
		}
		if len(windows) == 1 {
			windows = nil
		}
		return strings.Join(labels, ", "), &lo, &hi, windows
	}
	return "", nil, nil, nil
}

func staticTeamIDs(tc draft.TeamConstraint, teams []draft.Team, windows []draft.YearWindow) []int {
	if tc.Type == draft.TeamAny || tc.Type == "" || len(tc.Options) == 0 {
		return nil
	}
	var ids []int
	for _, t := range teams {
		var field string
		switch tc.Type {
		case draft.TeamConference:
			field = t.Conference
		case draft.TeamDivision:
			field = t.Division
		case draft.TeamSpecific:
			field = t.Abbreviation
		default:
			continue
		}
		if !slices.Contains(tc.Options, field) {
			continue
		}
		if len(windows) > 0 && !slices.ContainsFunc(windows, func(w draft.YearWindow) bool { return t.ActiveIn(w.Start, w.End) }) {
			continue
		}
		ids = append(ids, t.ID)
	}
	return ids
}

func letterSet(options []string) string {
	var b strings.Builder
	for _, o := range options {
		o = strings.ToUpper(strings.TrimSpace(o))
		if len([]rune(o)) != 1 || strings.Contains(b.String(), o) {
			continue
		}
		b.WriteString(o)
	}
	return b.String()
}
