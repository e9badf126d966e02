package spin

import (
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

var alphabet = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
}

// Pool lists the preview values for a roll stage. teams should be the
// teams active in the window rolled so far.
func Pool(stage draft.Field, rules draft.RuleSet, teams []draft.Team) []string {
	switch stage {
	case draft.FieldYear:
		if rules.Year.Type == draft.YearDecade && len(rules.Year.Options) > 0 {
			return append([]string(nil), rules.Year.Options...)
		}
		return append([]string(nil), draft.DecadeLabels...)
	case draft.FieldTeam:
		out := make([]string, 0, len(teams))
		for _, t := range teams {
			if t.Abbreviation != "" {
				out = append(out, t.Abbreviation)
			} else {
				out = append(out, t.Name)
			}
		}
		return out
	case draft.FieldNameLetter:
		if rules.NameLetter.Type == draft.LetterSpecific && len(rules.NameLetter.Options) > 0 {
			return append([]string(nil), rules.NameLetter.Options...)
		}
		return append([]string(nil), alphabet...)
	}
	return nil
}
