package eligibility

import "github.com/DoyleJ11/hoops-draft-client/internal/draft"

type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warnings reports rule-set problems that are data-entry mistakes upstream.
// They never block the draft; affordances simply stay disabled.
func Warnings(rules draft.RuleSet) []Warning {
	var out []Warning
	if !rules.ActiveAllowed() && !rules.RetiredAllowed() {
		out = append(out, Warning{
			Code:    "no_status_allowed",
			Message: "rule set allows neither active nor retired players; nothing is eligible",
		})
	}
	if rules.Rerolls.Allowed && rules.Rerolls.Max <= 0 {
		out = append(out, Warning{
			Code:    "reroll_without_budget",
			Message: "rerolls are allowed but the maximum is zero",
		})
	}
	if rules.Spins(draft.FieldNameLetter) && rules.NameLetter.Type == draft.LetterSpecific && len(rules.NameLetter.Options) == 0 {
		out = append(out, Warning{
			Code:    "empty_letter_pool",
			Message: "name letter is spun from an empty letter set",
		})
	}
	if rules.Year.Type == draft.YearRange && (rules.Year.Start == nil || rules.Year.End == nil || *rules.Year.End < *rules.Year.Start) {
		out = append(out, Warning{
			Code:    "invalid_year_range",
			Message: "year range is incomplete or reversed",
		})
	}
	return out
}
