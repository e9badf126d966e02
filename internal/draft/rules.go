package draft

import "slices"

const (
	YearAny    = "any"
	YearDecade = "decade"
	YearRange  = "range"

	TeamAny        = "any"
	TeamConference = "conference"
	TeamDivision   = "division"
	TeamSpecific   = "specific"

	LetterAny      = "any"
	LetterSpecific = "specific"
)

type YearConstraint struct {
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Start   *int     `json:"start,omitempty"`
	End     *int     `json:"end,omitempty"`
}

type TeamConstraint struct {
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

type LetterConstraint struct {
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	NamePart NamePart `json:"name_part,omitempty"`
}

type RerollPolicy struct {
	Allowed bool `json:"allowed"`
	Max     int  `json:"max"`
}

// RuleSet is the draft-type configuration. It is created by the CRUD layer
// and never changes once a draft is in progress. Pointer flags default to
// true when absent.
type RuleSet struct {
	Spin         []Field          `json:"spin_fields,omitempty"`
	Year         YearConstraint   `json:"year_constraint"`
	Team         TeamConstraint   `json:"team_constraint"`
	NameLetter   LetterConstraint `json:"name_letter_constraint"`
	AllowActive  *bool            `json:"allow_active,omitempty"`
	AllowRetired *bool            `json:"allow_retired,omitempty"`
	Rerolls      RerollPolicy     `json:"rerolls"`
	SnakeOrder   *bool            `json:"snake_order,omitempty"`
	Suggest      *bool            `json:"suggest,omitempty"`
}

func (r RuleSet) Spins(f Field) bool { return slices.Contains(r.Spin, f) }

func (r RuleSet) HasSpin() bool { return len(r.Spin) > 0 }

func (r RuleSet) ActiveAllowed() bool { return boolOr(r.AllowActive, true) }

func (r RuleSet) RetiredAllowed() bool { return boolOr(r.AllowRetired, true) }

func (r RuleSet) Snake() bool { return boolOr(r.SnakeOrder, true) }

func (r RuleSet) SuggestEligible() bool { return boolOr(r.Suggest, true) }

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
