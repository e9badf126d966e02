// Package eligibility decides whether a player may be picked under the
// constraint active for the current turn.
package eligibility

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

type Verdict int

const (
	// Pending means the verdict depends on player detail that is not
	// available yet. Callers re-evaluate once the detail arrives.
	Pending Verdict = iota
	Eligible
	Ineligible
)

func (v Verdict) String() string {
	switch v {
	case Eligible:
		return "eligible"
	case Ineligible:
		return "ineligible"
	default:
		return "pending"
	}
}

type Reason string

const (
	ReasonNone              Reason = ""
	ReasonAlreadyPicked     Reason = "already_picked"
	ReasonNoStatusAllowed   Reason = "no_status_allowed"
	ReasonNameLetter        Reason = "name_letter"
	ReasonActiveDisallowed  Reason = "active_disallowed"
	ReasonRetiredDisallowed Reason = "retired_disallowed"
	ReasonTeam              Reason = "team"
	ReasonYear              Reason = "year"
	ReasonDetailMissing     Reason = "detail_missing"
)

type Result struct {
	Verdict Verdict
	Reason  Reason
	Err     error
}

type Candidate struct {
	Player draft.Player
	// Detail is nil when the player's stints and retirement year are not cached.
	Detail *draft.PlayerDetail
}

type PickedSet map[int]bool

func Picked(picks []draft.Pick) PickedSet {
	set := make(PickedSet, len(picks))
	for _, p := range picks {
		set[p.PlayerID] = true
	}
	return set
}

// Casers are stateful, so each call gets its own.
func toUpper(s string) string { return cases.Upper(language.Und).String(s) }

// Evaluate is pure: the same candidate, constraint, picks and year always
// yield the same result. currentYear closes open-ended stints of active players.
func Evaluate(c Candidate, con draft.Constraint, picked PickedSet, currentYear int) Result {
	if picked[c.Player.ID] {
		return Result{Verdict: Ineligible, Reason: ReasonAlreadyPicked}
	}
	if !con.AllowActive && !con.AllowRetired {
		return Result{Verdict: Ineligible, Reason: ReasonNoStatusAllowed}
	}
	if con.NameLetter != "" {
		name := c.Player.Name
		if name == "" && c.Detail != nil {
			name = c.Detail.Name
		}
		if name == "" {
			return Result{Verdict: Pending, Reason: ReasonDetailMissing}
		}
		if !NameMatches(name, con.NameLetter, con.NamePart) {
			return Result{Verdict: Ineligible, Reason: ReasonNameLetter}
		}
	}

	if !needsDetail(con) {
		return Result{Verdict: Eligible}
	}
	if c.Detail == nil {
		return Result{Verdict: Pending, Reason: ReasonDetailMissing}
	}
	d := c.Detail

	if !con.AllowActive && !d.Retired() {
		return Result{Verdict: Ineligible, Reason: ReasonActiveDisallowed}
	}
	if !con.AllowRetired && d.Retired() {
		return Result{Verdict: Ineligible, Reason: ReasonRetiredDisallowed}
	}

	if len(con.Segments) > 0 {
		teams := make(map[int]bool, len(con.Segments))
		for _, s := range con.Segments {
			teams[s.Team.ID] = true
		}
		for _, st := range d.Stints {
			if !teams[st.TeamID] {
				continue
			}
			if inWindows(st, d, con, currentYear) {
				return Result{Verdict: Eligible}
			}
		}
		return Result{Verdict: Ineligible, Reason: ReasonTeam}
	}

	if con.HasYearWindow() {
		for _, st := range d.Stints {
			if inWindows(st, d, con, currentYear) {
				return Result{Verdict: Eligible}
			}
		}
		return Result{Verdict: Ineligible, Reason: ReasonYear}
	}
	return Result{Verdict: Eligible}
}

func needsDetail(con draft.Constraint) bool {
	return len(con.Segments) > 0 || con.HasYearWindow() || con.AllowActive != con.AllowRetired
}

// inWindows reports whether a stint overlaps any of the constraint's year
// windows. No windows means any stint qualifies.
func inWindows(st draft.Stint, d *draft.PlayerDetail, con draft.Constraint, currentYear int) bool {
	windows := con.YearWindows()
	if len(windows) == 0 {
		return true
	}
	for _, w := range windows {
		if intersects(st, d, w.Start, w.End, currentYear) {
			return true
		}
	}
	return false
}

// intersects reports whether a stint overlaps [start, end]. A stint with no
// end year runs until the player's retirement, or to the present.
func intersects(st draft.Stint, d *draft.PlayerDetail, start, end, currentYear int) bool {
	effEnd := currentYear
	switch {
	case st.EndYear != nil:
		effEnd = *st.EndYear
	case d.RetirementYear != nil:
		effEnd = *d.RetirementYear
	}
	return st.StartYear <= end && effEnd >= start
}

// NameMatches compares the initial of the first or second word of name
// against letters, which may hold one or more allowed initials.
func NameMatches(name, letters string, part draft.NamePart) bool {
	allowed := toUpper(norm.NFC.String(letters))
	if strings.TrimSpace(allowed) == "" {
		return true
	}
	fields := strings.Fields(norm.NFC.String(name))
	var first, last string
	if len(fields) > 0 {
		first = initial(fields[0])
	}
	if len(fields) > 1 {
		last = initial(fields[1])
	}
	hit := func(s string) bool { return s != "" && strings.Contains(allowed, s) }

	switch part {
	case draft.NamePartLast:
		return hit(last)
	case draft.NamePartEither:
		return hit(first) || hit(last)
	default:
		return hit(first)
	}
}

func initial(word string) string {
	for _, r := range word {
		return toUpper(string(r))
	}
	return ""
}
