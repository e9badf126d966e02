package eligibility

import (
	"github.com/DoyleJ11/hoops-draft-client/internal/backend"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

const DefaultSearchLimit = 50

// SearchQuery builds the player search for a text query. With onlyEligible
// set, the constraint's clauses are pushed down to the server. The bool is
// false when the constraint admits no player at all and the search should
// not be issued.
func SearchQuery(q string, con draft.Constraint, onlyEligible bool) (backend.PlayerQuery, bool) {
	query := backend.PlayerQuery{Q: q, Limit: DefaultSearchLimit}
	if !onlyEligible {
		return query, true
	}
	if !con.AllowActive && !con.AllowRetired {
		return query, false
	}

	query.StintTeamIDs = con.TeamIDs()
	// The search takes one stint window; several windows are left to Evaluate.
	if w := con.YearWindows(); len(w) == 1 {
		s, e := w[0].Start, w[0].End
		query.StintStartYear, query.StintEndYear = &s, &e
	}
	if con.NameLetter != "" {
		for _, r := range con.NameLetter {
			query.NameLetters = append(query.NameLetters, string(r))
		}
		query.NamePart = con.NamePart
		if query.NamePart == "" {
			query.NamePart = draft.NamePartFirst
		}
	}
	switch {
	case con.AllowActive && !con.AllowRetired:
		query.Status = "active"
	case !con.AllowActive && con.AllowRetired:
		query.Status = "retired"
	}
	return query, true
}
