package eligibility

import (
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/lineage"
)

// ExpandSegments widens each team to its whole franchise, keeping only the
// franchise members that were active in the window (the requested team is
// always kept), and returns one segment per member grouped by franchise.
func ExpandSegments(idx lineage.Index, ids []int, start, end *int) []draft.Segment {
	var members []int
	seen := map[int]bool{}
	add := func(id int) {
		if !seen[id] {
			seen[id] = true
			members = append(members, id)
		}
	}

	for _, id := range ids {
		for _, t := range idx.Franchise(id) {
			if t.ID != id && start != nil && end != nil && !t.ActiveIn(*start, *end) {
				continue
			}
			add(t.ID)
		}
		add(id)
	}

	var out []draft.Segment
	for _, g := range idx.Coalesce(members) {
		for _, m := range g.Members {
			out = append(out, draft.Segment{Team: m.Team, Years: m.Years})
		}
	}
	return out
}

// Expand returns con with its team segments widened to their franchises
// using the given team records. Segment teams missing from teams are
// indexed as given.
func Expand(teams []draft.Team, con draft.Constraint) draft.Constraint {
	if len(con.Segments) == 0 {
		return con
	}
	idx := lineage.NewIndex(teams)
	for _, s := range con.Segments {
		if _, ok := idx[s.Team.ID]; !ok {
			idx[s.Team.ID] = s.Team
		}
	}
	out := con.Clone()
	out.Segments = ExpandSegments(idx, con.TeamIDs(), con.YearStart, con.YearEnd)
	return out
}
