// Package lineage groups renamed and relocated teams into franchises by
// following previous-team links.
package lineage

import (
	"fmt"
	"sort"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

type Index map[int]draft.Team

func NewIndex(teams []draft.Team) Index {
	idx := make(Index, len(teams))
	for _, t := range teams {
		idx[t.ID] = t
	}
	return idx
}

// Root returns the id of the oldest known ancestor of id. The walk stops at
// a team with no previous link, at a link to a team that is not indexed, or
// at a link that would revisit a team already seen.
func (idx Index) Root(id int) int {
	visited := map[int]bool{}
	cur := id
	for {
		visited[cur] = true
		t, ok := idx[cur]
		if !ok || t.PreviousTeamID == nil {
			return cur
		}
		prev := *t.PreviousTeamID
		if visited[prev] {
			return cur
		}
		if _, ok := idx[prev]; !ok {
			return cur
		}
		cur = prev
	}
}

// Chain returns the ancestry of id ordered oldest first, ending at id.
func (idx Index) Chain(id int) []draft.Team {
	var rev []draft.Team
	visited := map[int]bool{}
	cur := id
	for {
		t, ok := idx[cur]
		if !ok || visited[cur] {
			break
		}
		visited[cur] = true
		rev = append(rev, t)
		if t.PreviousTeamID == nil {
			break
		}
		cur = *t.PreviousTeamID
	}
	out := make([]draft.Team, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		out = append(out, rev[i])
	}
	return out
}

// Franchise returns every indexed team sharing a root with id, oldest first.
func (idx Index) Franchise(id int) []draft.Team {
	root := idx.Root(id)
	var out []draft.Team
	for tid, t := range idx {
		if idx.Root(tid) == root {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		if t, ok := idx[id]; ok {
			out = append(out, t)
		}
	}
	sortChronological(out)
	return out
}

type Member struct {
	Team  draft.Team
	Years string
}

type Group struct {
	RootID  int
	Members []Member
}

// Coalesce clusters the given team ids by franchise, keeping the order in
// which franchises first appear. Members of a multi-team group carry their
// own active span for sub-labels; single-team groups leave it blank.
func (idx Index) Coalesce(ids []int) []Group {
	var groups []Group
	pos := map[int]int{}
	seen := map[int]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		t, ok := idx[id]
		if !ok {
			t = draft.Team{ID: id}
		}
		root := idx.Root(id)
		i, ok := pos[root]
		if !ok {
			i = len(groups)
			pos[root] = i
			groups = append(groups, Group{RootID: root})
		}
		groups[i].Members = append(groups[i].Members, Member{Team: t})
	}

	for gi := range groups {
		members := groups[gi].Members
		sort.SliceStable(members, func(a, b int) bool {
			return lessChronological(members[a].Team, members[b].Team)
		})
		if len(members) > 1 {
			for mi := range members {
				members[mi].Years = YearSpan(members[mi].Team)
			}
		}
	}
	return groups
}

// YearSpan renders a team's active years, e.g. "1967-2008" or "2008-present".
func YearSpan(t draft.Team) string {
	from := "?"
	if t.FoundedYear != nil {
		from = fmt.Sprint(*t.FoundedYear)
	}
	to := "present"
	if t.DissolvedYear != nil {
		to = fmt.Sprint(*t.DissolvedYear)
	}
	return from + "-" + to
}

func sortChronological(teams []draft.Team) {
	sort.SliceStable(teams, func(a, b int) bool { return lessChronological(teams[a], teams[b]) })
}

func lessChronological(a, b draft.Team) bool {
	ay, by := yearOrMax(a.FoundedYear), yearOrMax(b.FoundedYear)
	if ay != by {
		return ay < by
	}
	return a.ID < b.ID
}

func yearOrMax(y *int) int {
	if y == nil {
		return 1 << 30
	}
	return *y
}
