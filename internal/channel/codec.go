package channel

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

var known = map[string]bool{
	types.TypeLobbyReady:          true,
	types.TypeLobbyUpdate:         true,
	types.TypeDraftStarted:        true,
	types.TypePickMade:            true,
	types.TypeRollStarted:         true,
	types.TypeRollStageResult:     true,
	types.TypeRollResult:          true,
	types.TypeRollError:           true,
	types.TypeRerollsUpdated:      true,
	types.TypeOnlyEligibleUpdated: true,
	types.TypeDraftRenamed:        true,
	types.TypeSelectionUpdated:    true,
	types.TypeError:               true,
}

// Decode parses one inbound frame. Unknown types are rejected like
// malformed JSON.
func Decode(data []byte) (types.ServerMessage, error) {
	var m types.ServerMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return types.ServerMessage{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !known[m.Type] {
		return types.ServerMessage{}, fmt.Errorf("%w: unknown type %q", ErrDecode, m.Type)
	}
	return m, nil
}

func parseRoles(raw []string) []draft.Role {
	var out []draft.Role
	for _, r := range draft.Roles {
		if slices.Contains(raw, string(r)) {
			out = append(out, r)
		}
	}
	return out
}

func parseRole(raw string) draft.Role {
	r, err := draft.ParseRole(strings.ToLower(raw))
	if err != nil {
		return ""
	}
	return r
}

func parseStage(raw string) draft.Field {
	switch raw {
	case types.StageDecade, types.StageYear:
		return draft.FieldYear
	case types.StageTeam:
		return draft.FieldTeam
	case types.StageNameLetter:
		return draft.FieldNameLetter
	}
	return ""
}

func toPick(p types.Pick) (draft.Pick, bool) {
	role := parseRole(p.Role)
	if p.PickNumber < 1 || role == "" {
		return draft.Pick{}, false
	}
	return draft.Pick{
		Number:           p.PickNumber,
		Role:             role,
		PlayerID:         p.PlayerID,
		PlayerName:       p.PlayerName,
		PlayerImageURL:   p.PlayerImageURL,
		ConstraintTeam:   p.ConstraintTeam,
		ConstraintYear:   p.ConstraintYear,
		ConstraintLetter: p.ConstraintLetter,
	}, true
}

// mergePicks adds incoming picks to existing, keeping the first pick seen
// for each number, and returns them ordered by number.
func mergePicks(existing []draft.Pick, incoming ...draft.Pick) []draft.Pick {
	seen := make(map[int]bool, len(existing)+len(incoming))
	out := make([]draft.Pick, 0, len(existing)+len(incoming))
	for _, p := range append(slices.Clone(existing), incoming...) {
		if seen[p.Number] {
			continue
		}
		seen[p.Number] = true
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b draft.Pick) int { return a.Number - b.Number })
	return out
}

func toTeam(t types.Team) draft.Team {
	return draft.Team{
		ID:             t.ID,
		Name:           t.Name,
		Abbreviation:   t.Abbreviation,
		LogoURL:        t.LogoURL,
		PreviousTeamID: t.PreviousTeamID,
		FoundedYear:    t.FoundedYear,
		DissolvedYear:  t.DissolvedYear,
	}
}

func toConstraint(c types.Constraint) draft.Constraint {
	out := draft.Constraint{
		YearLabel:    c.YearLabel,
		YearStart:    c.YearStart,
		YearEnd:      c.YearEnd,
		NameLetter:   c.NameLetter,
		AllowActive:  c.AllowActive == nil || *c.AllowActive,
		AllowRetired: c.AllowRetired == nil || *c.AllowRetired,
	}
	if out.YearLabel == "" && out.YearStart == nil && out.YearEnd == nil {
		out.YearLabel, out.YearStart, out.YearEnd = c.DecadeLabel, c.DecadeStart, c.DecadeEnd
	}
	if c.NameLetter != "" {
		out.NamePart = draft.ParseNamePart(c.NamePart)
	}
	if out.YearLabel != "" && (out.YearStart == nil || out.YearEnd == nil) {
		if s, e, err := draft.ParseYearLabel(out.YearLabel); err == nil {
			out.YearStart, out.YearEnd = &s, &e
		}
	}
	for _, t := range c.Teams {
		out.Segments = append(out.Segments, draft.Segment{Team: toTeam(t), Years: t.Years})
	}
	if len(c.Teams) == 0 && c.Team != nil {
		out.Segments = []draft.Segment{{Team: toTeam(*c.Team)}}
	}
	return out.Clone()
}

// rolledConstraint reads the constraint of a roll message, which either
// nests it or flattens the rolled decade and team onto the message.
func rolledConstraint(m types.ServerMessage) (draft.Constraint, bool) {
	if m.Constraint != nil {
		return toConstraint(*m.Constraint), true
	}
	if m.DecadeLabel == "" && m.Team == nil {
		return draft.Constraint{}, false
	}
	c := types.Constraint{YearLabel: m.DecadeLabel, YearStart: m.DecadeStart, YearEnd: m.DecadeEnd}
	if m.Team != nil {
		c.Teams = []types.Team{*m.Team}
	}
	return toConstraint(c), true
}

// WireConstraint is the inverse of the decoding applied to inbound constraints.
func WireConstraint(c draft.Constraint) types.Constraint {
	active, retired := c.AllowActive, c.AllowRetired
	out := types.Constraint{
		YearLabel:    c.YearLabel,
		YearStart:    c.YearStart,
		YearEnd:      c.YearEnd,
		NameLetter:   c.NameLetter,
		NamePart:     string(c.NamePart),
		AllowActive:  &active,
		AllowRetired: &retired,
	}
	for _, s := range c.Segments {
		out.Teams = append(out.Teams, types.Team{
			ID:             s.Team.ID,
			Name:           s.Team.Name,
			Abbreviation:   s.Team.Abbreviation,
			LogoURL:        s.Team.LogoURL,
			PreviousTeamID: s.Team.PreviousTeamID,
			FoundedYear:    s.Team.FoundedYear,
			DissolvedYear:  s.Team.DissolvedYear,
			Years:          s.Years,
		})
	}
	return out
}
