package channel

import (
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

// Apply folds one server message into s and returns the new state. s is
// not modified.
func Apply(s State, m types.ServerMessage) State {
	out := s.clone()

	switch m.Type {
	case types.TypeLobbyReady:
		applyLobbyReady(&out, m)

	case types.TypeLobbyUpdate:
		out.Connected = parseRoles(m.Connected)

	case types.TypeDraftStarted:
		first := parseRole(m.FirstTurn)
		if first == "" {
			return s
		}
		out.FirstTurn = first
		out.Status = draft.StatusDrafting
		out.CurrentTurn = nextTurn(out, "")

	case types.TypePickMade:
		p, ok := toPick(m.MadePick())
		if !ok {
			return s
		}
		for _, existing := range s.Picks {
			if existing.Number == p.Number {
				return s
			}
		}
		out.Picks = mergePicks(out.Picks, p)
		if out.Status == draft.StatusOpen {
			out.Status = draft.StatusDrafting
		}
		if out.FirstTurn == "" && p.Number == 1 {
			out.FirstTurn = p.Role
		}
		out.CurrentTurn = nextTurn(out, parseRole(m.NextTurn))
		delete(out.Pending, p.Role)
		out.Constraint, out.preRoll = nil, nil
		out.Spinning, out.Stage, out.RolledBy = false, "", ""

	case types.TypeRollStarted:
		if !out.Spinning {
			out.preRoll = out.Constraint
			out.Constraint = nil
		}
		if c, ok := rolledConstraint(m); ok {
			out.Constraint = &c
		}
		out.Spinning = true
		out.Stage = parseStage(m.Stage)
		out.RolledBy = parseRole(m.ByRole)

	case types.TypeRollStageResult:
		if c, ok := rolledConstraint(m); ok {
			out.Constraint = &c
		}

	case types.TypeRollResult:
		if c, ok := rolledConstraint(m); ok {
			out.Constraint = &c
		}
		out.Spinning, out.Stage, out.preRoll = false, "", nil

	case types.TypeRollError:
		// Fields resolved by the failed roll never became the turn's
		// constraint.
		if out.Spinning {
			out.Constraint, out.preRoll = out.preRoll, nil
		}
		out.Spinning, out.Stage = false, ""
		out.LastError = &Error{Kind: ErrorRoll, Message: m.Message}

	case types.TypeRerollsUpdated:
		applyRerolls(&out, m)

	case types.TypeOnlyEligibleUpdated:
		if m.Value == nil {
			return s
		}
		v := *m.Value
		out.OnlyEligible = &v

	case types.TypeDraftRenamed:
		out.DraftName = m.Name

	case types.TypeSelectionUpdated:
		role := parseRole(m.Role)
		if role == "" {
			return s
		}
		if m.Selection == nil {
			delete(out.Pending, role)
			break
		}
		if out.Pending == nil {
			out.Pending = map[draft.Role]draft.PendingSelection{}
		}
		out.Pending[role] = draft.PendingSelection{
			PlayerID:   m.Selection.PlayerID,
			PlayerName: m.Selection.PlayerName,
			ImageURL:   m.Selection.ImageURL,
		}

	case types.TypeError:
		out = s
		out.LastError = &Error{Kind: ErrorProtocol, Message: m.Message}

	default:
		return s
	}
	return out
}

// applyLobbyReady replaces the session snapshot wholesale. It is what the
// server sends on every (re)connect and after an undo.
func applyLobbyReady(out *State, m types.ServerMessage) {
	out.Connected = parseRoles(m.Connected)

	var picks []draft.Pick
	for _, wp := range m.Picks {
		if p, ok := toPick(wp); ok {
			picks = append(picks, p)
		}
	}
	out.Picks = mergePicks(nil, picks...)

	switch {
	case m.Status != "":
		out.Status = draft.ParseStatus(m.Status)
	case m.Started != nil && *m.Started:
		out.Status = draft.StatusDrafting
	default:
		out.Status = draft.StatusOpen
	}

	out.FirstTurn = parseRole(m.FirstTurn)
	if out.FirstTurn == "" && len(out.Picks) > 0 && out.Picks[0].Number == 1 {
		out.FirstTurn = out.Picks[0].Role
	}
	if out.FirstTurn != "" && out.Status == draft.StatusOpen {
		out.Status = draft.StatusDrafting
	}
	out.CurrentTurn = nextTurn(*out, parseRole(m.CurrentTurn))

	out.Constraint, out.preRoll = nil, nil
	if m.Constraint != nil {
		if c := toConstraint(*m.Constraint); !c.Unrestricted() {
			out.Constraint = &c
		}
	}
	out.Spinning, out.Stage, out.RolledBy = false, "", ""

	out.Pending = nil
	for raw, sel := range m.Selections {
		role := parseRole(raw)
		if role == "" {
			continue
		}
		if out.Pending == nil {
			out.Pending = map[draft.Role]draft.PendingSelection{}
		}
		out.Pending[role] = draft.PendingSelection{PlayerID: sel.PlayerID, PlayerName: sel.PlayerName, ImageURL: sel.ImageURL}
	}

	if m.Rerolls != nil {
		out.Rerolls = nil
		applyRerolls(out, m)
	}
	if m.DraftName != "" {
		out.DraftName = m.DraftName
	}
	if m.OnlyEligible != nil {
		v := *m.OnlyEligible
		out.OnlyEligible = &v
	}
}

func applyRerolls(out *State, m types.ServerMessage) {
	if out.Rerolls == nil {
		out.Rerolls = map[draft.Role]draft.RerollBudget{}
	}
	for raw, b := range m.Rerolls {
		if role := parseRole(raw); role != "" {
			out.Rerolls[role] = draft.RerollBudget{Remaining: b.Remaining, Max: b.Max}
		}
	}
	role := parseRole(m.Role)
	if role == "" || m.Remaining == nil {
		return
	}
	b := out.Rerolls[role]
	b.Remaining = *m.Remaining
	if m.Max != nil {
		b.Max = *m.Max
	}
	out.Rerolls[role] = b
}

// nextTurn prefers the server's answer and falls back to the pick order.
func nextTurn(s State, reported draft.Role) draft.Role {
	if reported != "" {
		return reported
	}
	if s.FirstTurn == "" {
		return ""
	}
	next := 1
	if n := len(s.Picks); n > 0 {
		next = s.Picks[n-1].Number + 1
	}
	return draft.ExpectedRole(s.FirstTurn, next, s.Snake)
}
