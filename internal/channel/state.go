// Package channel keeps one role's live connection to a draft session and
// folds the server's pushes into a State snapshot.
package channel

import (
	"errors"
	"maps"
	"slices"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

var ErrChannelClosed = errors.New("channel is not open")
var ErrClientClosed = errors.New("client is shut down")
var ErrDecode = errors.New("malformed server message")

type ConnStatus string

const (
	ConnDisabled   ConnStatus = "disabled"
	ConnConnecting ConnStatus = "connecting"
	ConnOpen       ConnStatus = "open"
	ConnClosed     ConnStatus = "closed"
)

type ErrorKind string

const (
	ErrorConnection ErrorKind = "connection"
	ErrorProtocol   ErrorKind = "protocol"
	ErrorRoll       ErrorKind = "roll"
)

type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// State is what one channel instance knows about the session. Values
// published by a Client are never mutated afterwards.
type State struct {
	Role  draft.Role `json:"role"`
	Snake bool       `json:"snake"`

	Conn        ConnStatus   `json:"conn"`
	Connected   []draft.Role `json:"connected"`
	Status      draft.Status `json:"status"`
	FirstTurn   draft.Role   `json:"first_turn,omitempty"`
	CurrentTurn draft.Role   `json:"current_turn,omitempty"`
	Picks       []draft.Pick `json:"picks"`

	Constraint *draft.Constraint `json:"constraint,omitempty"`
	Spinning   bool              `json:"spinning"`
	Stage      draft.Field       `json:"stage,omitempty"`
	RolledBy   draft.Role        `json:"rolled_by,omitempty"`
	// preRoll is the constraint held when the current roll started, put
	// back if the roll fails.
	preRoll *draft.Constraint

	Pending      map[draft.Role]draft.PendingSelection `json:"pending,omitempty"`
	Rerolls      map[draft.Role]draft.RerollBudget     `json:"rerolls,omitempty"`
	DraftName    string                                `json:"draft_name,omitempty"`
	OnlyEligible *bool                                 `json:"only_eligible,omitempty"`

	LastError *Error `json:"last_error,omitempty"`
}

// Disabled is the empty state of an instance that is switched off.
func Disabled(role draft.Role, snake bool) State {
	return State{Role: role, Snake: snake, Conn: ConnDisabled, Status: draft.StatusOpen}
}

// Observed reports whether the instance has seen the draft begin, either
// through a turn assignment or through picks.
func (s State) Observed() bool { return s.FirstTurn != "" || len(s.Picks) > 0 }

func (s State) IsConnected(r draft.Role) bool { return slices.Contains(s.Connected, r) }

func (s State) PickedIDs() map[int]bool {
	ids := make(map[int]bool, len(s.Picks))
	for _, p := range s.Picks {
		ids[p.PlayerID] = true
	}
	return ids
}

func (s State) Budget(r draft.Role) (draft.RerollBudget, bool) {
	b, ok := s.Rerolls[r]
	return b, ok
}

// clone copies everything Apply may modify.
func (s State) clone() State {
	out := s
	out.Connected = slices.Clone(s.Connected)
	out.Picks = slices.Clone(s.Picks)
	if s.Constraint != nil {
		c := s.Constraint.Clone()
		out.Constraint = &c
	}
	if s.preRoll != nil {
		c := s.preRoll.Clone()
		out.preRoll = &c
	}
	out.Pending = maps.Clone(s.Pending)
	out.Rerolls = maps.Clone(s.Rerolls)
	if s.OnlyEligible != nil {
		v := *s.OnlyEligible
		out.OnlyEligible = &v
	}
	if s.LastError != nil {
		e := *s.LastError
		out.LastError = &e
	}
	return out
}
