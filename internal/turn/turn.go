// Package turn derives what the local participant may do from the
// reconciled session view.
package turn

import (
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/eligibility"
	"github.com/DoyleJ11/hoops-draft-client/internal/reconcile"
)

// Selection is the player the local participant intends to pick, with the
// eligibility verdict computed for the current constraint.
type Selection struct {
	Player  draft.Player
	Verdict eligibility.Verdict
}

type Affordances struct {
	Acting     draft.Role `json:"acting_role,omitempty"`
	CanAct     bool       `json:"can_act"`
	CanStart   bool       `json:"can_start"`
	CanRoll    bool       `json:"can_roll"`
	CanReroll  bool       `json:"can_reroll"`
	CanConfirm bool       `json:"can_confirm"`
	Complete   bool       `json:"complete"`
	// Attention is set when it is the local participant's turn.
	Attention bool `json:"attention"`
}

// ActingRole is the role local commands act as: the local role when
// networked, the role on the clock in local mode.
func ActingRole(v reconcile.View) draft.Role {
	if v.Mode == reconcile.ModeNetworked {
		return v.LocalRole
	}
	return v.State.CurrentTurn
}

// IsComplete trusts the server's status, and also treats the draft as done
// once both roles have made their picks in case the status update raced
// the final pick.
func IsComplete(v reconcile.View) bool {
	if v.State.Status == draft.StatusCompleted {
		return true
	}
	n := v.Session.PicksPerPlayer
	if n <= 0 {
		return false
	}
	counts := draft.PickCounts(v.State.Picks)
	return counts[draft.RoleHost] >= n && counts[draft.RoleGuest] >= n
}

func drafting(v reconcile.View) bool {
	return v.State.Status == draft.StatusDrafting && !IsComplete(v)
}

func CanAct(v reconcile.View) bool {
	if v.Mode == reconcile.ModeLocal {
		return true
	}
	return v.State.CurrentTurn != "" && v.State.CurrentTurn == v.LocalRole
}

// CanStart is true for the host before the draft has begun.
func CanStart(v reconcile.View) bool {
	if v.State.Status != draft.StatusOpen || v.State.Observed() {
		return false
	}
	return v.Mode == reconcile.ModeLocal || v.LocalRole == draft.RoleHost
}

// CanRoll is true when the rule set spins and nothing has been rolled for
// this turn yet.
func CanRoll(v reconcile.View) bool {
	return drafting(v) && CanAct(v) && v.Session.Rules.HasSpin() &&
		!v.State.Spinning && v.State.Constraint == nil
}

// CanReroll requires a rolled constraint and a budget the server has not
// yet exhausted. Before the server reports a budget the configured maximum
// is assumed.
func CanReroll(v reconcile.View) bool {
	rules := v.Session.Rules
	if !rules.Rerolls.Allowed || !drafting(v) || !CanAct(v) || v.State.Spinning || v.State.Constraint == nil {
		return false
	}
	remaining := rules.Rerolls.Max
	if b, ok := v.State.Budget(ActingRole(v)); ok {
		remaining = b.Remaining
	}
	return remaining > 0
}

// CanConfirm reports whether sel may be submitted as the pick. With
// only-eligible enforcement on, the verdict must be Eligible; a Pending
// verdict keeps the action disabled until detail arrives.
func CanConfirm(v reconcile.View, sel *Selection) bool {
	if sel == nil || !drafting(v) || !CanAct(v) || v.State.Spinning {
		return false
	}
	if v.Session.Rules.HasSpin() && v.Constraint == nil {
		return false
	}
	if v.State.PickedIDs()[sel.Player.ID] {
		return false
	}
	if v.OnlyEligible && sel.Verdict != eligibility.Eligible {
		return false
	}
	return true
}

func Evaluate(v reconcile.View, sel *Selection) Affordances {
	complete := IsComplete(v)
	a := Affordances{
		Acting:   ActingRole(v),
		CanAct:   CanAct(v) && !complete,
		CanStart: CanStart(v),
		Complete: complete,
	}
	if complete {
		return a
	}
	a.CanRoll = CanRoll(v)
	a.CanReroll = CanReroll(v)
	a.CanConfirm = CanConfirm(v, sel)
	a.Attention = drafting(v) && v.Mode == reconcile.ModeNetworked && a.CanAct
	return a
}
