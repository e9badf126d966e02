package turn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DoyleJ11/hoops-draft-client/internal/channel"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/eligibility"
	"github.com/DoyleJ11/hoops-draft-client/internal/reconcile"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

func intp(v int) *int { return &v }

func spinRules(rerolls int) draft.RuleSet {
	return draft.RuleSet{
		Spin:    []draft.Field{draft.FieldYear, draft.FieldTeam},
		Rerolls: draft.RerollPolicy{Allowed: rerolls > 0, Max: rerolls},
	}
}

// networked builds a drafting view for the local host with the given turn.
func networked(rules draft.RuleSet, turn draft.Role) reconcile.View {
	st := channel.Disabled(draft.RoleHost, true)
	st.Conn = channel.ConnOpen
	st.Status = draft.StatusDrafting
	st.FirstTurn = draft.RoleHost
	st.CurrentTurn = turn
	return reconcile.View{
		Mode:      reconcile.ModeNetworked,
		LocalRole: draft.RoleHost,
		Session:   draft.SessionDescriptor{HostID: "h", PicksPerPlayer: 2, Rules: rules},
		State:     st,
	}
}

func rolled(v reconcile.View) reconcile.View {
	c := draft.Constraint{YearLabel: "2000-2009", YearStart: intp(2000), YearEnd: intp(2009), AllowActive: true, AllowRetired: true}
	v.State.Constraint = &c
	v.Constraint = &c
	return v
}

func TestCanAct(t *testing.T) {
	assert.True(t, CanAct(networked(draft.RuleSet{}, draft.RoleHost)))
	assert.False(t, CanAct(networked(draft.RuleSet{}, draft.RoleGuest)))
	assert.False(t, CanAct(networked(draft.RuleSet{}, "")))

	local := networked(draft.RuleSet{}, draft.RoleGuest)
	local.Mode = reconcile.ModeLocal
	assert.True(t, CanAct(local))
	assert.Equal(t, draft.RoleGuest, ActingRole(local))
}

func TestRerollBudgetCountsDownToZero(t *testing.T) {
	v := rolled(networked(spinRules(3), draft.RoleHost))
	v.State = channel.Apply(v.State, types.ServerMessage{
		Type:       types.TypeLobbyReady,
		Started:    boolp(true),
		FirstTurn:  "host",
		Rerolls:    map[string]types.Rerolls{"host": {Remaining: 3, Max: 3}},
		Constraint: &types.Constraint{YearLabel: "2000-2009"},
	})
	assert.True(t, CanReroll(v))

	for remaining := 2; remaining >= 0; remaining-- {
		v.State = channel.Apply(v.State, types.ServerMessage{Type: types.TypeRerollsUpdated, Role: "host", Remaining: intp(remaining)})
		assert.Equal(t, remaining > 0, CanReroll(v), "remaining=%d", remaining)
	}
}

func TestCanReroll_Guards(t *testing.T) {
	base := rolled(networked(spinRules(2), draft.RoleHost))
	assert.True(t, CanReroll(base), "configured max applies before the server reports a budget")

	spinning := base
	spinning.State.Spinning = true
	assert.False(t, CanReroll(spinning))

	notRolled := networked(spinRules(2), draft.RoleHost)
	assert.False(t, CanReroll(notRolled))

	disallowed := rolled(networked(spinRules(0), draft.RoleHost))
	assert.False(t, CanReroll(disallowed))

	otherTurn := rolled(networked(spinRules(2), draft.RoleGuest))
	assert.False(t, CanReroll(otherTurn))
}

func TestCanRoll(t *testing.T) {
	v := networked(spinRules(0), draft.RoleHost)
	assert.True(t, CanRoll(v))
	assert.False(t, CanRoll(rolled(v)))

	noSpin := networked(draft.RuleSet{}, draft.RoleHost)
	assert.False(t, CanRoll(noSpin))
}

func TestCanConfirm(t *testing.T) {
	ready := rolled(networked(spinRules(0), draft.RoleHost))
	ready.OnlyEligible = true
	eligible := &Selection{Player: draft.Player{ID: 7}, Verdict: eligibility.Eligible}

	cases := []struct {
		name string
		view func(reconcile.View) reconcile.View
		sel  *Selection
		want bool
	}{
		{name: "ready", sel: eligible, want: true},
		{name: "nothing selected", sel: nil},
		{name: "not my turn", view: func(v reconcile.View) reconcile.View { v.State.CurrentTurn = draft.RoleGuest; return v }, sel: eligible},
		{name: "spinning", view: func(v reconcile.View) reconcile.View { v.State.Spinning = true; return v }, sel: eligible},
		{name: "not rolled", view: func(v reconcile.View) reconcile.View { v.Constraint = nil; return v }, sel: eligible},
		{name: "lobby", view: func(v reconcile.View) reconcile.View { v.State.Status = draft.StatusOpen; return v }, sel: eligible},
		{
			name: "already picked",
			view: func(v reconcile.View) reconcile.View {
				v.State.Picks = []draft.Pick{{Number: 1, Role: draft.RoleGuest, PlayerID: 7}}
				return v
			},
			sel: eligible,
		},
		{name: "pending detail", sel: &Selection{Player: draft.Player{ID: 7}, Verdict: eligibility.Pending}},
		{name: "ineligible", sel: &Selection{Player: draft.Player{ID: 7}, Verdict: eligibility.Ineligible}},
		{
			name: "ineligible without enforcement",
			view: func(v reconcile.View) reconcile.View { v.OnlyEligible = false; return v },
			sel:  &Selection{Player: draft.Player{ID: 7}, Verdict: eligibility.Ineligible},
			want: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ready
			if tc.view != nil {
				v = tc.view(v)
			}
			assert.Equal(t, tc.want, CanConfirm(v, tc.sel))
		})
	}
}

func TestIsComplete(t *testing.T) {
	v := networked(draft.RuleSet{}, draft.RoleGuest)
	assert.False(t, IsComplete(v))

	v.State.Picks = []draft.Pick{
		{Number: 1, Role: draft.RoleHost}, {Number: 2, Role: draft.RoleGuest},
		{Number: 3, Role: draft.RoleGuest}, {Number: 4, Role: draft.RoleHost},
	}
	assert.True(t, IsComplete(v), "both roles reached picks per player")

	a := Evaluate(rolled(v), &Selection{Player: draft.Player{ID: 9}, Verdict: eligibility.Eligible})
	assert.True(t, a.Complete)
	assert.False(t, a.CanAct)
	assert.False(t, a.CanConfirm)
	assert.False(t, a.CanReroll)
	assert.False(t, a.Attention)

	status := networked(draft.RuleSet{}, draft.RoleHost)
	status.State.Status = draft.StatusCompleted
	assert.True(t, IsComplete(status))
}

func TestCanStart(t *testing.T) {
	v := networked(draft.RuleSet{}, "")
	v.State.Status = draft.StatusOpen
	v.State.FirstTurn = ""
	assert.True(t, CanStart(v))

	v.LocalRole = draft.RoleGuest
	assert.False(t, CanStart(v))

	v.Mode = reconcile.ModeLocal
	assert.True(t, CanStart(v))
}

func TestEvaluate_Attention(t *testing.T) {
	mine := Evaluate(networked(spinRules(0), draft.RoleHost), nil)
	assert.True(t, mine.Attention)
	assert.True(t, mine.CanRoll)

	theirs := Evaluate(networked(spinRules(0), draft.RoleGuest), nil)
	assert.False(t, theirs.Attention)
	assert.False(t, theirs.CanRoll)
}

func boolp(v bool) *bool { return &v }

func TestRollErrorLetsTheRollerTryAgain(t *testing.T) {
	v := networked(spinRules(0), draft.RoleHost)
	for _, m := range []types.ServerMessage{
		{Type: types.TypeRollStarted, Stage: types.StageDecade, ByRole: "host"},
		{Type: types.TypeRollStarted, Stage: types.StageTeam, ByRole: "host", DecadeLabel: "2000-2009"},
		{Type: types.TypeRollError, Message: "No teams available"},
	} {
		v.State = channel.Apply(v.State, m)
	}
	v.Constraint = v.State.Constraint

	sel := &Selection{Player: draft.Player{ID: 7}, Verdict: eligibility.Eligible}
	assert.True(t, CanRoll(v))
	assert.False(t, CanConfirm(v, sel))
}
