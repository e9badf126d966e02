package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/hoops-draft-client/internal/backend"
	"github.com/DoyleJ11/hoops-draft-client/internal/channel"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/eligibility"
	"github.com/DoyleJ11/hoops-draft-client/internal/reconcile"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

type mockSession struct {
	mock.Mock
	view reconcile.View
}

func (m *mockSession) View(ctx context.Context) (reconcile.View, error) { return m.view, nil }

func (m *mockSession) Send(ctx context.Context, cmd types.ClientMessage) error {
	return m.Called(cmd).Error(0)
}

type mockChecker struct{ mock.Mock }

func (m *mockChecker) Check(ctx context.Context, p draft.Player, con draft.Constraint, picked eligibility.PickedSet) eligibility.Result {
	return m.Called(p.ID).Get(0).(eligibility.Result)
}

type mockSearcher struct{ mock.Mock }

func (m *mockSearcher) SearchPlayers(ctx context.Context, q backend.PlayerQuery) ([]draft.Player, error) {
	args := m.Called(q)
	return args.Get(0).([]draft.Player), args.Error(1)
}

func intp(v int) *int { return &v }

func hostTurnView() reconcile.View {
	st := channel.Disabled(draft.RoleHost, true)
	st.Conn = channel.ConnOpen
	st.Status = draft.StatusDrafting
	st.FirstTurn = draft.RoleHost
	st.CurrentTurn = draft.RoleHost
	c := draft.Constraint{
		Segments:     []draft.Segment{{Team: draft.Team{ID: 2, Abbreviation: "BOS"}}},
		YearLabel:    "2008-2015",
		YearStart:    intp(2008),
		YearEnd:      intp(2015),
		AllowActive:  true,
		AllowRetired: true,
	}
	st.Constraint = &c
	return reconcile.View{
		Mode:         reconcile.ModeNetworked,
		LocalRole:    draft.RoleHost,
		Session:      draft.SessionDescriptor{PicksPerPlayer: 5, Rules: draft.RuleSet{Spin: []draft.Field{draft.FieldTeam}}},
		State:        st,
		Constraint:   &c,
		OnlyEligible: true,
	}
}

func post(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/commands", bytes.NewReader(data)))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	SetupRoutes(Deps{Session: &mockSession{}}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestState_EvaluatesPendingSelection(t *testing.T) {
	v := hostTurnView()
	v.State.Pending = map[draft.Role]draft.PendingSelection{draft.RoleHost: {PlayerID: 9, PlayerName: "Rajon Rondo"}}
	checker := &mockChecker{}
	checker.On("Check", 9).Return(eligibility.Result{Verdict: eligibility.Eligible})

	rec := httptest.NewRecorder()
	SetupRoutes(Deps{Session: &mockSession{view: v}, Checker: checker}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Affordances struct {
			CanConfirm bool `json:"can_confirm"`
			CanReroll  bool `json:"can_reroll"`
		} `json:"affordances"`
		Selection SelectionStatus `json:"selection"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Affordances.CanConfirm)
	assert.False(t, got.Affordances.CanReroll)
	assert.Equal(t, "eligible", got.Selection.Verdict)
	checker.AssertExpectations(t)
}

func TestCommands_MakePick(t *testing.T) {
	sess := &mockSession{view: hostTurnView()}
	checker := &mockChecker{}
	h := SetupRoutes(Deps{Session: sess, Checker: checker})

	checker.On("Check", 9).Return(eligibility.Result{Verdict: eligibility.Eligible})
	sess.On("Send", mock.MatchedBy(func(m types.ClientMessage) bool {
		return m.Type == types.TypeMakePick && *m.PlayerID == 9 && m.ConstraintTeam == "BOS" && m.ConstraintYear == "2008-2015"
	})).Return(nil)
	assert.Equal(t, http.StatusAccepted, post(t, h, CommandRequest{Type: "make_pick", PlayerID: intp(9)}).Code)

	checker.On("Check", 13).Return(eligibility.Result{Verdict: eligibility.Ineligible, Reason: eligibility.ReasonTeam})
	assert.Equal(t, http.StatusConflict, post(t, h, CommandRequest{Type: "make_pick", PlayerID: intp(13)}).Code)

	sess.AssertNumberOfCalls(t, "Send", 1)
}

func TestCommands_Validation(t *testing.T) {
	cases := []struct {
		name   string
		view   func(reconcile.View) reconcile.View
		req    CommandRequest
		status int
	}{
		{name: "unknown", req: CommandRequest{Type: "dance"}, status: http.StatusBadRequest},
		{name: "start after start", req: CommandRequest{Type: "start_draft"}, status: http.StatusConflict},
		{name: "roll when rolled and no rerolls", req: CommandRequest{Type: "roll"}, status: http.StatusConflict},
		{
			name:   "roll on a fresh turn",
			view:   func(v reconcile.View) reconcile.View { v.State.Constraint = nil; v.Constraint = nil; return v },
			req:    CommandRequest{Type: "roll"},
			status: http.StatusAccepted,
		},
		{
			name: "guest cannot undo",
			view: func(v reconcile.View) reconcile.View {
				v.LocalRole = draft.RoleGuest
				v.State.Picks = []draft.Pick{{Number: 1, Role: draft.RoleHost, PlayerID: 4}}
				return v
			},
			req:    CommandRequest{Type: "undo_pick"},
			status: http.StatusConflict,
		},
		{
			name: "host can undo",
			view: func(v reconcile.View) reconcile.View {
				v.State.Picks = []draft.Pick{{Number: 1, Role: draft.RoleHost, PlayerID: 4}}
				return v
			},
			req:    CommandRequest{Type: "undo_pick"},
			status: http.StatusAccepted,
		},
		{name: "rename", req: CommandRequest{Type: "rename_draft", Name: "Finals"}, status: http.StatusAccepted},
		{name: "toggle needs a value", req: CommandRequest{Type: "set_only_eligible"}, status: http.StatusConflict},
		{name: "preview", req: CommandRequest{Type: "preview_selection", PlayerID: intp(3)}, status: http.StatusAccepted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := hostTurnView()
			if tc.view != nil {
				v = tc.view(v)
			}
			sess := &mockSession{view: v}
			sess.On("Send", mock.Anything).Return(nil)
			rec := post(t, SetupRoutes(Deps{Session: sess}), tc.req)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestCommands_ChannelClosed(t *testing.T) {
	sess := &mockSession{view: hostTurnView()}
	sess.On("Send", mock.Anything).Return(channel.ErrChannelClosed)
	rec := post(t, SetupRoutes(Deps{Session: sess}), CommandRequest{Type: "rename_draft", Name: "x"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPlayers_PushesConstraintDown(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("SearchPlayers", mock.MatchedBy(func(q backend.PlayerQuery) bool {
		return q.Q == "ron" && len(q.StintTeamIDs) == 1 && q.StintTeamIDs[0] == 2 && *q.StintStartYear == 2008
	})).Return([]draft.Player{{ID: 9, Name: "Rajon Rondo"}}, nil)

	rec := httptest.NewRecorder()
	SetupRoutes(Deps{Session: &mockSession{view: hostTurnView()}, Searcher: searcher}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players?q=ron", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var players []draft.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &players))
	require.Len(t, players, 1)
	assert.Equal(t, "Rajon Rondo", players[0].Name)
	searcher.AssertExpectations(t)
}
