package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/backend"
	"github.com/DoyleJ11/hoops-draft-client/internal/channel"
	"github.com/DoyleJ11/hoops-draft-client/internal/channel/channeltest"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/spin"
	"github.com/DoyleJ11/hoops-draft-client/internal/testutil"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

const wait = time.Second

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

type harness struct {
	fake *testutil.FakeBackend
	tr   *channeltest.Transport
	cfg  Config
}

func newHarness(t *testing.T, me string, desc draft.SessionDescriptor) *harness {
	t.Helper()
	fake := testutil.NewFakeBackend()
	t.Cleanup(fake.Close)
	fake.SetIdentity(draft.Identity{ID: me})
	fake.PutDraft(desc)
	fake.SetTeams([]draft.Team{
		{ID: 1, Abbreviation: "SEA", FoundedYear: intp(1967), DissolvedYear: intp(2008)},
		{ID: 2, Abbreviation: "OKC", FoundedYear: intp(2008), PreviousTeamID: intp(1)},
		{ID: 3, Abbreviation: "BOS", FoundedYear: intp(1946)},
	})

	tr := channeltest.NewTransport()
	return &harness{
		fake: fake,
		tr:   tr,
		cfg: Config{
			Backend:   backend.New(fake.URL(), ""),
			Transport: tr,
			Reconnect: channel.FixedDelay(10 * time.Millisecond),
			Spin:      spin.NewScheduler(spin.NewRandom(1), time.Hour, 5),
			Logger:    zap.NewNop(),
		},
	}
}

func (h *harness) open(t *testing.T, ref string) *Session {
	t.Helper()
	s, err := Open(context.Background(), ref, h.cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func waitView(t *testing.T, s *Session, cond func(View) bool) View {
	t.Helper()
	deadline := time.After(wait)
	for {
		select {
		case v := <-s.Views():
			if cond(v) {
				return v
			}
		case <-deadline:
			t.Fatalf("view condition not met within %v", wait)
			return View{}
		}
	}
}

func TestSession_NetworkedHostNeverJoins(t *testing.T) {
	h := newHarness(t, "u-host", draft.SessionDescriptor{ID: 7, HostID: "u-host", Status: "lobby", PicksPerPlayer: 3})
	s := h.open(t, "7")

	assert.Equal(t, ModeNetworked, s.Mode())
	assert.Equal(t, draft.RoleHost, s.LocalRole())

	conn := h.tr.Accept(t, draft.RoleHost, wait)
	conn.Push(types.ServerMessage{Type: types.TypeLobbyReady, Connected: []string{"host"}, Started: boolp(false)})

	v := waitView(t, s, func(v View) bool { return v.State.Conn == channel.ConnOpen && len(v.Connected) == 1 })
	assert.Equal(t, SourceHost, v.Source)
	assert.Equal(t, channel.ConnDisabled, v.Conns[draft.RoleGuest])

	h.tr.NoDial(t, draft.RoleGuest, 50*time.Millisecond)
	assert.Equal(t, 0, h.fake.JoinCalls())
}

func TestSession_GuestJoinsOnce(t *testing.T) {
	h := newHarness(t, "u-guest", draft.SessionDescriptor{ID: 8, HostID: "u-host", Status: "lobby"})
	s := h.open(t, "8")

	assert.Equal(t, draft.RoleGuest, s.LocalRole())
	assert.Equal(t, 1, h.fake.JoinCalls())
	assert.Equal(t, "u-guest", s.Descriptor().GuestID)
	h.tr.Accept(t, draft.RoleGuest, wait)
	h.tr.NoDial(t, draft.RoleHost, 50*time.Millisecond)

	// Reopening with the seat now ours does not join again.
	h.open(t, "8")
	assert.Equal(t, 1, h.fake.JoinCalls())
}

func TestSession_SeatTaken(t *testing.T) {
	h := newHarness(t, "u-other", draft.SessionDescriptor{ID: 9, HostID: "u-host", GuestID: "u-guest"})
	_, err := Open(context.Background(), "9", h.cfg)
	assert.ErrorIs(t, err, ErrSessionFull)
	assert.Equal(t, 0, h.fake.JoinCalls())
}

func TestSession_InvalidRef(t *testing.T) {
	h := newHarness(t, "u-host", draft.SessionDescriptor{ID: 1, HostID: "u-host"})
	_, err := Open(context.Background(), "not a ref", h.cfg)
	assert.ErrorIs(t, err, draft.ErrInvalidRef)
}

func TestSession_LocalModeRoutesByTurn(t *testing.T) {
	h := newHarness(t, "u-host", draft.SessionDescriptor{ID: 10, HostID: "u-host", Local: true})
	s := h.open(t, "10")
	assert.Equal(t, ModeLocal, s.Mode())

	hostConn := h.tr.Accept(t, draft.RoleHost, wait)
	guestConn := h.tr.Accept(t, draft.RoleGuest, wait)
	hostConn.Push(types.ServerMessage{Type: types.TypeLobbyReady, Connected: []string{"host"}})
	guestConn.Push(types.ServerMessage{Type: types.TypeLobbyReady, Connected: []string{"host", "guest"}})

	v := waitView(t, s, func(v View) bool { return len(v.Connected) == 2 && v.Source == SourceReconciled })
	assert.Equal(t, draft.RoleHost, v.State.Role, "tie goes to host")

	require.NoError(t, s.Send(context.Background(), channel.StartDraft()))
	assert.Equal(t, types.TypeStartDraft, hostConn.Sent(t, wait).Type)

	for _, c := range []*channeltest.Conn{hostConn, guestConn} {
		c.Push(types.ServerMessage{Type: types.TypeDraftStarted, FirstTurn: "guest"})
	}
	waitView(t, s, func(v View) bool { return v.State.CurrentTurn == draft.RoleGuest })

	require.NoError(t, s.Send(context.Background(), channel.Roll()))
	assert.Equal(t, types.TypeRoll, guestConn.Sent(t, wait).Type)
	hostConn.NothingSent(t, 20*time.Millisecond)
}

func TestSession_CallsAfterCloseReturn(t *testing.T) {
	h := newHarness(t, "u-host", draft.SessionDescriptor{ID: 12, HostID: "u-host"})
	s := h.open(t, "12")
	h.tr.Accept(t, draft.RoleHost, wait)
	require.NoError(t, s.Close())

	// The inbox has room after Close, so a request can be queued with no
	// loop left to answer it. Neither call carries a deadline.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 50 {
			_, err := s.View(context.Background())
			assert.ErrorIs(t, err, channel.ErrClientClosed)
			assert.ErrorIs(t, s.Send(context.Background(), channel.Roll()), channel.ErrClientClosed)
		}
	}()
	select {
	case <-done:
	case <-time.After(wait):
		t.Fatal("View or Send blocked on a closed session")
	}
}

func TestSession_StaticConstraintAndSpin(t *testing.T) {
	rules := draft.RuleSet{
		Spin: []draft.Field{draft.FieldTeam},
		Year: draft.YearConstraint{Type: draft.YearRange, Start: intp(2000), End: intp(2012)},
	}
	h := newHarness(t, "u-host", draft.SessionDescriptor{ID: 11, HostID: "u-host", Rules: rules})
	h.cfg.Teams = catalogueFrom(h)
	s := h.open(t, "11")

	conn := h.tr.Accept(t, draft.RoleHost, wait)
	conn.Push(types.ServerMessage{Type: types.TypeLobbyReady, Connected: []string{"host"}, FirstTurn: "host"})
	v := waitView(t, s, func(v View) bool { return v.State.FirstTurn == draft.RoleHost })
	assert.Nil(t, v.Constraint, "team is spun and nothing is rolled yet")

	conn.Push(types.ServerMessage{Type: types.TypeRollStarted, Stage: types.StageTeam, ByRole: "host"})
	select {
	case f := <-s.Frames():
		assert.Equal(t, draft.FieldTeam, f.Stage)
		assert.Contains(t, []string{"SEA", "OKC", "BOS"}, f.Value)
	case <-time.After(wait):
		t.Fatalf("no spin frame")
	}

	conn.Push(types.ServerMessage{Type: types.TypeRollResult, Constraint: &types.Constraint{Teams: []types.Team{{ID: 2, Abbreviation: "OKC"}}}})
	v = waitView(t, s, func(v View) bool { return !v.State.Spinning && v.Constraint != nil })
	assert.Equal(t, 2000, *v.Constraint.YearStart, "year comes from the fixed rule")
	require.Len(t, v.Constraint.Segments, 2)
	assert.Equal(t, "SEA", v.Constraint.Segments[0].Team.Abbreviation)
	assert.Equal(t, "OKC", v.Constraint.Segments[1].Team.Abbreviation)
	assert.True(t, v.OnlyEligible)
}

func catalogueFrom(h *harness) Catalogue {
	return catalogueFunc(func(ctx context.Context) ([]draft.Team, error) {
		return h.cfg.Backend.(*backend.Client).Teams(ctx, backend.TeamQuery{})
	})
}

type catalogueFunc func(ctx context.Context) ([]draft.Team, error)

func (f catalogueFunc) Catalogue(ctx context.Context) ([]draft.Team, error) { return f(ctx) }
