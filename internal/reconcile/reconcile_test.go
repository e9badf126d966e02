package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/hoops-draft-client/internal/channel"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

func live(role draft.Role, connected []draft.Role, first draft.Role, picks int) *channel.State {
	s := channel.Disabled(role, true)
	s.Conn = channel.ConnOpen
	s.Connected = connected
	s.FirstTurn = first
	for i := 1; i <= picks; i++ {
		s.Picks = append(s.Picks, draft.Pick{Number: i, Role: draft.ExpectedRole(draft.RoleHost, i, true), PlayerID: i})
	}
	return &s
}

func TestReconcile(t *testing.T) {
	host := draft.RoleHost
	guest := draft.RoleGuest
	disabledGuest := channel.Disabled(guest, true)

	cases := []struct {
		name      string
		mode      Mode
		local     draft.Role
		host      *channel.State
		guest     *channel.State
		kind      SourceKind
		winner    draft.Role
		connected []draft.Role
	}{
		{
			name:  "networked host ignores a richer guest instance",
			mode:  ModeNetworked,
			local: host,
			host:  live(host, []draft.Role{host}, "", 0),
			guest: live(guest, []draft.Role{host, guest}, host, 4),
			kind:  SourceHost, winner: host, connected: []draft.Role{host},
		},
		{
			name:  "networked guest",
			mode:  ModeNetworked,
			local: guest,
			guest: live(guest, []draft.Role{host, guest}, host, 1),
			kind:  SourceGuest, winner: guest, connected: []draft.Role{host, guest},
		},
		{
			name:  "networked without local instance",
			mode:  ModeNetworked,
			local: guest,
			host:  live(host, nil, host, 2),
			kind:  SourceNone,
		},
		{
			name:  "local prefers the instance that saw the start",
			mode:  ModeLocal,
			host:  live(host, []draft.Role{host}, "", 0),
			guest: live(guest, []draft.Role{guest}, host, 0),
			kind:  SourceReconciled, winner: guest, connected: []draft.Role{host, guest},
		},
		{
			name:  "local tie goes to host",
			mode:  ModeLocal,
			host:  live(host, []draft.Role{host, guest}, host, 2),
			guest: live(guest, []draft.Role{host, guest}, host, 2),
			kind:  SourceReconciled, winner: host, connected: []draft.Role{host, guest},
		},
		{
			name:  "local guest ahead on picks",
			mode:  ModeLocal,
			host:  live(host, []draft.Role{host}, host, 1),
			guest: live(guest, []draft.Role{guest}, host, 2),
			kind:  SourceReconciled, winner: guest, connected: []draft.Role{host, guest},
		},
		{
			name:  "local disabled guest never wins",
			mode:  ModeLocal,
			host:  live(host, []draft.Role{host}, "", 0),
			guest: &disabledGuest,
			kind:  SourceHost, winner: host, connected: []draft.Role{host},
		},
		{
			name: "nothing live",
			mode: ModeLocal,
			kind: SourceNone,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reconcile(tc.mode, tc.local, tc.host, tc.guest)
			assert.Equal(t, tc.kind, got.Kind)
			if tc.kind == SourceNone {
				return
			}
			assert.Equal(t, tc.winner, got.State.Role)
			assert.Equal(t, tc.connected, got.Connected)
		})
	}
}

func TestReconcile_DoesNotModifyInputs(t *testing.T) {
	h := live(draft.RoleHost, []draft.Role{draft.RoleHost}, draft.RoleHost, 1)
	g := live(draft.RoleGuest, []draft.Role{draft.RoleGuest}, draft.RoleHost, 1)
	hostBefore, guestBefore := *h, *g

	_ = Reconcile(ModeLocal, "", h, g)
	assert.Equal(t, hostBefore, *h)
	assert.Equal(t, guestBefore, *g)
}

func TestResolveRole(t *testing.T) {
	cases := []struct {
		name    string
		me      string
		guestID string
		want    Assignment
		err     error
	}{
		{name: "host", me: "h", want: Assignment{Role: draft.RoleHost}},
		{name: "host with guest seated", me: "h", guestID: "g", want: Assignment{Role: draft.RoleHost}},
		{name: "returning guest", me: "g", guestID: "g", want: Assignment{Role: draft.RoleGuest}},
		{name: "open seat", me: "x", want: Assignment{Role: draft.RoleGuest, NeedsJoin: true}},
		{name: "seat taken", me: "x", guestID: "g", err: ErrSessionFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveRole(draft.Identity{ID: tc.me}, draft.SessionDescriptor{HostID: "h", GuestID: tc.guestID})
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": "", "auto": "", "local": ModeLocal, "networked": ModeNetworked} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("hybrid")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
