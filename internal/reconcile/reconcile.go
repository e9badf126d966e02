// Package reconcile merges the host and guest channel instances into the
// one session view the rest of the client reads.
package reconcile

import (
	"errors"
	"slices"

	"github.com/DoyleJ11/hoops-draft-client/internal/channel"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

var ErrSessionFull = errors.New("session already has a different guest")
var ErrUnknownMode = errors.New("unknown session mode")

type Mode string

const (
	// ModeLocal runs both roles from one device.
	ModeLocal     Mode = "local"
	ModeNetworked Mode = "networked"
)

// ParseMode accepts "", "auto", "local" and "networked". Auto returns "".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return "", nil
	case string(ModeLocal), string(ModeNetworked):
		return Mode(s), nil
	}
	return "", ErrUnknownMode
}

type SourceKind string

const (
	SourceNone       SourceKind = "none"
	SourceHost       SourceKind = "host"
	SourceGuest      SourceKind = "guest"
	SourceReconciled SourceKind = "reconciled"
)

// Source is the instance state chosen as authoritative. Reconciled means
// both instances contributed: State is the winner and Connected is the
// union of both memberships.
type Source struct {
	Kind      SourceKind    `json:"kind"`
	State     channel.State `json:"state"`
	Connected []draft.Role  `json:"connected"`
}

// Reconcile picks the authoritative state. It never modifies either input.
//
// Networked mode trusts only the local role's instance. Local mode prefers
// the instance that has seen the draft start, then the one with more
// picks, then the host.
func Reconcile(mode Mode, local draft.Role, host, guest *channel.State) Source {
	if mode == ModeNetworked {
		switch {
		case local == draft.RoleHost && host != nil:
			return Source{Kind: SourceHost, State: *host, Connected: host.Connected}
		case local == draft.RoleGuest && guest != nil:
			return Source{Kind: SourceGuest, State: *guest, Connected: guest.Connected}
		}
		return Source{Kind: SourceNone}
	}

	live := func(s *channel.State) bool { return s != nil && s.Conn != channel.ConnDisabled }
	switch {
	case !live(host) && !live(guest):
		return Source{Kind: SourceNone}
	case !live(guest):
		return Source{Kind: SourceHost, State: *host, Connected: host.Connected}
	case !live(host):
		return Source{Kind: SourceGuest, State: *guest, Connected: guest.Connected}
	}

	winner := *host
	if preferGuest(*host, *guest) {
		winner = *guest
	}
	return Source{Kind: SourceReconciled, State: winner, Connected: union(host.Connected, guest.Connected)}
}

func preferGuest(host, guest channel.State) bool {
	if host.Observed() != guest.Observed() {
		return guest.Observed()
	}
	return len(guest.Picks) > len(host.Picks)
}

func union(a, b []draft.Role) []draft.Role {
	var out []draft.Role
	for _, r := range draft.Roles {
		for _, have := range [][]draft.Role{a, b} {
			if slices.Contains(have, r) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Assignment is the local participant's role in a networked session.
type Assignment struct {
	Role      draft.Role
	NeedsJoin bool
}

// ResolveRole maps the local identity onto the session. A non-host joins
// as guest only while the guest seat is empty.
func ResolveRole(me draft.Identity, desc draft.SessionDescriptor) (Assignment, error) {
	switch {
	case me.ID == desc.HostID:
		return Assignment{Role: draft.RoleHost}, nil
	case desc.GuestID == me.ID:
		return Assignment{Role: draft.RoleGuest}, nil
	case !desc.HasGuest():
		return Assignment{Role: draft.RoleGuest, NeedsJoin: true}, nil
	}
	return Assignment{}, ErrSessionFull
}
