// Package channeltest provides an in-process Transport for tests. Each
// dial produces a Conn the test drives as if it were the server.
package channeltest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DoyleJ11/hoops-draft-client/internal/channel"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

var ErrDialRefused = errors.New("dial refused")
var errConnClosed = errors.New("conn closed")

type Transport struct {
	mu       sync.Mutex
	accepted map[draft.Role]chan *Conn
	dials    map[draft.Role]int
	refuse   map[draft.Role]int
}

func NewTransport() *Transport {
	t := &Transport{
		accepted: map[draft.Role]chan *Conn{},
		dials:    map[draft.Role]int{},
		refuse:   map[draft.Role]int{},
	}
	for _, r := range draft.Roles {
		t.accepted[r] = make(chan *Conn, 16)
	}
	return t
}

var _ channel.Transport = (*Transport)(nil)

func (t *Transport) Dial(ctx context.Context, ref string, role draft.Role) (channel.Conn, error) {
	t.mu.Lock()
	t.dials[role]++
	if t.refuse[role] > 0 {
		t.refuse[role]--
		t.mu.Unlock()
		return nil, ErrDialRefused
	}
	t.mu.Unlock()

	c := &Conn{
		Role:   role,
		Ref:    ref,
		in:     make(chan []byte, 64),
		out:    make(chan []byte, 64),
		closed: make(chan struct{}),
	}
	t.accepted[role] <- c
	return c, nil
}

// Refuse makes the next n dials for role fail.
func (t *Transport) Refuse(role draft.Role, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refuse[role] = n
}

func (t *Transport) Dials(role draft.Role) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials[role]
}

// Accept returns the next connection dialed for role.
func (t *Transport) Accept(tb testing.TB, role draft.Role, within time.Duration) *Conn {
	tb.Helper()
	select {
	case c := <-t.accepted[role]:
		return c
	case <-time.After(within):
		tb.Fatalf("no %s dial within %v", role, within)
		return nil
	}
}

// NoDial fails if role dials within the window.
func (t *Transport) NoDial(tb testing.TB, role draft.Role, within time.Duration) {
	tb.Helper()
	select {
	case c := <-t.accepted[role]:
		tb.Fatalf("unexpected %s dial to %q", role, c.Ref)
	case <-time.After(within):
	}
}

type Conn struct {
	Role draft.Role
	Ref  string

	in     chan []byte
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

var _ channel.Conn = (*Conn)(nil)

func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	select {
	case data := <-c.in:
		return data, nil
	case <-c.closed:
		return nil, errConnClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Conn) Write(ctx context.Context, data []byte) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}
	select {
	case c.out <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Conn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// Push delivers a server message to the client.
func (c *Conn) Push(m types.ServerMessage) {
	data, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	c.PushRaw(data)
}

func (c *Conn) PushRaw(data []byte) { c.in <- data }

// Drop simulates the server going away.
func (c *Conn) Drop() { _ = c.Close() }

func (c *Conn) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// Sent returns the next command the client wrote.
func (c *Conn) Sent(tb testing.TB, within time.Duration) types.ClientMessage {
	tb.Helper()
	select {
	case data := <-c.out:
		var m types.ClientMessage
		if err := json.Unmarshal(data, &m); err != nil {
			tb.Fatalf("client sent invalid json: %v", err)
		}
		return m
	case <-time.After(within):
		tb.Fatalf("nothing sent within %v", within)
		return types.ClientMessage{}
	}
}

// WaitState reads snapshots until cond holds.
func WaitState(tb testing.TB, ch <-chan channel.State, within time.Duration, cond func(channel.State) bool) channel.State {
	tb.Helper()
	deadline := time.After(within)
	for {
		select {
		case s := <-ch:
			if cond(s) {
				return s
			}
		case <-deadline:
			tb.Fatalf("state condition not met within %v", within)
			return channel.State{}
		}
	}
}

// NothingSent fails if the client writes within the window.
func (c *Conn) NothingSent(tb testing.TB, within time.Duration) {
	tb.Helper()
	select {
	case data := <-c.out:
		tb.Fatalf("unexpected command sent: %s", data)
	case <-time.After(within):
	}
}
