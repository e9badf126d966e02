package channeltest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

const writeTimeout = 3 * time.Second

// Server is a websocket draft channel endpoint for exercising the real
// transport. Tests push server messages to a role's socket and read back
// what the client sent.
type Server struct {
	s        *httptest.Server
	accepted map[draft.Role]chan *ServerConn
	// Authorization header of the most recent upgrade.
	mu   sync.Mutex
	auth string
}

func NewServer() *Server {
	srv := &Server{accepted: map[draft.Role]chan *ServerConn{}}
	for _, r := range draft.Roles {
		srv.accepted[r] = make(chan *ServerConn, 16)
	}
	r := chi.NewRouter()
	r.Get("/ws/draft/{ref}", srv.handle)
	srv.s = httptest.NewServer(r)
	return srv
}

func (s *Server) Close() { s.s.Close() }

func (s *Server) URL() string { return s.s.URL }

func (s *Server) Authorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// Accept returns the next socket opened for role.
func (s *Server) Accept(tb testing.TB, role draft.Role, within time.Duration) *ServerConn {
	tb.Helper()
	select {
	case c := <-s.accepted[role]:
		return c
	case <-time.After(within):
		tb.Fatalf("no %s socket within %v", role, within)
		return nil
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	role, err := draft.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		http.Error(w, "missing role", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.auth = r.Header.Get("Authorization")
	s.mu.Unlock()

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	sc := &ServerConn{
		Role:     role,
		Ref:      chi.URLParam(r, "ref"),
		out:      make(chan []byte, 64),
		received: make(chan types.ClientMessage, 64),
		drop:     make(chan struct{}),
	}
	s.accepted[role] <- sc

	writeCtx, writeCancel := context.WithCancel(r.Context())
	defer writeCancel()
	go func() {
		for {
			select {
			case <-writeCtx.Done():
				return
			case <-sc.drop:
				_ = conn.Close(websocket.StatusGoingAway, "server restart")
				return
			case payload := <-sc.out:
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}
	}()

	for {
		_, data, err := conn.Read(r.Context())
		if err != nil {
			return
		}
		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			sc.Push(types.ServerMessage{Type: types.TypeError, Message: "bad json"})
			continue
		}
		sc.received <- cm
	}
}

type ServerConn struct {
	Role draft.Role
	Ref  string

	out      chan []byte
	received chan types.ClientMessage
	drop     chan struct{}
	once     sync.Once
}

func (c *ServerConn) Push(m types.ServerMessage) {
	data, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	c.out <- data
}

// Drop closes the socket from the server side.
func (c *ServerConn) Drop() { c.once.Do(func() { close(c.drop) }) }

// Received returns the next command the client sent.
func (c *ServerConn) Received(tb testing.TB, within time.Duration) types.ClientMessage {
	tb.Helper()
	select {
	case m := <-c.received:
		return m
	case <-time.After(within):
		tb.Fatalf("nothing received within %v", within)
		return types.ClientMessage{}
	}
}
