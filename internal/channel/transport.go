package channel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

const writeTimeout = 3 * time.Second

type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

type Transport interface {
	Dial(ctx context.Context, ref string, role draft.Role) (Conn, error)
}

// ChannelURL builds {base}/ws/draft/{ref}?role={role}. An http(s) base is
// rewritten to ws(s).
func ChannelURL(base, ref string, role draft.Role) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("parse websocket base: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported websocket scheme %q", u.Scheme)
	}
	u.Path += "/ws/draft/" + url.PathEscape(ref)
	u.RawQuery = url.Values{"role": {string(role)}}.Encode()
	return u.String(), nil
}

type WebsocketTransport struct {
	BaseURL    string
	HTTPClient *http.Client
	Header     http.Header
}

func (t WebsocketTransport) Dial(ctx context.Context, ref string, role draft.Role) (Conn, error) {
	u, err := ChannelURL(t.BaseURL, ref, role)
	if err != nil {
		return nil, err
	}
	c, _, err := websocket.Dial(ctx, u, &websocket.DialOptions{HTTPClient: t.HTTPClient, HTTPHeader: t.Header})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	c.SetReadLimit(1 << 20)
	return &wsConn{c: c}, nil
}

type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	for {
		typ, data, err := w.c.Read(ctx)
		if err != nil {
			return nil, err
		}
		if typ == websocket.MessageText {
			return data, nil
		}
	}
}

func (w *wsConn) Write(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return w.c.Write(ctx, websocket.MessageText, data)
}

func (w *wsConn) Close() error {
	err := w.c.Close(websocket.StatusNormalClosure, "bye")
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return nil
	}
	return err
}
