package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

type Msg interface{ isChannelMsg() }

type enableMsg struct{ ref string }

func (enableMsg) isChannelMsg() {}

type disableMsg struct{}

func (disableMsg) isChannelMsg() {}

type sendMsg struct {
	ctx   context.Context
	cmd   types.ClientMessage
	reply chan error
}

func (sendMsg) isChannelMsg() {}

type getStateMsg struct{ reply chan State }

func (getStateMsg) isChannelMsg() {}

// Connection events carry the generation they belong to. Anything from an
// older generation is stale and dropped.
type dialedMsg struct {
	gen  int
	conn Conn
	err  error
}

func (dialedMsg) isChannelMsg() {}

type receivedMsg struct {
	gen  int
	data []byte
}

func (receivedMsg) isChannelMsg() {}

type lostMsg struct {
	gen int
	err error
}

func (lostMsg) isChannelMsg() {}

type retryMsg struct{ gen int }

func (retryMsg) isChannelMsg() {}

type Option func(*Client)

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

func WithReconnectPolicy(p ReconnectPolicy) Option {
	return func(c *Client) { c.recon.policy = p }
}

// WithSnakeOrder sets the pick order used when a pick arrives without the
// server's next turn.
func WithSnakeOrder(snake bool) Option { return func(c *Client) { c.snake = snake } }

// Client is one role's channel instance. All state is owned by its loop
// goroutine; callers interact through messages.
type Client struct {
	role      draft.Role
	transport Transport
	logger    *zap.Logger
	snake     bool

	inbox chan Msg
	snaps chan State
	ctx   context.Context
	stop  context.CancelFunc
	done  chan struct{}

	// loop-owned
	state    State
	ref      string
	enabled  bool
	gen      int
	conn     Conn
	connStop context.CancelFunc
	recon    reconnector
	closeErr error
}

// New starts a disabled client for role.
func New(parent context.Context, role draft.Role, transport Transport, opts ...Option) *Client {
	ctx, stop := context.WithCancel(parent)
	c := &Client{
		role:      role,
		transport: transport,
		logger:    zap.NewNop(),
		snake:     true,
		inbox:     make(chan Msg, 64),
		snaps:     make(chan State, 1),
		ctx:       ctx,
		stop:      stop,
		done:      make(chan struct{}),
		recon:     reconnector{policy: FixedDelay(DefaultReconnectDelay)},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("role", string(role)))
	c.state = Disabled(role, c.snake)

	go c.loop()
	return c
}

func (c *Client) Role() draft.Role { return c.role }

// Snapshots publishes every state change. Readers that fall behind only
// see the latest state.
func (c *Client) Snapshots() <-chan State { return c.snaps }

// Enable connects to the session ref and keeps reconnecting until Disable.
func (c *Client) Enable(ref string) { c.post(enableMsg{ref: ref}) }

// Disable drops the connection and clears everything learned from it.
func (c *Client) Disable() { c.post(disableMsg{}) }

// Send transmits cmd if the channel is open. Otherwise it returns
// ErrChannelClosed and the command is dropped.
func (c *Client) Send(ctx context.Context, cmd types.ClientMessage) error {
	reply := make(chan error, 1)
	if !c.post(sendMsg{ctx: ctx, cmd: cmd, reply: reply}) {
		return ErrClientClosed
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClientClosed
	}
}

func (c *Client) State(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	if !c.post(getStateMsg{reply: reply}) {
		return State{}, ErrClientClosed
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-c.done:
		return State{}, ErrClientClosed
	}
}

// Close stops the loop and closes any open connection.
func (c *Client) Close() error {
	c.stop()
	<-c.done
	return c.closeErr
}

func (c *Client) post(m Msg) bool {
	select {
	case c.inbox <- m:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *Client) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			c.recon.cancel()
			c.closeErr = c.dropConn()
			return

		case m := <-c.inbox:
			switch msg := m.(type) {
			case enableMsg:
				c.handleEnable(msg.ref)

			case disableMsg:
				c.handleDisable()

			case sendMsg:
				msg.reply <- c.handleSend(msg.ctx, msg.cmd)

			case getStateMsg:
				msg.reply <- c.state

			case dialedMsg:
				c.handleDialed(msg)

			case receivedMsg:
				if msg.gen != c.gen {
					break
				}
				sm, err := Decode(msg.data)
				if err != nil {
					c.logger.Debug("dropping inbound message", zap.Error(err))
					break
				}
				if sm.Type == types.TypeError {
					c.logger.Warn("server error", zap.String("message", sm.Message))
				}
				c.setState(Apply(c.state, sm))

			case lostMsg:
				if msg.gen != c.gen || !c.enabled {
					break
				}
				c.logger.Info("channel lost", zap.Error(msg.err))
				_ = c.dropConn()
				next := c.state.clone()
				next.Conn = ConnClosed
				next.Pending = nil
				c.setState(next)
				c.scheduleRetry()

			case retryMsg:
				if msg.gen != c.gen || !c.enabled {
					break
				}
				c.dial()
			}
		}
	}
}

func (c *Client) handleEnable(ref string) {
	if c.enabled && c.ref == ref {
		return
	}
	if c.enabled {
		c.handleDisable()
	}
	c.enabled = true
	c.ref = ref
	c.recon.reset()
	c.logger.Info("channel enabled", zap.String("ref", ref))
	c.dial()
}

func (c *Client) handleDisable() {
	if !c.enabled && c.state.Conn == ConnDisabled {
		return
	}
	c.enabled = false
	c.gen++
	c.recon.cancel()
	if err := c.dropConn(); err != nil {
		c.logger.Debug("close on disable", zap.Error(err))
	}
	c.logger.Info("channel disabled")
	c.setState(Disabled(c.role, c.snake))
}

func (c *Client) handleSend(ctx context.Context, cmd types.ClientMessage) error {
	if c.state.Conn != ConnOpen || c.conn == nil {
		next := c.state.clone()
		next.LastError = &Error{Kind: ErrorConnection, Message: ErrChannelClosed.Error()}
		c.setState(next)
		return ErrChannelClosed
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode %s: %w", cmd.Type, err)
	}
	if err := c.conn.Write(ctx, data); err != nil {
		return fmt.Errorf("send %s: %w", cmd.Type, err)
	}
	return nil
}

func (c *Client) dial() {
	c.gen++
	gen, ref := c.gen, c.ref

	next := c.state.clone()
	next.Conn = ConnConnecting
	c.setState(next)

	go func() {
		conn, err := c.transport.Dial(c.ctx, ref, c.role)
		if !c.post(dialedMsg{gen: gen, conn: conn, err: err}) && conn != nil {
			_ = conn.Close()
		}
	}()
}

func (c *Client) handleDialed(msg dialedMsg) {
	if msg.gen != c.gen || !c.enabled {
		if msg.conn != nil {
			_ = msg.conn.Close()
		}
		return
	}
	if msg.err != nil {
		c.logger.Info("dial failed", zap.Error(msg.err))
		next := c.state.clone()
		next.Conn = ConnClosed
		next.LastError = &Error{Kind: ErrorConnection, Message: msg.err.Error()}
		c.setState(next)
		c.scheduleRetry()
		return
	}

	c.recon.reset()
	c.conn = msg.conn
	readCtx, stop := context.WithCancel(c.ctx)
	c.connStop = stop
	go c.readLoop(readCtx, msg.gen, msg.conn)

	c.logger.Info("channel open", zap.String("ref", c.ref))
	next := c.state.clone()
	next.Conn = ConnOpen
	next.LastError = nil
	c.setState(next)
}

func (c *Client) readLoop(ctx context.Context, gen int, conn Conn) {
	for {
		data, err := conn.Read(ctx)
		if err != nil {
			c.post(lostMsg{gen: gen, err: err})
			return
		}
		if !c.post(receivedMsg{gen: gen, data: data}) {
			return
		}
	}
}

func (c *Client) scheduleRetry() {
	gen := c.gen
	d := c.recon.schedule(func() { c.post(retryMsg{gen: gen}) })
	c.logger.Debug("reconnect scheduled", zap.Duration("in", d))
}

// dropConn closes the connection before cancelling its reader so the close
// handshake can complete.
func (c *Client) dropConn() error {
	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	if c.connStop != nil {
		c.connStop()
		c.connStop = nil
	}
	return err
}

func (c *Client) setState(s State) {
	c.state = s
	select {
	case c.snaps <- s:
		return
	default:
	}
	select {
	case <-c.snaps:
	default:
	}
	select {
	case c.snaps <- s:
	default:
	}
}
