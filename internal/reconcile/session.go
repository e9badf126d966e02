package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/channel"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/eligibility"
	"github.com/DoyleJ11/hoops-draft-client/internal/spin"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

type Backend interface {
	Me(ctx context.Context) (draft.Identity, error)
	Draft(ctx context.Context, ref string) (draft.SessionDescriptor, error)
	JoinDraft(ctx context.Context, ref string) (draft.SessionDescriptor, error)
}

type Catalogue interface {
	Catalogue(ctx context.Context) ([]draft.Team, error)
}

type Config struct {
	// Mode forces local or networked; empty follows the session descriptor.
	Mode      Mode
	Backend   Backend
	Teams     Catalogue
	Transport channel.Transport
	Reconnect channel.ReconnectPolicy
	Spin      *spin.Scheduler
	Logger    *zap.Logger
}

// View is the reconciled session as presented to the UI.
type View struct {
	Mode      Mode                              `json:"mode"`
	LocalRole draft.Role                        `json:"local_role,omitempty"`
	Identity  draft.Identity                    `json:"identity"`
	Session   draft.SessionDescriptor           `json:"session"`
	Source    SourceKind                        `json:"source"`
	State     channel.State                     `json:"state"`
	Connected []draft.Role                      `json:"connected"`
	Conns     map[draft.Role]channel.ConnStatus `json:"conns"`

	// Constraint is nil while a spun constraint has not been rolled.
	Constraint   *draft.Constraint     `json:"constraint,omitempty"`
	OnlyEligible bool                  `json:"only_eligible"`
	Warnings     []eligibility.Warning `json:"warnings,omitempty"`
}

type sessionMsg interface{ isSessionMsg() }

type getViewMsg struct{ reply chan View }

func (getViewMsg) isSessionMsg() {}

type routeMsg struct {
	cmd   types.ClientMessage
	reply chan *channel.Client
}

func (routeMsg) isSessionMsg() {}

// Session owns the host and guest channel instances of one draft.
type Session struct {
	mode     Mode
	local    draft.Role
	me       draft.Identity
	desc     draft.SessionDescriptor
	teams    []draft.Team
	static   draft.Constraint
	warnings []eligibility.Warning
	logger   *zap.Logger

	host   *channel.Client
	guest  *channel.Client
	driver *spin.Driver

	inbox chan sessionMsg
	views chan View
	ctx   context.Context
	stop  context.CancelFunc
	done  chan struct{}

	// loop-owned
	hostState  channel.State
	guestState channel.State
	view       View
}

// Open resolves the local role, joins as guest when the seat is free and
// connects the channel instances the mode calls for.
func Open(ctx context.Context, ref string, cfg Config) (*Session, error) {
	ref, err := draft.ParseRef(ref)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("draft", ref))

	me, err := cfg.Backend.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch identity: %w", err)
	}
	desc, err := cfg.Backend.Draft(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetch draft %s: %w", ref, err)
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeNetworked
		if desc.Local {
			mode = ModeLocal
		}
	}

	var local draft.Role
	if mode == ModeNetworked {
		a, err := ResolveRole(me, desc)
		if err != nil {
			return nil, err
		}
		if a.NeedsJoin {
			logger.Info("joining draft as guest", zap.String("user", me.ID))
			joined, err := cfg.Backend.JoinDraft(ctx, ref)
			if err != nil {
				return nil, fmt.Errorf("join draft %s: %w", ref, err)
			}
			desc = joined
		}
		local = a.Role
	}

	var teams []draft.Team
	if cfg.Teams != nil {
		teams, err = cfg.Teams.Catalogue(ctx)
		if err != nil {
			logger.Warn("team catalogue unavailable", zap.Error(err))
		}
	}

	sctx, stop := context.WithCancel(context.Background())
	s := &Session{
		mode:     mode,
		local:    local,
		me:       me,
		desc:     desc,
		teams:    teams,
		static:   eligibility.StaticConstraint(desc.Rules, teams),
		warnings: eligibility.Warnings(desc.Rules),
		logger:   logger,
		inbox:    make(chan sessionMsg, 16),
		views:    make(chan View, 1),
		ctx:      sctx,
		stop:     stop,
		done:     make(chan struct{}),
	}
	for _, w := range s.warnings {
		logger.Warn("rule set warning", zap.String("code", w.Code), zap.String("message", w.Message))
	}

	snake := desc.Rules.Snake()
	opts := []channel.Option{channel.WithLogger(logger), channel.WithSnakeOrder(snake)}
	if cfg.Reconnect != nil {
		opts = append(opts, channel.WithReconnectPolicy(cfg.Reconnect))
	}
	s.host = channel.New(sctx, draft.RoleHost, cfg.Transport, opts...)
	s.guest = channel.New(sctx, draft.RoleGuest, cfg.Transport, opts...)
	s.hostState = channel.Disabled(draft.RoleHost, snake)
	s.guestState = channel.Disabled(draft.RoleGuest, snake)

	sched := cfg.Spin
	if sched == nil {
		sched = spin.NewScheduler(spin.NewRandom(uint64(desc.ID)), spin.DefaultDuration, spin.DefaultSteps)
	}
	s.driver = spin.NewDriver(sched, logger)

	switch mode {
	case ModeLocal:
		s.host.Enable(desc.Ref())
		s.guest.Enable(desc.Ref())
	case ModeNetworked:
		s.client(local).Enable(desc.Ref())
		s.client(local.Other()).Disable()
	}
	logger.Info("session opened", zap.String("mode", string(mode)), zap.String("role", string(local)))

	s.view = s.buildView()
	go s.loop()
	return s, nil
}

func (s *Session) Mode() Mode { return s.mode }

func (s *Session) LocalRole() draft.Role { return s.local }

func (s *Session) Descriptor() draft.SessionDescriptor { return s.desc }

func (s *Session) Teams() []draft.Team { return s.teams }

// Views publishes every change. Slow readers only see the latest view.
func (s *Session) Views() <-chan View { return s.views }

// Frames delivers cosmetic spin values while a roll is in progress.
func (s *Session) Frames() <-chan spin.Frame { return s.driver.Frames() }

func (s *Session) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case s.inbox <- getViewMsg{reply: reply}:
	case <-s.done:
		return View{}, channel.ErrClientClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return View{}, channel.ErrClientClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Send routes cmd to the instance that should carry it. Networked sessions
// always use the local role. Local sessions send privileged commands as
// host and turn commands as whoever holds the turn.
func (s *Session) Send(ctx context.Context, cmd types.ClientMessage) error {
	reply := make(chan *channel.Client, 1)
	select {
	case s.inbox <- routeMsg{cmd: cmd, reply: reply}:
	case <-s.done:
		return channel.ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	var target *channel.Client
	select {
	case target = <-reply:
	case <-s.done:
		return channel.ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return target.Send(ctx, cmd)
}

// Close disconnects both instances and stops the spin driver.
func (s *Session) Close() error {
	s.stop()
	<-s.done
	return multierr.Combine(s.host.Close(), s.guest.Close())
}

func (s *Session) client(r draft.Role) *channel.Client {
	if r == draft.RoleGuest {
		return s.guest
	}
	return s.host
}

func (s *Session) loop() {
	defer close(s.done)
	defer s.driver.Stop()
	s.publish()
	for {
		select {
		case <-s.ctx.Done():
			return

		case st := <-s.host.Snapshots():
			s.hostState = st
			s.refresh()

		case st := <-s.guest.Snapshots():
			s.guestState = st
			s.refresh()

		case m := <-s.inbox:
			switch msg := m.(type) {
			case getViewMsg:
				msg.reply <- s.view
			case routeMsg:
				msg.reply <- s.route(msg.cmd)
			}
		}
	}
}

func (s *Session) route(cmd types.ClientMessage) *channel.Client {
	if s.mode == ModeNetworked {
		return s.client(s.local)
	}
	switch cmd.Type {
	case types.TypeRoll, types.TypeMakePick, types.TypePreviewSelection:
		if turn := s.view.State.CurrentTurn; turn != "" {
			return s.client(turn)
		}
	}
	return s.host
}

func (s *Session) refresh() {
	s.view = s.buildView()
	st := s.view.State
	s.driver.Observe(st.Spinning, st.Stage, func() []string {
		return spin.Pool(st.Stage, s.desc.Rules, s.poolTeams(st.Constraint))
	})
	s.publish()
}

// poolTeams narrows the catalogue to the window rolled so far.
func (s *Session) poolTeams(rolled *draft.Constraint) []draft.Team {
	if rolled == nil || !rolled.HasYearWindow() {
		return s.teams
	}
	var out []draft.Team
	for _, t := range s.teams {
		if t.ActiveIn(*rolled.YearStart, *rolled.YearEnd) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Session) buildView() View {
	var host, guest *channel.State
	if s.mode == ModeLocal || s.local == draft.RoleHost {
		host = &s.hostState
	}
	if s.mode == ModeLocal || s.local == draft.RoleGuest {
		guest = &s.guestState
	}
	src := Reconcile(s.mode, s.local, host, guest)

	v := View{
		Mode:      s.mode,
		LocalRole: s.local,
		Identity:  s.me,
		Session:   s.desc,
		Source:    src.Kind,
		State:     src.State,
		Connected: src.Connected,
		Conns: map[draft.Role]channel.ConnStatus{
			draft.RoleHost:  s.hostState.Conn,
			draft.RoleGuest: s.guestState.Conn,
		},
		OnlyEligible: s.desc.Rules.SuggestEligible(),
		Warnings:     s.warnings,
	}
	if src.Kind == SourceNone {
		v.State = channel.Disabled(s.local, s.desc.Rules.Snake())
	}
	if v.State.OnlyEligible != nil {
		v.OnlyEligible = *v.State.OnlyEligible
	}
	if v.State.DraftName != "" {
		v.Session.Name = v.State.DraftName
	}

	rules := s.desc.Rules
	switch {
	case !rules.HasSpin():
		c := s.static.Clone()
		v.Constraint = &c
	case v.State.Constraint != nil:
		c := eligibility.Combine(rules, v.State.Constraint, s.static)
		if rules.Spins(draft.FieldTeam) {
			c = eligibility.Expand(s.teams, c)
		}
		v.Constraint = &c
	}
	return v
}

func (s *Session) publish() {
	v := s.view
	select {
	case s.views <- v:
		return
	default:
	}
	select {
	case <-s.views:
	default:
	}
	select {
	case s.views <- v:
	default:
	}
}
