package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/backend"
	"github.com/DoyleJ11/hoops-draft-client/internal/channel"
	"github.com/DoyleJ11/hoops-draft-client/internal/detailcache"
	"github.com/DoyleJ11/hoops-draft-client/internal/detailcache/memory"
	redisstore "github.com/DoyleJ11/hoops-draft-client/internal/detailcache/redis"
	"github.com/DoyleJ11/hoops-draft-client/internal/eligibility"
	"github.com/DoyleJ11/hoops-draft-client/internal/reconcile"
	"github.com/DoyleJ11/hoops-draft-client/internal/spin"
)

// deps is everything a session needs, built once per command.
type deps struct {
	api      *backend.Client
	cache    detailcache.Store
	resolver *eligibility.Resolver
	checker  *eligibility.Checker
}

func (a *app) deps() (*deps, error) {
	api := backend.New(a.cfg.APIURL, a.cfg.Token, backend.WithLogger(a.logger.Named("backend")))

	var cache detailcache.Store = memory.New()
	if a.cfg.RedisURL != "" {
		rc := redisstore.DefaultConfig()
		rc.URL = a.cfg.RedisURL
		rc.DetailTTL = a.cfg.CacheTTL
		store, err := redisstore.New(rc)
		if err != nil {
			return nil, fmt.Errorf("connect detail cache: %w", err)
		}
		cache = store
		a.logger.Info("using redis detail cache")
	}

	return &deps{
		api:      api,
		cache:    cache,
		resolver: eligibility.NewResolver(api, cache, a.logger.Named("teams")),
		checker:  eligibility.NewChecker(api, cache, a.logger.Named("eligibility")),
	}, nil
}

func (d *deps) Close() error { return d.cache.Close() }

func (a *app) openSession(ctx context.Context, d *deps, ref string) (*reconcile.Session, error) {
	mode, err := reconcile.ParseMode(a.cfg.Mode)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if a.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+a.cfg.Token)
	}

	cfg := reconcile.Config{
		Mode:      mode,
		Backend:   d.api,
		Teams:     d.resolver,
		Transport: channel.WebsocketTransport{BaseURL: a.cfg.WSURL, Header: header},
		Reconnect: channel.FixedDelay(a.cfg.ReconnectDelay),
		Logger:    a.logger.Named("session"),
	}
	seed := a.cfg.SpinSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	cfg.Spin = spin.NewScheduler(spin.NewRandom(seed), a.cfg.SpinDuration, a.cfg.SpinSteps)

	s, err := reconcile.Open(ctx, ref, cfg)
	if err != nil {
		return nil, err
	}
	a.logger.Info("connected", zap.String("ref", s.Descriptor().Ref()), zap.String("mode", string(s.Mode())))
	return s, nil
}
