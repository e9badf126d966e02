package eligibility

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/hoops-draft-client/internal/backend"
	"github.com/DoyleJ11/hoops-draft-client/internal/detailcache"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

type TeamSource interface {
	Teams(ctx context.Context, q backend.TeamQuery) ([]draft.Team, error)
}

// Resolver expands a rolled team constraint into its franchise segments.
// Team records are loaded per resolution through the cache.
type Resolver struct {
	source TeamSource
	cache  detailcache.Store
	logger *zap.Logger
}

func NewResolver(source TeamSource, cache detailcache.Store, logger *zap.Logger) *Resolver {
	return &Resolver{source: source, cache: cache, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, con draft.Constraint) (draft.Constraint, error) {
	if len(con.Segments) == 0 {
		return con, nil
	}

	var all, window []draft.Team
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = r.teams(gctx, nil, nil)
		return err
	})
	if con.HasYearWindow() {
		g.Go(func() error {
			var err error
			window, err = r.teams(gctx, con.YearStart, con.YearEnd)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return con, fmt.Errorf("resolve constraint teams: %w", err)
	}

	return Expand(append(slices.Clone(all), window...), con), nil
}

// Catalogue returns the unfiltered team list, cached.
func (r *Resolver) Catalogue(ctx context.Context) ([]draft.Team, error) {
	return r.teams(ctx, nil, nil)
}

// ActiveTeams returns the teams active somewhere in [start, end], cached.
func (r *Resolver) ActiveTeams(ctx context.Context, start, end int) ([]draft.Team, error) {
	return r.teams(ctx, &start, &end)
}

func (r *Resolver) teams(ctx context.Context, start, end *int) ([]draft.Team, error) {
	key := detailcache.TeamsKey(start, end)
	if r.cache != nil {
		teams, err := r.cache.GetTeams(ctx, key)
		if err == nil {
			return teams, nil
		}
		if !errors.Is(err, detailcache.ErrMiss) {
			r.logger.Warn("team cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	q := backend.TeamQuery{ActiveStartYear: start, ActiveEndYear: end, Limit: 500}
	teams, err := r.source.Teams(ctx, q)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		if err := r.cache.SaveTeams(ctx, key, teams); err != nil {
			r.logger.Warn("team cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return teams, nil
}
