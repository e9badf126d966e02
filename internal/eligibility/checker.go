package eligibility

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/detailcache"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

type DetailSource interface {
	PlayerDetail(ctx context.Context, id int) (draft.PlayerDetail, error)
}

// Checker evaluates players, fetching detail on demand. A failed fetch
// yields Pending with Err set and nothing is cached, so the next check
// retries.
type Checker struct {
	source DetailSource
	cache  detailcache.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewChecker(source DetailSource, cache detailcache.Store, logger *zap.Logger) *Checker {
	return &Checker{source: source, cache: cache, logger: logger, now: time.Now}
}

func (c *Checker) Check(ctx context.Context, p draft.Player, con draft.Constraint, picked PickedSet) Result {
	year := c.now().Year()

	cand := Candidate{Player: p}
	if d, ok := c.cached(ctx, p.ID); ok {
		cand.Detail = &d
	}
	res := Evaluate(cand, con, picked, year)
	if res.Verdict != Pending {
		return res
	}

	d, err := c.source.PlayerDetail(ctx, p.ID)
	if err != nil {
		c.logger.Debug("player detail fetch failed", zap.Int("player_id", p.ID), zap.Error(err))
		return Result{Verdict: Pending, Reason: ReasonDetailMissing, Err: err}
	}
	if err := c.cache.SavePlayerDetail(ctx, d); err != nil {
		c.logger.Warn("player detail cache write failed", zap.Int("player_id", p.ID), zap.Error(err))
	}
	cand = Candidate{Player: p, Detail: &d}
	return Evaluate(cand, con, picked, year)
}

func (c *Checker) cached(ctx context.Context, id int) (draft.PlayerDetail, bool) {
	d, err := c.cache.GetPlayerDetail(ctx, id)
	if err != nil {
		if !errors.Is(err, detailcache.ErrMiss) {
			c.logger.Warn("player detail cache read failed", zap.Int("player_id", id), zap.Error(err))
		}
		return draft.PlayerDetail{}, false
	}
	return d, true
}
