package spin

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

// Random picks preview values. *rand.Rand satisfies it; tests pass a
// seeded one.
type Random interface {
	IntN(n int) int
}

func NewRandom(seed uint64) Random {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type Frame struct {
	Stage draft.Field `json:"stage"`
	Step  int         `json:"step"`
	Value string      `json:"value"`
}

type Scheduler struct {
	rnd      Random
	duration time.Duration
	steps    int
}

func NewScheduler(rnd Random, duration time.Duration, steps int) *Scheduler {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if steps <= 0 {
		steps = DefaultSteps
	}
	return &Scheduler{rnd: rnd, duration: duration, steps: steps}
}

// Run emits one frame per step on the ease-in schedule and returns when the
// last step is emitted or ctx is cancelled, whichever comes first. It is
// not safe to call Run concurrently on one Scheduler.
func (s *Scheduler) Run(ctx context.Context, stage draft.Field, pool []string, emit func(Frame)) error {
	if len(pool) == 0 {
		return nil
	}
	delays := Delays(s.duration, s.steps)
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	var prev time.Duration
	for i, d := range delays {
		timer.Reset(d - prev)
		prev = d
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		emit(Frame{Stage: stage, Step: i, Value: pool[s.rnd.IntN(len(pool))]})
	}
	return nil
}
