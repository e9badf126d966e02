package spin

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

// Driver runs at most one spin at a time and follows the observed roll
// stage: a new stage replaces the running spin, leaving the spinning state
// stops it.
type Driver struct {
	sched  *Scheduler
	logger *zap.Logger
	frames chan Frame

	stage  draft.Field
	active bool
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDriver(sched *Scheduler, logger *zap.Logger) *Driver {
	return &Driver{
		sched:  sched,
		logger: logger,
		frames: make(chan Frame, 1),
	}
}

// Frames delivers preview values. Slow readers only see the latest frame.
func (d *Driver) Frames() <-chan Frame { return d.frames }

// Running reports the stage currently animating.
func (d *Driver) Running() (draft.Field, bool) { return d.stage, d.active }

// Observe is called with every new view. pool is only consulted when a new
// spin starts.
func (d *Driver) Observe(spinning bool, stage draft.Field, pool func() []string) {
	if spinning && d.active && stage == d.stage {
		return
	}
	if !spinning && !d.active {
		return
	}
	d.Stop()
	if !spinning {
		return
	}
	d.start(stage, pool())
}

func (d *Driver) start(stage draft.Field, values []string) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	d.stage, d.active, d.cancel, d.done = stage, true, cancel, done

	d.logger.Debug("spin started", zap.String("stage", string(stage)), zap.Int("pool", len(values)))
	go func() {
		defer close(done)
		_ = d.sched.Run(ctx, stage, values, d.publish)
	}()
}

// Stop cancels the running spin and waits for it to exit, so no frame of
// an old stage is published after Stop returns.
func (d *Driver) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel, d.done = nil, nil
	d.stage, d.active = "", false
	select {
	case <-d.frames:
	default:
	}
}

func (d *Driver) publish(f Frame) {
	for {
		select {
		case d.frames <- f:
			return
		default:
		}
		select {
		case <-d.frames:
		default:
		}
	}
}
