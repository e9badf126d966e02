package channel

import "time"

const DefaultReconnectDelay = 500 * time.Millisecond

// ReconnectPolicy decides how long to wait before redialing. attempt
// counts failures since the last successful connect, starting at 0.
type ReconnectPolicy interface {
	Next(attempt int) time.Duration
}

// FixedDelay retries forever at the same interval.
type FixedDelay time.Duration

func (d FixedDelay) Next(int) time.Duration { return time.Duration(d) }

// reconnector owns at most one pending retry timer.
type reconnector struct {
	policy  ReconnectPolicy
	timer   *time.Timer
	attempt int
}

func (r *reconnector) schedule(fire func()) time.Duration {
	r.cancel()
	d := r.policy.Next(r.attempt)
	r.attempt++
	r.timer = time.AfterFunc(d, fire)
	return d
}

func (r *reconnector) cancel() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *reconnector) reset() { r.attempt = 0 }
