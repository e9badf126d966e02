// Package spin animates the cosmetic preview values shown while the server
// rolls a constraint. It never decides a result; the rolled value always
// arrives from the server.
package spin

import (
	"math"
	"time"
)

const (
	DefaultDuration = 800 * time.Millisecond
	DefaultSteps    = 100
)

// EaseInExpo maps progress t in [0, 1] to 2^(10(t-1)), pinned to exactly 0
// and 1 at the ends.
func EaseInExpo(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return math.Pow(2, 10*(t-1))
}

// Delays returns, for each step, its offset from the start of the spin.
// Offsets are non-decreasing, the first is 0 and the last is duration.
func Delays(duration time.Duration, steps int) []time.Duration {
	if steps <= 0 {
		return nil
	}
	if steps == 1 {
		return []time.Duration{duration}
	}
	out := make([]time.Duration, steps)
	for i := range out {
		t := float64(i) / float64(steps-1)
		out[i] = time.Duration(math.Round(float64(duration) * EaseInExpo(t)))
	}
	return out
}
