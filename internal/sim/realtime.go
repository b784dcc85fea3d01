package sim

import (
	"context"
	"time"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// RunRealtime steps u against wall-clock time until ctx is done. Every frame
// the clock decides how many fixed ticks are due; each runs with a frame
// delta equal to the clock's step. Metrics see every tick, observers see the
// state once per frame after all of that frame's ticks.
func (s *Simulator) RunRealtime(ctx context.Context, u *nbody.Universe, clock *Clock, frame time.Duration) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	s.resetMetrics(u)

	dt := float32(clock.Step())
	tick := 0
	t := 0.0
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			due := clock.Advance(now.Sub(last))
			last = now
			if due == 0 {
				continue
			}

			for k := 0; k < due; k++ {
				t += float64(s.stepper.Step(u, dt))
				tick++
				s.observeMetrics(u, t)
			}

			for _, obs := range s.observers {
				obs.OnTick(tick, t, u)
			}
		}
	}
}

// Metrics returns the current value of every registered metric. It is safe
// to call while RunRealtime is running on another goroutine.
func (s *Simulator) Metrics() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
