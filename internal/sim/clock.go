package sim

import (
	"math"
	"sync"
	"time"
)

// DefaultMaxTicks bounds how many fixed steps a single Advance may release.
const DefaultMaxTicks = 8

// DefaultStep replaces a step that is not a positive finite number.
const DefaultStep = 0.01

// Clock converts variable wall-clock frame durations into a whole number of
// fixed simulation ticks. Leftover time carries over to the next frame.
// Speed scales simulated time per wall second; at speed 1 the rate is 1/step
// ticks per second. Clock is safe for concurrent use so that remote controls
// can change speed or pause while the loop is running.
type Clock struct {
	mu       sync.Mutex
	step     float64
	speed    float64
	maxTicks int
	acc      float64
	paused   bool
}

func NewClock(step, speed float64, maxTicks int) *Clock {
	if !(step > 0) || math.IsInf(step, 0) {
		step = DefaultStep
	}
	if speed <= 0 || math.IsNaN(speed) {
		speed = 1
	}
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	return &Clock{step: step, speed: speed, maxTicks: maxTicks}
}

func (c *Clock) Step() float64 { return c.step }

// Advance accounts for elapsed wall time and returns the number of ticks
// due. When more than maxTicks are due the backlog beyond the cap is dropped
// so a stalled frame cannot trigger an ever-growing catch-up.
func (c *Clock) Advance(elapsed time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused || elapsed <= 0 {
		return 0
	}

	c.acc += elapsed.Seconds() * c.speed
	n := int(c.acc / c.step)
	if n > c.maxTicks {
		n = c.maxTicks
		c.acc = 0
		return n
	}
	c.acc -= float64(n) * c.step
	return n
}

func (c *Clock) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *Clock) SetSpeed(speed float64) {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return
	}
	c.mu.Lock()
	c.speed = speed
	c.mu.Unlock()
}

func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *Clock) SetPaused(p bool) {
	c.mu.Lock()
	c.paused = p
	c.acc = 0
	c.mu.Unlock()
}

func (c *Clock) Reset() {
	c.mu.Lock()
	c.acc = 0
	c.mu.Unlock()
}
