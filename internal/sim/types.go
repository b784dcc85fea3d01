package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbitsim/internal/nbody"
)

// Observer is notified between ticks. It must not retain u.
type Observer interface {
	OnTick(tick int, t float64, u *nbody.Universe)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tick int, t float64, u *nbody.Universe)

func (f ObserverFunc) OnTick(tick int, t float64, u *nbody.Universe) { f(tick, t, u) }

type Metric interface {
	Name() string
	Observe(u *nbody.Universe, t float64)
	Value() float64
	Reset()
}

type Config struct {
	Dt            float64
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// Frame is a snapshot of every body's position after a tick.
type Frame struct {
	Tick      int
	Time      float64
	Positions []mgl32.Vec3
}

func NewFrame(tick int, t float64, u *nbody.Universe) Frame {
	return Frame{
		Tick:      tick,
		Time:      t,
		Positions: u.Positions(make([]mgl32.Vec3, 0, u.Len())),
	}
}

type Result struct {
	Frames  []Frame
	Metrics map[string]float64
	Ticks   int
}

// StepError reports the tick at which the state stopped being finite.
type StepError struct {
	Tick int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
