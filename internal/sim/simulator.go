package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/orbitsim/internal/nbody"
)

type Simulator struct {
	stepper   *nbody.Stepper
	observers []Observer

	// mu guards metric state so Metrics may be read while a run is going.
	mu      sync.Mutex
	metrics []Metric
}

func New(stepper *nbody.Stepper) *Simulator {
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) {
	s.mu.Lock()
	s.metrics = append(s.metrics, m)
	s.mu.Unlock()
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances u by Duration/Dt ticks with a frame delta of Dt, sampling a
// frame every SampleEvery ticks. The initial state is always frame 0.
func (s *Simulator) Run(ctx context.Context, u *nbody.Universe, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
	}

	s.resetMetrics(u)

	t := 0.0
	dt := float32(cfg.Dt)
	result.Frames = append(result.Frames, NewFrame(0, t, u))

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		h := s.stepper.Step(u, dt)
		t += float64(h)
		result.Ticks = i

		if cfg.ValidateState && !u.Finite() {
			s.collect(result)
			return result, &StepError{Tick: i, Time: t, Err: nbody.ErrNonFinite}
		}

		s.observeMetrics(u, t)
		for _, obs := range s.observers {
			obs.OnTick(i, t, u)
		}

		if i%every == 0 || i == steps {
			result.Frames = append(result.Frames, NewFrame(i, t, u))
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) resetMetrics(u *nbody.Universe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Reset()
		m.Observe(u, 0)
	}
}

func (s *Simulator) observeMetrics(u *nbody.Universe, t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Observe(u, t)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if float32(cfg.Dt) > s.stepper.Dt {
		return fmt.Errorf("dt %g exceeds the stepper's fixed step %g", cfg.Dt, s.stepper.Dt)
	}
	return nil
}
