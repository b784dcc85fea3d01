package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Experiment is one configured batch run: a resolved scenario, the
// universe built from it and a simulator carrying the standard metrics.
type Experiment struct {
	cfg       *config.Config
	scenario  *scenario.Scenario
	universe  *nbody.Universe
	stepper   *nbody.Stepper
	simulator *sim.Simulator
}

func New(cfg *config.Config, reg *scenario.Registry) (*Experiment, error) {
	s, u, err := cfg.Build(reg)
	if err != nil {
		return nil, err
	}

	stepper, err := nbody.NewStepper(float32(s.Dt))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	simulator := sim.New(stepper)
	for _, m := range metrics.Standard(u) {
		simulator.AddMetric(m)
	}

	return &Experiment{
		cfg:       cfg,
		scenario:  s,
		universe:  u,
		stepper:   stepper,
		simulator: simulator,
	}, nil
}

// SimConfig is the batch configuration: frame delta equal to the
// scenario step, for the configured duration.
func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.scenario.Dt,
		Duration:      e.cfg.Duration,
		SampleEvery:   e.cfg.SampleEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.universe, e.SimConfig())
}

func (e *Experiment) Scenario() *scenario.Scenario { return e.scenario }
func (e *Experiment) Universe() *nbody.Universe    { return e.universe }
func (e *Experiment) Stepper() *nbody.Stepper      { return e.stepper }
func (e *Experiment) Config() *config.Config       { return e.cfg }

// Simulator returns the underlying simulator so callers can attach
// observers before Run.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
