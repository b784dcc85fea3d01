package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// Ensemble runs independent universes concurrently. Each universe is stepped
// by its own Simulator on a single goroutine; force evaluation within a
// universe stays serial.
type Ensemble struct {
	stepper *nbody.Stepper
	metrics func() []Metric
	limit   int
}

// NewEnsemble creates an ensemble. metrics, if non-nil, is called once per
// run so that stateful metrics are never shared between goroutines. limit
// caps concurrent runs; zero or less means no cap.
func NewEnsemble(stepper *nbody.Stepper, metrics func() []Metric, limit int) *Ensemble {
	return &Ensemble{stepper: stepper, metrics: metrics, limit: limit}
}

func (e *Ensemble) Run(ctx context.Context, universes []*nbody.Universe, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(universes))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, u := range universes {
		i, u := i, u
		g.Go(func() error {
			s := New(e.stepper)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, u, cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
