package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Extent is the largest distance of any body from the centre of mass over
// the run.
type Extent struct {
	name string
	max  float64
}

func NewExtent() *Extent {
	return &Extent{name: "extent"}
}

func (e *Extent) Name() string { return e.name }

func (e *Extent) Observe(u *nbody.Universe, t float64) {
	e.max = math.Max(e.max, nbody.Extent(u))
}

func (e *Extent) Value() float64 { return e.max }

func (e *Extent) Reset() { e.max = 0 }

// Stability is the fraction of observations in which every body stayed
// within threshold of the centre of mass and the state was finite.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(u *nbody.Universe, t float64) {
	s.samples++
	if !u.Finite() || nbody.Extent(u) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// EscapeFactor scales the initial extent into the Stability threshold used
// by Standard.
const EscapeFactor = 4.0

// Standard returns the metric set used by batch runs. Stability counts an
// observation as unstable once any body is farther than EscapeFactor times
// u's initial extent from the centre of mass.
func Standard(u *nbody.Universe) []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewAngularMomentumDrift(),
		NewExtent(),
		NewStability(EscapeFactor * nbody.Extent(u)),
	}
}
