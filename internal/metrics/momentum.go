package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/nbody"
)

// MomentumDrift is the largest |P-P0| seen, in absolute units.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(u *nbody.Universe, t float64) {
	p := nbody.Momentum(u)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

// AngularMomentumDrift is the largest |L-L0| seen.
type AngularMomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift"}
}

func (m *AngularMomentumDrift) Name() string { return m.name }

func (m *AngularMomentumDrift) Observe(u *nbody.Universe, t float64) {
	l := nbody.AngularMomentum(u)
	if m.samples == 0 {
		m.initial = l
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, l.Sub(m.initial).Len())
}

func (m *AngularMomentumDrift) Value() float64 { return m.maxDrift }

func (m *AngularMomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}
