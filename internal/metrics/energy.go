package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// Energy reports the total energy at the most recent observation.
type Energy struct {
	name    string
	current float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(u *nbody.Universe, t float64) {
	e.current = nbody.TotalEnergy(u)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.current
}

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative deviation |E-E0|/|E0| seen since
// the first observation.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(u *nbody.Universe, t float64) {
	energy := nbody.TotalEnergy(u)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
