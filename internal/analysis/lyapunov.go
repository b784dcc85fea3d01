package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// DefaultRenormEvery is how many ticks pass between separation
// measurements in LyapunovExponent.
const DefaultRenormEvery = 10

var (
	ErrBadPerturbation = errors.New("analysis: perturbation must be positive and finite")
	ErrBadTicks        = errors.New("analysis: tick count must be positive")
	ErrDiverged        = errors.New("analysis: trajectory became non-finite")
)

// LyapunovExponent estimates the largest Lyapunov exponent of u by
// following a copy whose first body is displaced by eps along x.
// Every DefaultRenormEvery ticks the phase-space separation d is measured,
// ln(d/eps) is accumulated and the copy is pulled back to distance eps
// along the same direction. u is not modified.
func LyapunovExponent(u *nbody.Universe, stepper *nbody.Stepper, ticks int, eps float32) (float64, error) {
	if ticks <= 0 {
		return 0, ErrBadTicks
	}
	if !(eps > 0) || math.IsInf(float64(eps), 0) {
		return 0, ErrBadPerturbation
	}

	ref := u.Clone()
	specs := u.Specs()
	specs[0].Position[0] += eps
	pert, err := nbody.NewUniverse(u.G(), specs)
	if err != nil {
		return 0, err
	}
	d0 := separation(ref, pert)
	if d0 == 0 {
		return 0, ErrBadPerturbation
	}

	sumLog, elapsed := 0.0, 0.0
	for tick := 1; tick <= ticks; tick++ {
		h := stepper.Step(ref, stepper.Dt)
		stepper.Step(pert, stepper.Dt)
		elapsed += float64(h)

		if tick%DefaultRenormEvery != 0 && tick != ticks {
			continue
		}
		if !ref.Finite() || !pert.Finite() {
			return 0, ErrDiverged
		}
		d := separation(ref, pert)
		if d == 0 {
			continue
		}
		sumLog += math.Log(d / d0)
		if pert, err = rescale(ref, pert, d0/d); err != nil {
			return 0, err
		}
	}
	if elapsed == 0 {
		return 0, nil
	}
	return sumLog / elapsed, nil
}

// separation is the Euclidean distance between two universes in the
// combined position and velocity space.
func separation(a, b *nbody.Universe) float64 {
	sum := 0.0
	for i := 0; i < a.Len(); i++ {
		ba, bb := a.Body(i), b.Body(i)
		for axis := 0; axis < 3; axis++ {
			dp := float64(bb.Position[axis]) - float64(ba.Position[axis])
			dv := float64(bb.Velocity[axis]) - float64(ba.Velocity[axis])
			sum += dp*dp + dv*dv
		}
	}
	return math.Sqrt(sum)
}

func rescale(ref, pert *nbody.Universe, scale float64) (*nbody.Universe, error) {
	specs := pert.Specs()
	for i := range specs {
		r := ref.Body(i)
		for axis := 0; axis < 3; axis++ {
			dp := float64(specs[i].Position[axis]) - float64(r.Position[axis])
			dv := float64(specs[i].Velocity[axis]) - float64(r.Velocity[axis])
			specs[i].Position[axis] = r.Position[axis] + float32(dp*scale)
			specs[i].Velocity[axis] = r.Velocity[axis] + float32(dv*scale)
		}
	}
	return nbody.NewUniverse(pert.G(), specs)
}
