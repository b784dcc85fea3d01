package nbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Stepper advances a Universe by one fixed interval per call.
type Stepper struct {
	// Dt is the fixed step. A caller-supplied frame delta is clamped to it.
	Dt float32
}

func NewStepper(dt float32) (*Stepper, error) {
	if !finite(dt) || dt <= 0 {
		return nil, ErrInvalidTimestep
	}
	return &Stepper{Dt: dt}, nil
}

// EffectiveStep returns min(frameDelta, Dt). A negative or NaN frame delta
// yields 0 so that a misbehaving clock never moves bodies backwards.
func (s *Stepper) EffectiveStep(frameDelta float32) float32 {
	if !(frameDelta > 0) {
		return 0
	}
	if frameDelta < s.Dt {
		return frameDelta
	}
	return s.Dt
}

// Step runs one tick: accelerations, then velocities, then positions. It
// returns the integration step actually used.
func (s *Stepper) Step(u *Universe, frameDelta float32) float32 {
	h := s.EffectiveStep(frameDelta)
	s.AccumulateAccelerations(u)
	s.IntegrateVelocities(u, h)
	s.IntegratePositions(u, h)
	return h
}

// AccumulateAccelerations recomputes every body's acceleration from the
// current positions. Each unordered pair is visited once: body i is paired
// with every j < i, and the force is added to i and subtracted from j.
// Net force is converted to acceleration only after all pairs are done.
func (s *Stepper) AccumulateAccelerations(u *Universe) {
	bodies := u.bodies
	for i := range bodies {
		bi := &bodies[i]
		bi.Acceleration = mgl32.Vec3{}
		for j := 0; j < i; j++ {
			bj := &bodies[j]
			f, ok := pairForce(bi.Position, bj.Position, bi.mass, bj.mass, u.g)
			if !ok {
				continue
			}
			bi.Acceleration = bi.Acceleration.Add(f)
			bj.Acceleration = bj.Acceleration.Sub(f)
		}
	}

	// a = F/m
	for i := range bodies {
		m := bodies[i].mass
		a := bodies[i].Acceleration
		bodies[i].Acceleration = mgl32.Vec3{a[0] / m, a[1] / m, a[2] / m}
	}
}

// IntegrateVelocities applies v += a*h to every body.
func (s *Stepper) IntegrateVelocities(u *Universe, h float32) {
	for i := range u.bodies {
		b := &u.bodies[i]
		b.Velocity = b.Velocity.Add(b.Acceleration.Mul(h))
	}
}

// IntegratePositions applies p += v*h to every body using the velocity
// already updated for this tick.
func (s *Stepper) IntegratePositions(u *Universe, h float32) {
	for i := range u.bodies {
		b := &u.bodies[i]
		b.Position = b.Position.Add(b.Velocity.Mul(h))
	}
}

// PairForce returns the gravitational force exerted on a by b. The second
// result is false when the pair is skipped because the separation cannot be
// normalised.
func PairForce(a, b Body, g float32) (mgl32.Vec3, bool) {
	return pairForce(a.Position, b.Position, a.mass, b.mass, g)
}

// pairForce derives both the unit direction and the squared distance from
// one difference vector.
func pairForce(pa, pb mgl32.Vec3, ma, mb, g float32) (mgl32.Vec3, bool) {
	diff := pb.Sub(pa)
	d2 := diff.Dot(diff)
	inv := float32(1 / math.Sqrt(float64(d2)))
	if !finite(inv) || !(inv > 0) {
		return mgl32.Vec3{}, false
	}
	magnitude := g * ma * mb / d2
	return diff.Mul(inv).Mul(magnitude), true
}
