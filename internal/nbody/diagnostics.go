package nbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Conserved quantities are summed in float64 so that the diagnostic itself
// adds as little error as possible to the float32 state it measures.

func vec64(v [3]float32) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func TotalMass(u *Universe) float64 {
	m := 0.0
	for i := range u.bodies {
		m += float64(u.bodies[i].mass)
	}
	return m
}

// Momentum returns the total linear momentum sum(m_i * v_i).
func Momentum(u *Universe) mgl64.Vec3 {
	var p mgl64.Vec3
	for i := range u.bodies {
		b := &u.bodies[i]
		p = p.Add(vec64(b.Velocity).Mul(float64(b.mass)))
	}
	return p
}

// AngularMomentum returns sum(m_i * r_i x v_i) about the origin.
func AngularMomentum(u *Universe) mgl64.Vec3 {
	var l mgl64.Vec3
	for i := range u.bodies {
		b := &u.bodies[i]
		l = l.Add(vec64(b.Position).Cross(vec64(b.Velocity)).Mul(float64(b.mass)))
	}
	return l
}

func CenterOfMass(u *Universe) mgl64.Vec3 {
	var c mgl64.Vec3
	for i := range u.bodies {
		b := &u.bodies[i]
		c = c.Add(vec64(b.Position).Mul(float64(b.mass)))
	}
	return c.Mul(1 / TotalMass(u))
}

func KineticEnergy(u *Universe) float64 {
	ke := 0.0
	for i := range u.bodies {
		b := &u.bodies[i]
		v := vec64(b.Velocity)
		ke += 0.5 * float64(b.mass) * v.Dot(v)
	}
	return ke
}

// PotentialEnergy returns -sum G*m_i*m_j/r_ij over unordered pairs. Pairs at
// zero separation are skipped, matching the force policy.
func PotentialEnergy(u *Universe) float64 {
	g := float64(u.g)
	pe := 0.0
	for i := range u.bodies {
		pi := vec64(u.bodies[i].Position)
		for j := 0; j < i; j++ {
			r := vec64(u.bodies[j].Position).Sub(pi).Len()
			if r == 0 || math.IsInf(r, 0) || math.IsNaN(r) {
				continue
			}
			pe -= g * float64(u.bodies[i].mass) * float64(u.bodies[j].mass) / r
		}
	}
	return pe
}

func TotalEnergy(u *Universe) float64 {
	return KineticEnergy(u) + PotentialEnergy(u)
}

// Extent returns the largest distance of any body from the centre of mass.
func Extent(u *Universe) float64 {
	com := CenterOfMass(u)
	far := 0.0
	for i := range u.bodies {
		if d := vec64(u.bodies[i].Position).Sub(com).Len(); d > far {
			far = d
		}
	}
	return far
}
