package nbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BodySpec is the setup record for one body.
type BodySpec struct {
	Name     string
	Mass     float32
	Position mgl32.Vec3
	Velocity mgl32.Vec3
}

// Validate checks the caller contract for a single body: strictly positive
// mass and finite position and velocity.
func (s BodySpec) Validate() error {
	if !finite(s.Mass) {
		return ErrNonFinite
	}
	if s.Mass <= 0 {
		return ErrNonPositiveMass
	}
	if !finiteVec(s.Position) || !finiteVec(s.Velocity) {
		return ErrNonFinite
	}
	return nil
}

// Body is a point mass. Mass is fixed at construction; Acceleration is
// scratch space that is only meaningful between the acceleration and
// velocity phases of a tick.
type Body struct {
	Name         string
	Position     mgl32.Vec3
	Velocity     mgl32.Vec3
	Acceleration mgl32.Vec3
	mass         float32
}

func newBody(s BodySpec) Body {
	return Body{
		Name:     s.Name,
		Position: s.Position,
		Velocity: s.Velocity,
		mass:     s.Mass,
	}
}

func (b Body) Mass() float32 { return b.mass }

func finite(f float32) bool {
	x := float64(f)
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func finiteVec(v mgl32.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
