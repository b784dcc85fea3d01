package nbody

import "github.com/go-gl/mathgl/mgl32"

// Universe is the ordered set of simulated bodies and the gravitational
// constant shared by all of them. Neither the body count nor G change after
// construction.
type Universe struct {
	g      float32
	bodies []Body
}

// NewUniverse builds a universe from setup records. The first invalid body
// is reported as a *SetupError wrapping one of the package's sentinel errors.
func NewUniverse(g float32, specs []BodySpec) (*Universe, error) {
	if !finite(g) || g <= 0 {
		return nil, ErrInvalidGravity
	}
	if len(specs) == 0 {
		return nil, ErrNoBodies
	}

	bodies := make([]Body, len(specs))
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, &SetupError{Index: i, Name: s.Name, Err: err}
		}
		bodies[i] = newBody(s)
	}

	return &Universe{g: g, bodies: bodies}, nil
}

func (u *Universe) G() float32 { return u.g }
func (u *Universe) Len() int   { return len(u.bodies) }

// Body returns a copy of body i. Mutating the copy does not affect the universe.
func (u *Universe) Body(i int) Body {
	return u.bodies[i]
}

func (u *Universe) Position(i int) mgl32.Vec3 {
	return u.bodies[i].Position
}

// Positions appends every body's position to dst, in index order, and
// returns the extended slice. Pass dst[:0] to reuse a buffer between ticks.
func (u *Universe) Positions(dst []mgl32.Vec3) []mgl32.Vec3 {
	for i := range u.bodies {
		dst = append(dst, u.bodies[i].Position)
	}
	return dst
}

// Names returns body labels in index order.
func (u *Universe) Names() []string {
	names := make([]string, len(u.bodies))
	for i := range u.bodies {
		names[i] = u.bodies[i].Name
	}
	return names
}

// Each calls fn for every body in index order with a copy of the body.
func (u *Universe) Each(fn func(i int, b Body)) {
	for i := range u.bodies {
		fn(i, u.bodies[i])
	}
}

// Specs returns the current state of every body as setup records.
func (u *Universe) Specs() []BodySpec {
	specs := make([]BodySpec, len(u.bodies))
	for i, b := range u.bodies {
		specs[i] = BodySpec{Name: b.Name, Mass: b.mass, Position: b.Position, Velocity: b.Velocity}
	}
	return specs
}

// Clone returns an independent deep copy.
func (u *Universe) Clone() *Universe {
	bodies := make([]Body, len(u.bodies))
	copy(bodies, u.bodies)
	return &Universe{g: u.g, bodies: bodies}
}

// Finite reports whether every position and velocity is finite.
func (u *Universe) Finite() bool {
	for i := range u.bodies {
		if !finiteVec(u.bodies[i].Position) || !finiteVec(u.bodies[i].Velocity) {
			return false
		}
	}
	return true
}
