package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/nbody"
)

const (
	DefaultSwarmBodies = 64
	swarmCoreMass      = 1.0
	swarmMeanMass      = 1e-3
	swarmDampening     = 0.9
)

// Swarm places a heavy core at the origin and scatters light bodies around
// it in a thick disk, each launched on a roughly circular orbit about the
// z axis. The same seed always yields the same swarm.
func Swarm(p Params) (*Scenario, error) {
	n := p.NumBodies
	if n == 0 {
		n = DefaultSwarmBodies
	}
	if n < 2 {
		return nil, fmt.Errorf("swarm needs at least 2 bodies, got %d", n)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	bodies := make([]nbody.BodySpec, n)
	bodies[0] = nbody.BodySpec{Name: "core", Mass: swarmCoreMass}

	axis := mgl64.Vec3{0, 0, 1}
	for i := 1; i < n; i++ {
		m := math.Abs(rng.NormFloat64()*swarmMeanMass*0.1 + swarmMeanMass)
		pos := mgl64.Vec3{
			rng.NormFloat64(),
			rng.NormFloat64(),
			rng.NormFloat64() * 0.1,
		}

		d := pos.Len()
		if d < 0.1 {
			pos = pos.Add(mgl64.Vec3{0.1, 0, 0})
			d = pos.Len()
		}
		dir := axis.Cross(pos.Mul(1 / d))
		if l := dir.Len(); l > 0 {
			dir = dir.Mul(1 / l)
		}
		v := math.Sqrt(swarmCoreMass/d) * swarmDampening

		bodies[i] = nbody.BodySpec{
			Name:     fmt.Sprintf("b%d", i),
			Mass:     float32(m),
			Position: vec32(pos),
			Velocity: vec32(dir.Mul(v)),
		}
	}

	return &Scenario{
		Name:        "swarm",
		Description: fmt.Sprintf("%d seeded bodies orbiting a heavy core", n),
		G:           1,
		Dt:          0.001,
		Bodies:      bodies,
	}, nil
}
