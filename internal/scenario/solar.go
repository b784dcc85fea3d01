package scenario

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// SolarG is G in AU^3 / (solar mass * day^2).
const SolarG float32 = 2.959122e-4

const (
	metersPerAU   = 1.495978707e11
	secondsPerDay = 86400.0
	kgPerSun      = 1.98847e30
)

type planet struct {
	name   string
	mass   float64 // kg
	x      float64 // m
	vy     float64 // m/s
	colour colorful.Color
}

// mean orbital radius and speed, planets alternating sides of the sun
var planets = []planet{
	{"sun", 1.9885e30, 0, 0, colorful.Color{R: 1, G: 0.85, B: 0.3}},
	{"mercury", 3.3011e23, (69816900e3 + 46001200e3) / 2, 47.362e3, colorful.Color{R: 0.6, G: 0.6, B: 0.6}},
	{"venus", 4.8675e24, -(108939000e3 + 107477000e3) / 2, -35.02e3, colorful.Color{R: 0.9, G: 0.75, B: 0.5}},
	{"earth", 5.97237e24, (152100000e3 + 147095000e3) / 2, 29.78e3, colorful.Color{R: 0.3, G: 0.5, B: 1}},
	{"mars", 6.4171e23, -(249200000e3 + 206700000e3) / 2, -24.007e3, colorful.Color{R: 0.9, G: 0.35, B: 0.2}},
	{"jupiter", 1.8982e27, (816.2e9 + 740.52e9) / 2, 13.07e3, colorful.Color{R: 0.85, G: 0.65, B: 0.45}},
	{"saturn", 5.6834e26, -(1514.5e9 + 1352.55e9) / 2, -9.68e3, colorful.Color{R: 0.9, G: 0.8, B: 0.55}},
	{"uranus", 8.681e25, (3.008e12 + 2.742e12) / 2, 6.8e3, colorful.Color{R: 0.55, G: 0.85, B: 0.9}},
	{"neptune", 1.02413e26, -(4.54e12 + 4.46e12) / 2, -5.43e3, colorful.Color{R: 0.3, G: 0.4, B: 0.9}},
}

// Solar builds the sun and the first p.NumBodies-1 planets (all eight by
// default) in AU, days and solar masses. SI products such as G*M_sun*M_jup
// overflow float32, so the table is rescaled in float64 before narrowing.
// The sun is given the velocity that zeroes total momentum.
func Solar(p Params) (*Scenario, error) {
	n := p.NumBodies
	if n == 0 {
		n = len(planets)
	}
	if n < 1 || n > len(planets) {
		return nil, fmt.Errorf("solar supports 1 to %d bodies, got %d", len(planets), n)
	}

	bodies := make([]nbody.BodySpec, n)
	colors := make([]colorful.Color, n)
	var momentum mgl64.Vec3
	for i := 0; i < n; i++ {
		pl := planets[i]
		m := pl.mass / kgPerSun
		v := mgl64.Vec3{0, pl.vy / metersPerAU * secondsPerDay, 0}
		momentum = momentum.Add(v.Mul(m))

		bodies[i] = nbody.BodySpec{
			Name:     pl.name,
			Mass:     float32(m),
			Position: mgl32.Vec3{float32(pl.x / metersPerAU), 0, 0},
			Velocity: vec32(v),
		}
		colors[i] = pl.colour
	}
	bodies[0].Velocity = vec32(momentum.Mul(-1 / float64(bodies[0].Mass)))

	desc := "sun and eight planets"
	if n < len(planets) {
		desc = fmt.Sprintf("sun and %d planets", n-1)
	}

	return &Scenario{
		Name:        "solar",
		Description: desc,
		G:           SolarG,
		Dt:          0.1,
		Bodies:      bodies,
		Colors:      colors,
	}, nil
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
