package scenario

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// GravitationalConstant is G in SI units (m^3 kg^-1 s^-2).
const GravitationalConstant float32 = 6.67430e-11

var (
	figureEightPositions = [3]mgl32.Vec3{
		{0.9700044, -0.2430875, 0},
		{-0.9700044, 0.2430875, 0},
		{0, 0, 0},
	}
	figureEightVelocities = [3]mgl32.Vec3{
		{0.4662037, 0.4323658, 0},
		{0.4662037, 0.4323658, 0},
		{-0.9324074, -0.8647315, 0},
	}
	figureEightColors = []colorful.Color{
		{R: 0.25, G: 0.8, B: 0.35},
		{R: 0.9, G: 0.3, B: 0.3},
		{R: 0.3, G: 0.45, B: 0.95},
	}
)

// FigureEight is the Chenciner-Montgomery three-body choreography with
// unit masses and G = 1. The period is about 6.3259 time units.
func FigureEight() *Scenario {
	return figureEight("figure8", "three equal masses chasing each other around a figure-eight", 1, 1)
}

// FigureEightSI is the same orbit with the physical G and masses of 1/G,
// so every product G*m is one.
func FigureEightSI() *Scenario {
	return figureEight("figure8-si", "figure-eight with SI gravitational constant and m = 1/G",
		GravitationalConstant, 1/GravitationalConstant)
}

func figureEight(name, desc string, g, mass float32) *Scenario {
	bodies := make([]nbody.BodySpec, 3)
	for i := range bodies {
		bodies[i] = nbody.BodySpec{
			Name:     []string{"green", "red", "blue"}[i],
			Mass:     mass,
			Position: figureEightPositions[i],
			Velocity: figureEightVelocities[i],
		}
	}
	colors := make([]colorful.Color, len(figureEightColors))
	copy(colors, figureEightColors)

	return &Scenario{
		Name:        name,
		Description: desc,
		G:           g,
		Dt:          0.01,
		Bodies:      bodies,
		Colors:      colors,
	}
}

// Binary is two unit masses one unit apart on a circular orbit about
// their common centre, which stays at the origin.
func Binary() *Scenario {
	const v = 0.70710677
	return &Scenario{
		Name:        "binary",
		Description: "two equal masses on a circular orbit",
		G:           1,
		Dt:          0.01,
		Bodies: []nbody.BodySpec{
			{Name: "a", Mass: 1, Position: mgl32.Vec3{-0.5, 0, 0}, Velocity: mgl32.Vec3{0, -v, 0}},
			{Name: "b", Mass: 1, Position: mgl32.Vec3{0.5, 0, 0}, Velocity: mgl32.Vec3{0, v, 0}},
		},
	}
}
