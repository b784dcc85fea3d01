// Package scenario builds named initial conditions for the n-body kernel.
package scenario

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// Scenario is a complete, validated-on-build starting point: the
// gravitational constant, the recommended fixed step and the bodies.
type Scenario struct {
	Name        string
	Description string
	G           float32
	Dt          float64
	Bodies      []nbody.BodySpec
	Colors      []colorful.Color
}

// Params tunes the generated scenarios. Zero values select defaults.
type Params struct {
	NumBodies int
	Seed      int64
}

// Universe validates the bodies and returns a fresh body store.
func (s *Scenario) Universe() (*nbody.Universe, error) {
	return nbody.NewUniverse(s.G, s.Bodies)
}

// Names returns the body names in store order.
func (s *Scenario) Names() []string {
	names := make([]string, len(s.Bodies))
	for i, b := range s.Bodies {
		names[i] = b.Name
	}
	return names
}

// Palette returns n colours spread evenly around the HCL hue circle.
func Palette(n int) []colorful.Color {
	colors := make([]colorful.Color, n)
	for i := range colors {
		h := math.Mod(float64(i)*360/math.Max(float64(n), 1)+30, 360)
		colors[i] = colorful.Hcl(h, 0.6, 0.75).Clamped()
	}
	return colors
}

func (s *Scenario) fillColors() {
	if len(s.Colors) == len(s.Bodies) {
		return
	}
	s.Colors = Palette(len(s.Bodies))
}
