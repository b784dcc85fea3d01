package nbody

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDiagnostics(t *testing.T) {
	u, err := NewUniverse(2, []BodySpec{
		{Mass: 1, Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{0, 2, 0}},
		{Mass: 3, Position: mgl32.Vec3{4, 0, 0}, Velocity: mgl32.Vec3{0, -1, 0}},
	})
	if err != nil {
		t.Fatalf("NewUniverse failed: %v", err)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"total mass", TotalMass(u), 4},
		{"momentum y", Momentum(u)[1], -1},
		{"angular momentum z", AngularMomentum(u)[2], -12},
		{"centre of mass x", CenterOfMass(u)[0], 3},
		{"kinetic", KineticEnergy(u), 0.5*1*4 + 0.5*3*1},
		{"potential", PotentialEnergy(u), -2 * 1 * 3 / 4.0},
		{"total", TotalEnergy(u), 3.5 - 1.5},
		{"extent", Extent(u), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestPotentialEnergy_SkipsCoincident(t *testing.T) {
	u, _ := NewUniverse(1, []BodySpec{{Mass: 1}, {Mass: 1}})
	if pe := PotentialEnergy(u); pe != 0 {
		t.Errorf("PotentialEnergy() = %v, want 0", pe)
	}
}

func BenchmarkStep(b *testing.B) {
	for _, n := range []int{3, 64, 512} {
		specs := make([]BodySpec, n)
		for i := range specs {
			a := float64(i) * 2 * math.Pi / float64(n)
			specs[i] = BodySpec{
				Mass:     1,
				Position: mgl32.Vec3{float32(math.Cos(a)), float32(math.Sin(a)), float32(i%7) * 0.01},
			}
		}
		u, _ := NewUniverse(1, specs)
		st := &Stepper{Dt: 0.001}

		b.Run(fmt.Sprintf("Bodies-%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				st.Step(u, 0.001)
			}
		})
	}
}
