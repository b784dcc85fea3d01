package scenario

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/nbody"
)

func TestRegistryBuildsEveryScenario(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.Names() {
		t.Run(name, func(t *testing.T) {
			s, err := r.Get(name, Params{NumBodies: 8, Seed: 1})
			if err != nil {
				t.Fatalf("Get(%s) failed: %v", name, err)
			}
			if s.Dt <= 0 {
				t.Errorf("non-positive dt %f", s.Dt)
			}
			if len(s.Colors) != len(s.Bodies) {
				t.Errorf("%d colours for %d bodies", len(s.Colors), len(s.Bodies))
			}
			u, err := s.Universe()
			if err != nil {
				t.Fatalf("Universe() failed: %v", err)
			}
			if u.Len() != len(s.Bodies) {
				t.Errorf("universe has %d bodies, want %d", u.Len(), len(s.Bodies))
			}
		})
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nonexistent", Params{}); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	names := NewRegistry().Names()
	want := []string{"binary", "figure8", "figure8-si", "solar", "swarm"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestFigureEightSIMatchesUnitSystem(t *testing.T) {
	unit, err := FigureEight().Universe()
	if err != nil {
		t.Fatal(err)
	}
	si, err := FigureEightSI().Universe()
	if err != nil {
		t.Fatal(err)
	}

	st, _ := nbody.NewStepper(0.01)
	st.AccumulateAccelerations(unit)
	st.AccumulateAccelerations(si)

	for i := 0; i < 3; i++ {
		a, b := unit.Body(i).Acceleration, si.Body(i).Acceleration
		if !a.ApproxEqualThreshold(b, 1e-4) {
			t.Errorf("body %d: unit %v vs SI %v", i, a, b)
		}
	}
}

func TestSwarmDeterministic(t *testing.T) {
	a, err := Swarm(Params{NumBodies: 32, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Swarm(Params{NumBodies: 32, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	c, err := Swarm(Params{NumBodies: 32, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Bodies {
		if a.Bodies[i] != b.Bodies[i] {
			t.Fatalf("body %d differs for equal seeds", i)
		}
	}
	if a.Bodies[5] == c.Bodies[5] {
		t.Error("different seeds produced the same body")
	}
}

func TestSwarmInvalid(t *testing.T) {
	if _, err := Swarm(Params{NumBodies: 1}); err == nil {
		t.Error("expected error for a single-body swarm")
	}
}

func TestSolar(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		bodies int
		err    bool
	}{
		{"default", 0, 9, false},
		{"inner", 5, 5, false},
		{"sun only", 1, 1, false},
		{"too many", 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Solar(Params{NumBodies: tt.n})
			if tt.err {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(s.Bodies) != tt.bodies {
				t.Errorf("got %d bodies, want %d", len(s.Bodies), tt.bodies)
			}
		})
	}
}

func TestSolarUnits(t *testing.T) {
	s, err := Solar(Params{NumBodies: 4})
	if err != nil {
		t.Fatal(err)
	}
	earth := s.Bodies[3]

	if r := earth.Position.Len(); math.Abs(float64(r)-1.0) > 0.01 {
		t.Errorf("earth at %f AU, want about 1", r)
	}
	// 2 pi AU per year
	if v := earth.Velocity.Len(); math.Abs(float64(v)-0.0172) > 0.0005 {
		t.Errorf("earth speed %f AU/day, want about 0.0172", v)
	}
	if m := s.Bodies[0].Mass; math.Abs(float64(m)-1.0) > 1e-3 {
		t.Errorf("sun mass %f, want 1", m)
	}

	u, err := s.Universe()
	if err != nil {
		t.Fatal(err)
	}
	if p := nbody.Momentum(u).Len(); p > 1e-9 {
		t.Errorf("total momentum %g, want 0", p)
	}
}

func TestPalette(t *testing.T) {
	colors := Palette(6)
	if len(colors) != 6 {
		t.Fatalf("expected 6 colours, got %d", len(colors))
	}
	for i, c := range colors {
		if !c.IsValid() {
			t.Errorf("colour %d out of gamut: %v", i, c)
		}
	}
	if colors[0] == colors[3] {
		t.Error("palette repeats colours")
	}
}
