package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 100)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}
}

func TestCanvasPlotAndRender(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Plot(2, 0, 1)

	if c.Ink[0][1] != 1 {
		t.Errorf("ink = %d, want 1", c.Ink[0][1])
	}

	plain := c.Render(nil)
	if plain != c.String() {
		t.Errorf("Render without styles = %q, want %q", plain, c.String())
	}

	styled := c.Render([]lipgloss.Style{lipgloss.NewStyle().Bold(true)})
	if !strings.Contains(styled, string(rune(0x2801))) {
		t.Errorf("styled render lost the dot: %q", styled)
	}

	c.Clear()
	if c.Ink[0][1] != 0 || c.Grid[0][1] != 0x2800 {
		t.Error("Clear left ink or dots behind")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for col := 0; col < 4; col++ {
		if c.Grid[0][col] != 0x2809 {
			t.Errorf("cell %d = %U, want top row set", col, c.Grid[0][col])
		}
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera()

	x, y, _, ok := cam.Project(mgl64.Vec3{}, 100, 100)
	if !ok || x != 50 || y != 50 {
		t.Errorf("origin projected to (%d, %d, %v)", x, y, ok)
	}

	xr, _, _, _ := cam.Project(mgl64.Vec3{0.5, 0, 0}, 100, 100)
	_, yu, _, _ := cam.Project(mgl64.Vec3{0, 0.5, 0}, 100, 100)
	if xr <= 50 {
		t.Errorf("+x should project right of centre, got %d", xr)
	}
	if yu >= 50 {
		t.Errorf("+y should project above centre, got %d", yu)
	}

	cam.RotateZ(1.5707963)
	x2, y2, _, _ := cam.Project(mgl64.Vec3{0.5, 0, 0}, 100, 100)
	if absInt(x2-50) > 1 || y2 >= 50 {
		t.Errorf("+x rotated a quarter turn about z should point up, got (%d, %d)", x2, y2)
	}

	if _, _, _, ok := cam.Project(mgl64.Vec3{0, 0, 100}, 100, 100); ok {
		t.Error("point behind the camera reported visible")
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	s := scenario.FigureEight()
	u, err := s.Universe()
	if err != nil {
		t.Fatal(err)
	}
	st, err := nbody.NewStepper(float32(s.Dt))
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(s, u, st, sim.NewClock(s.Dt, 1, sim.DefaultMaxTicks))
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelAdvance(t *testing.T) {
	m := newTestModel(t)
	start := m.universe.Position(0)

	if n := m.advance(55 * time.Millisecond); n != 5 {
		t.Fatalf("expected 5 ticks, got %d", n)
	}
	if m.tick != 5 {
		t.Errorf("tick = %d, want 5", m.tick)
	}
	if m.universe.Position(0) == start {
		t.Error("universe did not move")
	}
	if len(m.energyHistory) != 1 || len(m.trails[0]) != 1 {
		t.Errorf("history not recorded: %d energies, %d trail points", len(m.energyHistory), len(m.trails[0]))
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(key(" "))
	m = next.(Model)
	if !m.clock.Paused() {
		t.Error("space should pause")
	}
	if n := m.advance(100 * time.Millisecond); n != 0 {
		t.Errorf("paused model ran %d ticks", n)
	}

	next, _ = m.Update(key(" "))
	m = next.(Model)
	next, _ = m.Update(key("]"))
	m = next.(Model)
	if m.clock.Speed() != 2 {
		t.Errorf("speed = %v, want 2", m.clock.Speed())
	}

	m.advance(30 * time.Millisecond)
	next, _ = m.Update(key("r"))
	m = next.(Model)
	if m.tick != 0 || m.t != 0 {
		t.Errorf("reset left tick=%d t=%f", m.tick, m.t)
	}
	if m.universe.Position(0) != m.initial.Position(0) {
		t.Error("reset did not restore positions")
	}

	next, _ = m.Update(key("c"))
	m = next.(Model)
	if m.showTrails {
		t.Error("c should hide trails")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m.advance(50 * time.Millisecond)
	m.advance(50 * time.Millisecond)

	out := m.View()
	for _, want := range []string{"RUNNING", "Tick", "Energy"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMenuStart(t *testing.T) {
	m := newMenu(scenario.NewRegistry(), scenario.Params{Seed: 1}, 1)
	if len(m.names) == 0 {
		t.Fatal("menu has no scenarios")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(menu)
	if m.state != stateSim {
		t.Fatalf("enter should start the live view, err=%v", m.err)
	}
	if m.liveModel.universe == nil {
		t.Error("live model has no universe")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(menu)
	if m.state != stateMenu {
		t.Error("esc should return to the menu")
	}
}
