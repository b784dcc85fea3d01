package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 160
	frameRate       = 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a universe in real time. Every UI frame the elapsed wall
// time is handed to the clock, which decides how many fixed ticks to run.
type Model struct {
	scenario *scenario.Scenario
	initial  *nbody.Universe
	universe *nbody.Universe
	stepper  *nbody.Stepper
	clock    *sim.Clock

	tick      int
	t         float64
	last      time.Time
	tps       float64
	tpsTicks  int
	tpsSince  time.Time
	energy0   float64
	viewScale float64

	canvas     *Canvas
	camera     *Camera
	styles     []lipgloss.Style
	trails     [][]mgl64.Vec3
	showTrails bool

	energyHistory []float64
	extentHistory []float64
	width, height int
}

// NewModel takes ownership of u; the starting state is cloned so that r can
// restore it.
func NewModel(s *scenario.Scenario, u *nbody.Universe, stepper *nbody.Stepper, clock *sim.Clock) Model {
	extent := nbody.Extent(u)
	if extent == 0 || math.IsNaN(extent) {
		extent = 1
	}
	colors := s.Colors
	if len(colors) != u.Len() {
		colors = scenario.Palette(u.Len())
	}

	return Model{
		scenario:      s,
		initial:       u.Clone(),
		universe:      u,
		stepper:       stepper,
		clock:         clock,
		energy0:       nbody.TotalEnergy(u),
		viewScale:     1 / (1.2 * extent),
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		styles:        append(BodyStyles(colors), AxisStyle),
		trails:        make([][]mgl64.Vec3, u.Len()),
		showTrails:    true,
		energyHistory: make([]float64, 0, historyCapacity),
		extentHistory: make([]float64, 0, historyCapacity),
		width:         width,
		height:        height,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.clock.SetPaused(!m.clock.Paused())
		case "r":
			m.reset()
		case "c":
			m.showTrails = !m.showTrails
			if !m.showTrails {
				m.clearTrails()
			}
		case "[":
			m.clock.SetSpeed(m.clock.Speed() / 2)
		case "]":
			m.clock.SetSpeed(m.clock.Speed() * 2)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "0":
			m.camera.Reset()
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-statsStyle.GetWidth()-6, 20)
		m.height = max(msg.Height-3, 8)
		m.canvas = NewCanvas(m.width, m.height)
	case TickMsg:
		now := time.Time(msg)
		if m.last.IsZero() {
			m.last, m.tpsSince = now, now
		}
		m.advance(now.Sub(m.last))
		m.last = now
		if d := now.Sub(m.tpsSince); d >= time.Second {
			m.tps = float64(m.tpsTicks) / d.Seconds()
			m.tpsTicks, m.tpsSince = 0, now
		}
		return m, tick()
	}
	return m, nil
}

// advance runs the ticks due for elapsed wall time and records history.
// It returns the number of ticks run.
func (m *Model) advance(elapsed time.Duration) int {
	n := m.clock.Advance(elapsed)
	if n == 0 {
		return 0
	}

	dt := float32(m.clock.Step())
	for i := 0; i < n; i++ {
		m.t += float64(m.stepper.Step(m.universe, dt))
	}
	m.tick += n
	m.tpsTicks += n

	m.energyHistory = appendCapped(m.energyHistory, nbody.TotalEnergy(m.universe), historyCapacity)
	m.extentHistory = appendCapped(m.extentHistory, nbody.Extent(m.universe), historyCapacity)

	if m.showTrails {
		for i := range m.trails {
			m.trails[i] = appendCapped(m.trails[i], m.view(i), trailCapacity)
		}
	}
	return n
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	if len(s) >= capacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

// view returns body i's position in view units.
func (m *Model) view(i int) mgl64.Vec3 {
	p := m.universe.Position(i)
	return mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}.Mul(m.viewScale)
}

// reset restores the initial state.
func (m *Model) reset() {
	m.universe = m.initial.Clone()
	m.tick, m.t = 0, 0
	m.clock.Reset()
	m.energyHistory = m.energyHistory[:0]
	m.extentHistory = m.extentHistory[:0]
	m.clearTrails()
}

func (m *Model) clearTrails() {
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	sw, sh := m.canvas.Width*2, m.canvas.Height*4
	n := m.universe.Len()
	axisInk := 2*n + 1

	DrawAxes(m.canvas, m.camera, 0.3, axisInk)

	if m.showTrails {
		for i, trail := range m.trails {
			for _, p := range trail {
				if x, y, _, ok := m.camera.Project(p, sw, sh); ok {
					m.canvas.Plot(x, y, n+i+1)
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		x, y, _, ok := m.camera.Project(m.view(i), sw, sh)
		if !ok {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				m.canvas.Plot(x+dx, y+dy, i+1)
			}
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.styles))

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.scenario.Name),
		m.bodyColor(0), m.bodyColor(m.universe.Len()-1)) + "\n")
	s.WriteString(Subtle.Render(m.scenario.Description) + "\n\n")

	if m.clock.Paused() {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	energy := nbody.TotalEnergy(m.universe)
	drift := 0.0
	if m.energy0 != 0 {
		drift = math.Abs(energy-m.energy0) / math.Abs(m.energy0)
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3f", m.t))
	row("Tick", fmt.Sprintf("%d", m.tick))
	row("Speed", fmt.Sprintf("x%g", m.clock.Speed()))
	row("Ticks/s", fmt.Sprintf("%.0f", m.tps))
	row("Bodies", fmt.Sprintf("%d", m.universe.Len()))
	row("Energy", fmt.Sprintf("%.6g", energy))
	row("Drift", fmt.Sprintf("%.2e", drift))
	row("Momentum", fmt.Sprintf("%.2e", nbody.Momentum(m.universe).Len()))
	row("Extent", fmt.Sprintf("%.4g", nbody.Extent(m.universe)))
	s.WriteString(MetricLabel.Render("") + SparklineChart(m.extentHistory, 24) + "\n\n")

	s.WriteString(Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit\n[ ]:Speed +/-:Zoom 0:View\nx/y/z:Rotate C:Trails"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func (m Model) bodyColor(i int) colorful.Color {
	if i >= 0 && i < len(m.scenario.Colors) {
		return m.scenario.Colors[i]
	}
	return colorful.Color{R: 0, G: 0.8, B: 0.8}
}

// Run starts the live view on the alternate screen and blocks until quit.
func Run(s *scenario.Scenario, u *nbody.Universe, stepper *nbody.Stepper, clock *sim.Clock) error {
	_, err := tea.NewProgram(NewModel(s, u, stepper, clock), tea.WithAltScreen()).Run()
	return err
}
