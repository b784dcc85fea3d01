package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	stateMenu = iota
	stateSim
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// menu lists the registered scenarios and launches the live view for the
// chosen one.
type menu struct {
	state     int
	cursor    int
	registry  *scenario.Registry
	params    scenario.Params
	speed     float64
	names     []string
	descs     []string
	err       error
	liveModel Model
}

func newMenu(reg *scenario.Registry, params scenario.Params, speed float64) menu {
	m := menu{registry: reg, params: params, speed: speed, names: reg.Names()}
	m.descs = make([]string, len(m.names))
	for i, name := range m.names {
		if s, err := reg.Get(name, params); err == nil {
			m.descs[i] = s.Description
		}
	}
	return m
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.state = stateMenu
			return m, nil
		}
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

func (m *menu) start() tea.Cmd {
	s, err := m.registry.Get(m.names[m.cursor], m.params)
	if err != nil {
		m.err = err
		return nil
	}
	u, err := s.Universe()
	if err != nil {
		m.err = err
		return nil
	}
	stepper, err := nbody.NewStepper(float32(s.Dt))
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.liveModel = NewModel(s, u, stepper, sim.NewClock(s.Dt, m.speed, sim.DefaultMaxTicks))
	m.state = stateSim
	return m.liveModel.Init()
}

func (m menu) View() string {
	if m.state == stateSim {
		return m.liveModel.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("ORBITSIM", colorful.Color{R: 0, G: 0.8, B: 0.8}, colorful.Color{R: 1, G: 0.5, B: 1}) +
		"\n    " + Subtle.Render("fixed-step gravitational n-body") +
		"\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.names {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(m.descs[i])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleDescStyle.Render(m.descs[i])))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + SparkLow.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") +
		keyStyle.Render("enter") + idleStyle.Render(" select  ") +
		keyStyle.Render("esc") + idleStyle.Render(" back  ") +
		keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive shows the scenario menu.
func RunInteractive(reg *scenario.Registry, params scenario.Params, speed float64) error {
	_, err := tea.NewProgram(newMenu(reg, params, speed), tea.WithAltScreen()).Run()
	return err
}
