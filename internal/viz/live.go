package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/motion2d/internal/metrics"
	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	frameInterval   = time.Second / 60
)

// Builder assembles a fresh simulator and scene. It is called again on
// reset so hooks start from a clean state.
type Builder func() (*sim.Simulator, *scene.Scene, error)

// Setup is everything the live view needs to run a scene.
type Setup struct {
	Title    string
	Build    Builder
	Min, Max mgl64.Vec2
	Dt       float64
}

type snapshot struct {
	scene *scene.Scene
	t     float64
}

type TickMsg time.Time

// Model steps a scene in real time and draws it with a stats sidebar.
type Model struct {
	setup      Setup
	sim        *sim.Simulator
	scene      *scene.Scene
	t          float64
	renderer   *Renderer
	running    bool
	err        error
	energy     []float64
	population []float64
	history    []snapshot
	playHead   int
	showHelp   bool
}

func NewModel(setup Setup) (Model, error) {
	s, sc, err := setup.Build()
	if err != nil {
		return Model{}, err
	}
	return Model{
		setup:      setup,
		sim:        s,
		scene:      sc,
		renderer:   NewRenderer(width, height, setup.Min, setup.Max),
		running:    true,
		energy:     make([]float64, 0, historyCapacity),
		population: make([]float64, 0, historyCapacity),
		history:    make([]snapshot, 0, historyCapacity),
		playHead:   -1,
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
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
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "s":
			if !m.running && m.playHead == -1 && m.err == nil {
				m.step()
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances the scene by one fixed step and records history.
func (m *Model) step() {
	if err := m.sim.Step(m.scene, m.t, m.setup.Dt); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.t += m.setup.Dt

	m.energy = appendCapped(m.energy, metrics.Kinetic(m.scene))
	m.population = appendCapped(m.population, float64(m.scene.Len()))

	m.history = append(m.history, snapshot{scene: m.scene.Clone(), t: m.t})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// scrub moves the playback position through recorded history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the scene and its hooks from scratch.
func (m *Model) reset() {
	s, sc, err := m.setup.Build()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.sim, m.scene = s, sc
	m.t = 0
	m.err = nil
	m.running = true
	m.energy = m.energy[:0]
	m.population = m.population[:0]
	m.history = m.history[:0]
	m.playHead = -1
}

// current returns the scene and time on display.
func (m Model) current() (*scene.Scene, float64) {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		snap := m.history[m.playHead]
		return snap.scene, snap.t
	}
	return m.scene, m.t
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusError.Render("ERROR")
	case m.playHead != -1:
		back := m.history[m.playHead].t - m.t
		if m.running {
			return StatusPaused.Render(fmt.Sprintf("REPLAYING (%.1fs)", back))
		}
		return StatusPaused.Render(fmt.Sprintf("REPLAY PAUSED (%.1fs)", back))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	sc, t := m.current()
	m.renderer.Draw(sc)
	canvasView := canvasStyle.Foreground(CurrentTheme.Canvas).Render(m.renderer.String())

	var s strings.Builder
	theme := CurrentTheme
	s.WriteString(HeaderStyle.Foreground(theme.Accent).Render(strings.ToUpper(m.setup.Title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	statics, hits := 0, 0
	for _, b := range sc.Bodies() {
		if o := b.Base(); o.Static {
			statics++
			if o.Colliding {
				hits++
			}
		}
	}

	value := MetricValue.Foreground(theme.Text)
	s.WriteString(MetricLabel.Render("Time") + value.Render(fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(MetricLabel.Render("Particles") + value.Render(fmt.Sprintf("%d", len(sc.Particles))) + "\n")
	s.WriteString(MetricLabel.Render("Rigidbodies") + value.Render(fmt.Sprintf("%d", len(sc.Rigidbodies))) + "\n")
	s.WriteString(MetricLabel.Render("Static hits") + value.Render(fmt.Sprintf("%d/%d", hits, statics)) + "\n")
	s.WriteString(MetricLabel.Render("Energy") + value.Render(fmt.Sprintf("%.1f", metrics.Kinetic(sc))) + "\n")
	s.WriteString(MetricLabel.Render("Population") + Sparkline(m.population, 20) + "\n")
	if m.err != nil {
		s.WriteString("\n" + StatusError.Foreground(theme.Error).Render(m.err.Error()) + "\n")
	}

	s.WriteString(KeyHint.Foreground(theme.Muted).Render("\n" + Separator(30) + "\nSP:Pause R:Reset Q:Quit\nS:Step T:Theme ?:Help\n[ ]:Time-Travel"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  S        - Single step when paused  ║
║  R        - Reset simulation         ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts a bubbletea program on the alternate screen.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
