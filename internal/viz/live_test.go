package viz

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/motion2d/internal/physics"
	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
)

func dropSetup() Setup {
	return Setup{
		Title: "drop",
		Build: func() (*sim.Simulator, *scene.Scene, error) {
			sc := scene.New(scene.Settings{FloorEnabled: true, FloorElasticity: 1})
			sc.AddParticle(scene.NewParticle(mgl64.Vec2{320, 400}, 10, 1, 0.6))
			return sim.New(physics.NewParticleEngine()), sc, nil
		},
		Min: mgl64.Vec2{0, 0},
		Max: mgl64.Vec2{640, 480},
		Dt:  1.0 / 60,
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTickSteps(t *testing.T) {
	m, err := NewModel(dropSetup())
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	for i := 0; i < 3; i++ {
		m = update(m, TickMsg{})
	}
	if len(m.history) != 3 || m.t <= 0 {
		t.Fatalf("expected 3 recorded steps, got %d at t=%v", len(m.history), m.t)
	}
	if m.scene.Particles[0].Position[1] >= 400 {
		t.Error("particle should be falling")
	}
	if m.View() == "" {
		t.Error("empty view")
	}
}

func TestModelPauseAndStep(t *testing.T) {
	m, _ := NewModel(dropSetup())

	m = update(m, key(" "))
	m = update(m, TickMsg{})
	if len(m.history) != 0 {
		t.Fatal("paused model must not step on tick")
	}

	m = update(m, key("s"))
	if len(m.history) != 1 {
		t.Errorf("expected one manual step, got %d", len(m.history))
	}
}

func TestModelScrubAndReset(t *testing.T) {
	m, _ := NewModel(dropSetup())
	for i := 0; i < 5; i++ {
		m = update(m, TickMsg{})
	}

	m = update(m, key("["))
	if m.playHead != 3 || m.running {
		t.Errorf("expected paused replay at 3, got head %d running %v", m.playHead, m.running)
	}
	sc, at := m.current()
	if at >= m.t || sc == m.scene {
		t.Error("replay should show a past snapshot")
	}
	// history holds copies, not the live scene
	if sc.Particles[0].Position == m.scene.Particles[0].Position {
		t.Error("snapshot shares state with the live scene")
	}

	m = update(m, key("r"))
	if m.t != 0 || len(m.history) != 0 || m.playHead != -1 || !m.running {
		t.Errorf("reset left state behind: t=%v history=%d head=%d", m.t, len(m.history), m.playHead)
	}
	if m.scene.Particles[0].Position != (mgl64.Vec2{320, 400}) {
		t.Errorf("reset should rebuild the scene, got %v", m.scene.Particles[0].Position)
	}
}

func TestModelStepError(t *testing.T) {
	setup := dropSetup()
	build := setup.Build
	calls := 0
	setup.Build = func() (*sim.Simulator, *scene.Scene, error) {
		s, sc, err := build()
		sc.Particles[0].Mass = 0
		s.AddHook(sim.HookFunc(func(*scene.Scene, float64, float64) { calls++ }))
		return s, sc, err
	}

	m, _ := NewModel(setup)
	m = update(m, TickMsg{})
	if m.err == nil || m.running {
		t.Error("invalid scene should stop the model with an error")
	}

	m = update(m, key("s"))
	m = update(m, key(" "))
	m = update(m, TickMsg{})
	if calls != 1 {
		t.Errorf("failed simulator stepped again: %d calls", calls)
	}
}

func TestNewModelBuildError(t *testing.T) {
	boom := errors.New("boom")
	setup := Setup{Build: func() (*sim.Simulator, *scene.Scene, error) { return nil, nil, boom }}
	if _, err := NewModel(setup); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}

func TestPickerSelect(t *testing.T) {
	var loaded string
	p := NewPicker([]PickerItem{{Name: "a"}, {Name: "drop"}}, func(name string) (Setup, error) {
		loaded = name
		return dropSetup(), nil
	})

	next, _ := p.Update(key("j"))
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	picked := next.(Picker)

	if loaded != "drop" {
		t.Errorf("expected drop to load, got %q", loaded)
	}
	if picked.live == nil || cmd == nil {
		t.Fatal("expected picker to start the live model")
	}

	next, _ = picked.Update(TickMsg{})
	if len(next.(Picker).live.history) != 1 {
		t.Error("picker should forward ticks to the live model")
	}
}
