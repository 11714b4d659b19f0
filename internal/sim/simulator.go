package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/motion2d/internal/physics"
	"github.com/san-kum/motion2d/internal/scene"
)

// Simulator drives one scene through a fixed-step loop. It is not safe
// for concurrent use; see Ensemble for parallel runs.
type Simulator struct {
	steppers  []physics.Stepper
	hooks     []Hook
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New(steppers ...physics.Stepper) *Simulator {
	return &Simulator{
		steppers:  steppers,
		hooks:     make([]Hook, 0),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.Default(),
	}
}

func (s *Simulator) AddHook(h Hook)         { s.hooks = append(s.hooks, h) }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// WithLogger replaces the default logger.
func (s *Simulator) WithLogger(l *log.Logger) *Simulator {
	if l != nil {
		s.logger = l
	}
	return s
}

// Engines returns the names of the configured steppers, in call order.
func (s *Simulator) Engines() []string {
	names := make([]string, len(s.steppers))
	for i, st := range s.steppers {
		names[i] = st.Name()
	}
	return names
}

// Step runs the hooks and then every engine once. It stops at the first
// engine error.
func (s *Simulator) Step(sc *scene.Scene, t, dt float64) error {
	for _, h := range s.hooks {
		h.BeforeStep(sc, t, dt)
	}
	for _, st := range s.steppers {
		if err := st.Step(sc, dt); err != nil {
			return fmt.Errorf("%s engine: %w", st.Name(), err)
		}
	}
	return nil
}

// Run steps sc until cfg.Duration has elapsed. On cancellation the partial
// result is returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, sc *scene.Scene, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	sample := cfg.SampleEvery
	if sample < 1 {
		sample = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps/sample+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	lg := s.logger.With("engines", s.Engines(), "dt", cfg.Dt, "steps", steps)
	lg.Debug("run started", "particles", len(sc.Particles), "rigidbodies", len(sc.Rigidbodies))

	t := 0.0
	result.Frames = append(result.Frames, Snapshot(sc, t))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			lg.Debug("run canceled", "step", i)
			return result, ctx.Err()
		default:
		}

		if err := s.Step(sc, t, cfg.Dt); err != nil {
			return result, &SimulationError{Step: i, Time: t, Err: err}
		}
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !finite(sc) {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			lg.Warn("state diverged", "step", i, "t", t)
			break
		}

		for _, m := range s.metrics {
			m.Observe(sc, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(sc, t)
		}
		if (i+1)%sample == 0 || i == steps-1 {
			result.Frames = append(result.Frames, Snapshot(sc, t))
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	lg.Debug("run finished", "taken", result.StepsTaken, "frames", len(result.Frames))
	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must be non-negative, got %d", cfg.SampleEvery)
	}
	if len(s.steppers) == 0 {
		return ErrNoEngines
	}
	return nil
}

func finite(sc *scene.Scene) bool {
	for _, b := range sc.Bodies() {
		if !b.Base().Finite() {
			return false
		}
	}
	return true
}
