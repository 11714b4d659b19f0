package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/motion2d/internal/config"
	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
	"github.com/san-kum/motion2d/internal/storage"
)

// Experiment runs one configured scene with a set of metrics.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	scene     *scene.Scene
	logger    *log.Logger
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg, logger: log.Default()}
}

func (e *Experiment) WithLogger(l *log.Logger) *Experiment {
	if l != nil {
		e.logger = l
	}
	return e
}

// Setup builds the simulator and scene. Passing no metrics installs
// DefaultMetrics.
func (e *Experiment) Setup(metrics ...sim.Metric) error {
	s, sc, err := e.cfg.Simulator()
	if err != nil {
		return err
	}
	if len(metrics) == 0 {
		metrics = DefaultMetrics()
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}
	e.simulator = s.WithLogger(e.logger)
	e.scene = sc
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.scene, e.cfg.SimConfig())
}

// Info describes the experiment for storage.
func (e *Experiment) Info() storage.RunInfo {
	name := e.cfg.Name
	if name == "" {
		name = e.cfg.Preset
	}
	return storage.RunInfo{
		Name:     name,
		Preset:   e.cfg.Preset,
		Seed:     e.cfg.Seed,
		Dt:       e.cfg.Dt,
		Duration: e.cfg.Duration,
		Engines:  e.cfg.Engines,
	}
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Scene returns the scene being run. After Run it holds the final state.
func (e *Experiment) Scene() *scene.Scene {
	return e.scene
}
