package experiment

import (
	"github.com/san-kum/motion2d/internal/config"
	"github.com/san-kum/motion2d/internal/metrics"
	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
)

func DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewStaticHits(),
		metrics.NewMaxSpeed(),
		metrics.NewPopulation(),
	}
}

// Ensemble runs cfg under numRuns consecutive seeds. Presets are rebuilt
// per seed so random placement differs between runs; timing is taken
// from cfg.
func Ensemble(cfg *config.Config, numRuns int) *sim.Ensemble {
	factory := func(seed int64) (*sim.Simulator, *scene.Scene, error) {
		c := *cfg
		if cfg.Preset != "" {
			if fresh := config.GetPreset(cfg.Preset, seed); fresh != nil {
				fresh.Dt, fresh.Duration, fresh.SampleEvery = cfg.Dt, cfg.Duration, cfg.SampleEvery
				c = *fresh
			}
		}
		c.Seed = seed
		s, sc, err := c.Simulator()
		if err != nil {
			return nil, nil, err
		}
		for _, m := range DefaultMetrics() {
			s.AddMetric(m)
		}
		return s, sc, nil
	}
	return sim.NewEnsemble(factory, numRuns, cfg.Seed)
}
