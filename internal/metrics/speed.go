package metrics

import (
	"math"

	"github.com/san-kum/motion2d/internal/scene"
)

// MaxSpeed tracks the largest speed reached by any object.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(sc *scene.Scene, t float64) {
	for _, b := range sc.Bodies() {
		m.max = math.Max(m.max, b.Base().Velocity.Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// Population averages the number of objects alive per step. Spawning and
// pruning hooks make this vary over a run.
type Population struct {
	name    string
	total   int
	samples int
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(sc *scene.Scene, t float64) {
	p.total += sc.Len()
	p.samples++
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return float64(p.total) / float64(p.samples)
}

func (p *Population) Reset() {
	p.total = 0
	p.samples = 0
}
