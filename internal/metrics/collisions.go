package metrics

import (
	"github.com/san-kum/motion2d/internal/scene"
)

// StaticHits counts, over all observed steps, how often a static object
// ended a step with its colliding flag set.
type StaticHits struct {
	name string
	hits int
}

func NewStaticHits() *StaticHits {
	return &StaticHits{name: "static_hits"}
}

func (h *StaticHits) Name() string { return h.name }

func (h *StaticHits) Observe(sc *scene.Scene, t float64) {
	for _, b := range sc.Bodies() {
		if o := b.Base(); o.Static && o.Colliding {
			h.hits++
		}
	}
}

func (h *StaticHits) Value() float64 { return float64(h.hits) }

func (h *StaticHits) Reset() { h.hits = 0 }
