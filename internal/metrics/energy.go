package metrics

import (
	"github.com/san-kum/motion2d/internal/scene"
)

// KineticEnergy averages the total translational kinetic energy of the
// dynamic objects over every observed step. Static objects carry none.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(sc *scene.Scene, t float64) {
	e.totalEnergy += Kinetic(sc)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// Kinetic returns the instantaneous kinetic energy of sc.
func Kinetic(sc *scene.Scene) float64 {
	ke := 0.0
	for _, b := range sc.Bodies() {
		o := b.Base()
		ke += 0.5 * o.EffectiveMass() * o.Velocity.LenSqr()
	}
	return ke
}
