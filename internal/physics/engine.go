package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/motion2d/internal/scene"
)

const (
	// Gravity is the downward acceleration applied to every non-static
	// object, in world units per second squared.
	Gravity = 500.0

	// PenetrationEpsilon pushes bodies slightly past exact contact during
	// interpenetration correction.
	PenetrationEpsilon = 1e-3

	// CorrectionIterations is the default number of correction passes.
	CorrectionIterations = 1

	// Floor is the B index of a particle-floor contact.
	Floor = -1
)

// DefaultNormal is used for particle pairs with coincident centres.
var DefaultNormal = mgl64.Vec2{0, 1}

// Stepper advances a scene by one time step.
type Stepper interface {
	Name() string
	Step(sc *scene.Scene, dt float64) error
}

func gravityVector(g float64) mgl64.Vec2 {
	return mgl64.Vec2{0, -g}
}

func integrate(o *scene.Object, g, dt float64) {
	o.Position = o.Position.Add(o.Velocity.Mul(dt))
	o.Velocity[1] -= g * dt
}
