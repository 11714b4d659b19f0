package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxLayer is the largest usable collision layer; layers index bits of a
// 64-bit mask.
const MaxLayer = 63

// Object is the shape-independent state shared by particles and rigidbodies.
type Object struct {
	Static         bool       `json:"static" yaml:"static"`
	Colliding      bool       `json:"colliding" yaml:"-"`
	CollisionLayer uint       `json:"layer" yaml:"layer"`
	CollisionMask  uint64     `json:"mask" yaml:"mask"`
	Mass           float64    `json:"mass" yaml:"mass"`
	Elasticity     float64    `json:"elasticity" yaml:"elasticity"`
	Position       mgl64.Vec2 `json:"position" yaml:"position"`
	Velocity       mgl64.Vec2 `json:"velocity" yaml:"velocity"`
}

// Base returns the object itself so that embedding types satisfy [Body].
func (o *Object) Base() *Object { return o }

// Inert reports whether the object is excluded from contact generation.
func (o *Object) Inert() bool { return o.CollisionLayer == 0 }

// Collides reports whether o tests for contacts against other. The check
// is directional: only o's mask is consulted.
func (o *Object) Collides(other *Object) bool {
	if o.Inert() || other.Inert() {
		return false
	}
	return o.CollidesLayer(other.CollisionLayer)
}

// CollidesLayer reports whether bit layer is set in the collision mask.
func (o *Object) CollidesLayer(layer uint) bool {
	if layer > MaxLayer {
		return false
	}
	return (o.CollisionMask>>layer)&1 == 1
}

// InvMass returns 0 for static objects and 1/Mass otherwise.
func (o *Object) InvMass() float64 {
	if o.Static {
		return 0
	}
	return 1 / o.Mass
}

// EffectiveMass returns 0 for static objects and Mass otherwise.
func (o *Object) EffectiveMass() float64 {
	if o.Static {
		return 0
	}
	return o.Mass
}

// Finite reports whether position and velocity hold no NaN or Inf.
func (o *Object) Finite() bool {
	for _, v := range [4]float64{o.Position[0], o.Position[1], o.Velocity[0], o.Velocity[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (o *Object) validate() error {
	if o.CollisionLayer > MaxLayer {
		return ErrInvalidLayer
	}
	if o.Static || o.Inert() {
		return nil
	}
	if !(o.Mass > 0) || math.IsInf(o.Mass, 0) {
		return ErrInvalidMass
	}
	return nil
}

// Body is implemented by every simulated object and exposes the shared
// fields without regard to shape.
type Body interface {
	Base() *Object
}

// Particle is a point mass with a circular collider.
type Particle struct {
	Object `yaml:",inline"`
	Radius float64 `json:"radius" yaml:"radius"`
}

func (p *Particle) validate() error {
	if p.Radius < 0 || math.IsNaN(p.Radius) {
		return ErrNegativeRadius
	}
	return p.Object.validate()
}

// Rigidbody is an oriented rectangle. HalfExtents is the half width and
// half height of the rectangle at Angle == 0.
type Rigidbody struct {
	Object          `yaml:",inline"`
	HalfExtents     mgl64.Vec2 `json:"half_extents" yaml:"half_extents"`
	Angle           float64    `json:"angle" yaml:"angle"`
	AngularVelocity float64    `json:"angular_velocity" yaml:"angular_velocity"`
}

func (r *Rigidbody) validate() error {
	if r.HalfExtents[0] < 0 || r.HalfExtents[1] < 0 {
		return ErrNegativeExtents
	}
	return r.Object.validate()
}

// NewParticle returns a dynamic particle on layer 1 colliding with layer 1
// and the floor.
func NewParticle(pos mgl64.Vec2, radius, mass, elasticity float64) Particle {
	return Particle{
		Object: Object{
			CollisionLayer: 1,
			CollisionMask:  0b11,
			Mass:           mass,
			Elasticity:     elasticity,
			Position:       pos,
		},
		Radius: radius,
	}
}

// NewRigidbody returns a dynamic rigidbody on layer 1 colliding with layer 1.
func NewRigidbody(pos, halfExtents mgl64.Vec2, angle, mass float64) Rigidbody {
	return Rigidbody{
		Object: Object{
			CollisionLayer: 1,
			CollisionMask:  0b10,
			Mass:           mass,
			Position:       pos,
		},
		HalfExtents: halfExtents,
		Angle:       angle,
	}
}
