package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
)

// Settings holds world-wide parameters.
type Settings struct {
	// FloorEnabled adds an infinite one-sided line at y=0 that particles
	// rest on. Rigidbodies ignore it.
	FloorEnabled    bool    `json:"floor" yaml:"floor"`
	FloorElasticity float64 `json:"floor_elasticity" yaml:"floor_elasticity"`
}

// Scene is the unit of simulation. It must not be mutated while a step is
// in progress.
type Scene struct {
	Particles   []Particle
	Rigidbodies []Rigidbody
	Settings    Settings
}

// New returns an empty scene.
func New(settings Settings) *Scene {
	return &Scene{
		Particles:   make([]Particle, 0),
		Rigidbodies: make([]Rigidbody, 0),
		Settings:    settings,
	}
}

// AddParticle appends p and returns its index.
func (s *Scene) AddParticle(p Particle) int {
	s.Particles = append(s.Particles, p)
	return len(s.Particles) - 1
}

// AddRigidbody appends r and returns its index.
func (s *Scene) AddRigidbody(r Rigidbody) int {
	s.Rigidbodies = append(s.Rigidbodies, r)
	return len(s.Rigidbodies) - 1
}

// RetainParticles removes every particle for which keep returns false,
// preserving the order of the rest. It returns the number removed.
func (s *Scene) RetainParticles(keep func(p *Particle) bool) int {
	n := 0
	for i := range s.Particles {
		if keep(&s.Particles[i]) {
			s.Particles[n] = s.Particles[i]
			n++
		}
	}
	removed := len(s.Particles) - n
	clear(s.Particles[n:])
	s.Particles = s.Particles[:n]
	return removed
}

// RetainRigidbodies is the rigidbody counterpart of RetainParticles.
func (s *Scene) RetainRigidbodies(keep func(r *Rigidbody) bool) int {
	n := 0
	for i := range s.Rigidbodies {
		if keep(&s.Rigidbodies[i]) {
			s.Rigidbodies[n] = s.Rigidbodies[i]
			n++
		}
	}
	removed := len(s.Rigidbodies) - n
	clear(s.Rigidbodies[n:])
	s.Rigidbodies = s.Rigidbodies[:n]
	return removed
}

// Bodies returns every object in the scene, particles first.
func (s *Scene) Bodies() []Body {
	out := make([]Body, 0, len(s.Particles)+len(s.Rigidbodies))
	for i := range s.Particles {
		out = append(out, &s.Particles[i])
	}
	for i := range s.Rigidbodies {
		out = append(out, &s.Rigidbodies[i])
	}
	return out
}

// Len returns the total number of objects.
func (s *Scene) Len() int {
	return len(s.Particles) + len(s.Rigidbodies)
}

// Validate checks the preconditions the engines rely on. The first fault
// found is returned as an *ObjectError.
func (s *Scene) Validate() error {
	if err := s.ValidateParticles(); err != nil {
		return err
	}
	return s.ValidateRigidbodies()
}

// ValidateParticles checks only the particles.
func (s *Scene) ValidateParticles() error {
	for i := range s.Particles {
		if err := s.Particles[i].validate(); err != nil {
			return &ObjectError{Kind: KindParticle, Index: i, Err: err}
		}
	}
	return nil
}

// ValidateRigidbodies checks only the rigidbodies.
func (s *Scene) ValidateRigidbodies() error {
	for i := range s.Rigidbodies {
		if err := s.Rigidbodies[i].validate(); err != nil {
			return &ObjectError{Kind: KindRigidbody, Index: i, Err: err}
		}
	}
	return nil
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	c := New(s.Settings)
	if err := copier.CopyWithOption(c, s, copier.Option{DeepCopy: true}); err != nil {
		// copier only rejects mismatched kinds.
		c.Particles = append(c.Particles[:0], s.Particles...)
		c.Rigidbodies = append(c.Rigidbodies[:0], s.Rigidbodies...)
	}
	return c
}

// InBounds reports whether pos lies inside the closed box [min, max].
func InBounds(pos, min, max mgl64.Vec2) bool {
	return pos[0] >= min[0] && pos[1] >= min[1] && pos[0] <= max[0] && pos[1] <= max[1]
}
