package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/motion2d/internal/scene"
)

// ParticleContact is a contact between particle A and particle B, or
// between particle A and the floor when B == Floor. Normal points from A
// towards B.
type ParticleContact struct {
	A, B        int
	Normal      mgl64.Vec2
	Penetration float64
}

// IsFloor reports whether the contact has no second body.
func (c ParticleContact) IsFloor() bool { return c.B == Floor }

// ParticleEngine advances the particles of a scene: integration, contact
// generation, impulse resolution and interpenetration correction.
type ParticleEngine struct {
	Gravity    float64
	Epsilon    float64
	Iterations int
}

func NewParticleEngine() *ParticleEngine {
	return &ParticleEngine{
		Gravity:    Gravity,
		Epsilon:    PenetrationEpsilon,
		Iterations: CorrectionIterations,
	}
}

func (e *ParticleEngine) Name() string { return "particle" }

// Step moves the scene's particles forward by dt. The scene is validated
// first; on error nothing is mutated.
func (e *ParticleEngine) Step(sc *scene.Scene, dt float64) error {
	if err := sc.ValidateParticles(); err != nil {
		return err
	}

	e.Integrate(sc, dt)

	contacts := FindParticleContacts(sc)
	FlagStaticParticles(sc, contacts)
	e.ResolveVelocities(sc, contacts, dt)

	for i := 0; i < e.Iterations; i++ {
		e.Correct(sc, contacts)
		contacts = FindParticleContacts(sc)
	}
	return nil
}

// Integrate applies explicit Euler integration to non-static particles.
// Position is advanced with the velocity from the start of the step.
func (e *ParticleEngine) Integrate(sc *scene.Scene, dt float64) {
	for i := range sc.Particles {
		p := &sc.Particles[i]
		if p.Static {
			continue
		}
		integrate(&p.Object, e.Gravity, dt)
	}
}

// FindParticleContacts returns every particle-particle contact, in pair
// order, followed by every particle-floor contact.
func FindParticleContacts(sc *scene.Scene) []ParticleContact {
	contacts := make([]ParticleContact, 0)

	for i := range sc.Particles {
		a := &sc.Particles[i]
		if a.Inert() {
			continue
		}
		for j := i + 1; j < len(sc.Particles); j++ {
			b := &sc.Particles[j]
			if !a.Collides(&b.Object) {
				continue
			}
			if c, ok := collideParticles(a, b); ok {
				c.A, c.B = i, j
				contacts = append(contacts, c)
			}
		}
	}

	if !sc.Settings.FloorEnabled {
		return contacts
	}
	for i := range sc.Particles {
		p := &sc.Particles[i]
		if p.Inert() || !p.CollidesLayer(0) {
			continue
		}
		pen := p.Radius - p.Position[1]
		if pen >= 0 {
			contacts = append(contacts, ParticleContact{
				A:           i,
				B:           Floor,
				Normal:      mgl64.Vec2{0, -1},
				Penetration: pen,
			})
		}
	}
	return contacts
}

func collideParticles(a, b *scene.Particle) (ParticleContact, bool) {
	disp := b.Position.Sub(a.Position)
	dist := disp.Len()
	pen := a.Radius + b.Radius - dist
	if !(pen >= 0) {
		return ParticleContact{}, false
	}
	n := DefaultNormal
	if dist > 0 {
		n = disp.Mul(1 / dist)
	}
	return ParticleContact{Normal: n, Penetration: pen}, true
}

// FlagStaticParticles clears the colliding flag of every static particle
// and sets it again on those taking part in a contact. Dynamic particles
// are left untouched.
func FlagStaticParticles(sc *scene.Scene, contacts []ParticleContact) {
	for i := range sc.Particles {
		if sc.Particles[i].Static {
			sc.Particles[i].Colliding = false
		}
	}
	for _, c := range contacts {
		if a := &sc.Particles[c.A]; a.Static {
			a.Colliding = true
		}
		if c.IsFloor() {
			continue
		}
		if b := &sc.Particles[c.B]; b.Static {
			b.Colliding = true
		}
	}
}

// ResolveVelocities applies one restitution impulse per contact. Contacts
// with no movable side are skipped.
func (e *ParticleEngine) ResolveVelocities(sc *scene.Scene, contacts []ParticleContact, dt float64) {
	for _, c := range contacts {
		a := &sc.Particles[c.A]
		var b *scene.Particle
		if !c.IsFloor() {
			b = &sc.Particles[c.B]
		}

		invA := a.InvMass()
		invB := 0.0
		vB := mgl64.Vec2{}
		restitution := a.Elasticity * sc.Settings.FloorElasticity
		if b != nil {
			invB = b.InvMass()
			vB = b.Velocity
			restitution = a.Elasticity * b.Elasticity
		}
		totalInv := invA + invB
		if totalInv == 0 {
			continue
		}

		vA := a.Velocity
		sepV := vA.Sub(vB).Dot(c.Normal)
		newSepV := -sepV * restitution

		// Velocity gravity alone adds along the normal during this step.
		if b == nil {
			accSepV := gravityVector(e.Gravity).Dot(c.Normal) * dt
			if accSepV < 0 {
				newSepV += restitution * accSepV
				newSepV = math.Max(newSepV, 0)
			}
		}

		j := (newSepV - sepV) / totalInv
		if !a.Static {
			a.Velocity = vA.Add(c.Normal.Mul(j * invA))
		}
		if b != nil && !b.Static {
			b.Velocity = vB.Sub(c.Normal.Mul(j * invB))
		}
	}
}

// Correct displaces the movable side of every contact out of penetration.
// The displacement of each side is (penetration+ε)·(mA+mB)/m for that side.
// Callers must regenerate contacts before correcting again.
func (e *ParticleEngine) Correct(sc *scene.Scene, contacts []ParticleContact) {
	for _, c := range contacts {
		a := &sc.Particles[c.A]
		var b *scene.Particle
		if !c.IsFloor() {
			b = &sc.Particles[c.B]
		}

		massA := a.EffectiveMass()
		massB := 0.0
		if b != nil {
			massB = b.EffectiveMass()
		}
		total := massA + massB
		if total == 0 {
			continue
		}

		delta := (c.Penetration + e.Epsilon) * total
		if !a.Static {
			a.Position = a.Position.Sub(c.Normal.Mul(delta / massA))
		}
		if b != nil && !b.Static {
			b.Position = b.Position.Add(c.Normal.Mul(delta / massB))
		}
	}
}
