package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/motion2d/internal/scene"
)

// RigidbodyContact records a vertex of rigidbody A found inside rigidbody
// B. Normal is the outward normal of the face of B closest to Point.
type RigidbodyContact struct {
	A, B        int
	Point       mgl64.Vec2
	Normal      mgl64.Vec2
	Penetration float64
}

// RigidbodyEngine integrates rigidbodies and flags static ones that are
// touched. Contacts are detected but not resolved.
type RigidbodyEngine struct {
	Gravity float64
}

func NewRigidbodyEngine() *RigidbodyEngine {
	return &RigidbodyEngine{Gravity: Gravity}
}

func (e *RigidbodyEngine) Name() string { return "rigidbody" }

// Step moves the scene's rigidbodies forward by dt and refreshes the
// colliding flag of static rigidbodies.
func (e *RigidbodyEngine) Step(sc *scene.Scene, dt float64) error {
	if err := sc.ValidateRigidbodies(); err != nil {
		return err
	}
	e.Integrate(sc, dt)
	FlagStaticRigidbodies(sc, FindRigidbodyContacts(sc))
	return nil
}

// Integrate advances position, velocity and angle of non-static rigidbodies.
func (e *RigidbodyEngine) Integrate(sc *scene.Scene, dt float64) {
	for i := range sc.Rigidbodies {
		r := &sc.Rigidbodies[i]
		if r.Static {
			continue
		}
		integrate(&r.Object, e.Gravity, dt)
		r.Angle += r.AngularVelocity * dt
	}
}

// FindRigidbodyContacts tests every filtered pair in both directions and
// returns at most one contact per pair. A contact found with roles swapped
// has A and B swapped as well.
func FindRigidbodyContacts(sc *scene.Scene) []RigidbodyContact {
	contacts := make([]RigidbodyContact, 0)
	for i := range sc.Rigidbodies {
		a := &sc.Rigidbodies[i]
		if a.Inert() {
			continue
		}
		for j := i + 1; j < len(sc.Rigidbodies); j++ {
			b := &sc.Rigidbodies[j]
			if !a.Collides(&b.Object) {
				continue
			}
			if c, ok := CollideRigidbodies(a, b); ok {
				c.A, c.B = i, j
				contacts = append(contacts, c)
			} else if c, ok := CollideRigidbodies(b, a); ok {
				c.A, c.B = j, i
				contacts = append(contacts, c)
			}
		}
	}
	return contacts
}

// CollideRigidbodies looks for a vertex of a inside b, working in b's
// frame. The first such vertex in [scene.Vertices] order is the contact
// point; its face of least penetration gives the normal and depth.
// A and B of the returned contact are left zero.
func CollideRigidbodies(a, b *scene.Rigidbody) (RigidbodyContact, bool) {
	bx, by := scene.Axes(b)
	normals := [4]mgl64.Vec2{bx.Mul(-1), bx, by.Mul(-1), by}
	hx, hy := b.HalfExtents[0], b.HalfExtents[1]

	for _, v := range scene.Vertices(a) {
		rel := v.Sub(b.Position)
		px, py := rel.Dot(bx), rel.Dot(by)
		pen := [4]float64{px + hx, hx - px, py + hy, hy - py}
		if pen[0] < 0 || pen[1] < 0 || pen[2] < 0 || pen[3] < 0 {
			continue
		}

		face := 0
		for k := 1; k < len(pen); k++ {
			if pen[k] < pen[face] {
				face = k
			}
		}
		return RigidbodyContact{
			Point:       v,
			Normal:      normals[face],
			Penetration: pen[face],
		}, true
	}
	return RigidbodyContact{}, false
}

// FlagStaticRigidbodies clears the colliding flag of static rigidbodies and
// sets it on those appearing on either side of a contact.
func FlagStaticRigidbodies(sc *scene.Scene, contacts []RigidbodyContact) {
	for i := range sc.Rigidbodies {
		if sc.Rigidbodies[i].Static {
			sc.Rigidbodies[i].Colliding = false
		}
	}
	for _, c := range contacts {
		for _, idx := range [2]int{c.A, c.B} {
			if r := &sc.Rigidbodies[idx]; r.Static {
				r.Colliding = true
			}
		}
	}
}
