package physics_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motion2d/internal/physics"
	"github.com/san-kum/motion2d/internal/scene"
)

var _ = Describe("ParticleEngine", func() {
	var (
		sc  *scene.Scene
		eng *physics.ParticleEngine
	)

	BeforeEach(func() {
		sc = scene.New(scene.Settings{FloorEnabled: true, FloorElasticity: 1})
		eng = physics.NewParticleEngine()
	})

	Context("with the floor enabled", func() {
		It("reports the documented floor contact", func() {
			sc.AddParticle(scene.NewParticle(mgl64.Vec2{0, 5}, 10, 1, 1))

			contacts := physics.FindParticleContacts(sc)
			Expect(contacts).To(HaveLen(1))
			Expect(contacts[0].IsFloor()).To(BeTrue())
			Expect(contacts[0].Penetration).To(BeNumerically("~", 5, 1e-12))
			Expect(contacts[0].Normal).To(Equal(mgl64.Vec2{0, -1}))
		})

		It("never lets a falling particle through the floor", func() {
			sc.AddParticle(scene.NewParticle(mgl64.Vec2{0, 200}, 10, 1, 0.6))
			for i := 0; i < 300; i++ {
				Expect(eng.Step(sc, 1.0/60)).To(Succeed())
				Expect(sc.Particles[0].Position[1]).To(BeNumerically(">", 0))
			}
		})
	})

	Context("with a pachinko peg", func() {
		BeforeEach(func() {
			peg := scene.NewParticle(mgl64.Vec2{0, 100}, 20, 1, 0.6)
			peg.Static = true
			sc.AddParticle(peg)
		})

		It("flags the peg only while something touches it", func() {
			sc.AddParticle(scene.NewParticle(mgl64.Vec2{0, 125}, 10, 1, 0.6))
			Expect(eng.Step(sc, 0.001)).To(Succeed())
			Expect(sc.Particles[0].Colliding).To(BeTrue())

			sc.Particles[1].Position = mgl64.Vec2{500, 500}
			Expect(eng.Step(sc, 0.001)).To(Succeed())
			Expect(sc.Particles[0].Colliding).To(BeFalse())
		})

		It("deflects a ball sideways when hit off-centre", func() {
			sc.AddParticle(scene.NewParticle(mgl64.Vec2{5, 128}, 10, 1, 0.6))
			sc.Particles[1].Velocity = mgl64.Vec2{0, -50}
			Expect(eng.Step(sc, 0.001)).To(Succeed())
			Expect(sc.Particles[1].Velocity[0]).To(BeNumerically(">", 0))
			Expect(sc.Particles[0].Position).To(Equal(mgl64.Vec2{0, 100}))
		})
	})

	DescribeTable("elastic head-on collisions without gravity",
		func(va, vb float64) {
			sc.Settings.FloorEnabled = false
			eng.Gravity = 0
			a := scene.NewParticle(mgl64.Vec2{0, 0}, 1, 2, 1)
			a.Velocity = mgl64.Vec2{va, 0}
			b := scene.NewParticle(mgl64.Vec2{1.9, 0}, 1, 2, 1)
			b.Velocity = mgl64.Vec2{vb, 0}
			sc.AddParticle(a)
			sc.AddParticle(b)

			eng.ResolveVelocities(sc, physics.FindParticleContacts(sc), 0.01)

			Expect(sc.Particles[0].Velocity[0]).To(BeNumerically("~", vb, 1e-12))
			Expect(sc.Particles[1].Velocity[0]).To(BeNumerically("~", va, 1e-12))
		},
		Entry("symmetric", 5.0, -5.0),
		Entry("one at rest", 4.0, 0.0),
		Entry("chasing", 6.0, 1.0),
	)

	It("shrinks penetration with every correction pass", func() {
		sc.Settings.FloorEnabled = false
		sc.AddParticle(scene.NewParticle(mgl64.Vec2{0, 0}, 5, 1, 1))
		sc.AddParticle(scene.NewParticle(mgl64.Vec2{1, 1}, 5, 3, 1))

		contacts := physics.FindParticleContacts(sc)
		Expect(contacts).To(HaveLen(1))
		before := contacts[0].Penetration

		eng.Correct(sc, contacts)
		dist := sc.Particles[1].Position.Sub(sc.Particles[0].Position).Len()
		Expect(10 - dist).To(BeNumerically("<", before))
	})

	It("ignores collision-inert particles", func() {
		a := scene.NewParticle(mgl64.Vec2{0, 50}, 10, 1, 1)
		a.CollisionLayer = 0
		sc.AddParticle(a)
		sc.AddParticle(scene.NewParticle(mgl64.Vec2{0, 50}, 10, 1, 1))

		for _, c := range physics.FindParticleContacts(sc) {
			Expect(c.A).NotTo(Equal(0))
			Expect(c.B).NotTo(Equal(0))
		}
	})
})

var _ = Describe("RigidbodyEngine", func() {
	It("finds the axis of least penetration for aligned boxes", func() {
		a := scene.NewRigidbody(mgl64.Vec2{0, 0}, mgl64.Vec2{2, 1}, 0, 1)
		b := scene.NewRigidbody(mgl64.Vec2{0, -1.75}, mgl64.Vec2{4, 1}, 0, 1)

		c, ok := physics.CollideRigidbodies(&a, &b)
		Expect(ok).To(BeTrue())
		Expect(c.Normal.ApproxEqualThreshold(mgl64.Vec2{0, 1}, 1e-9)).To(BeTrue())
		Expect(c.Penetration).To(BeNumerically("~", 0.25, 1e-9))
	})

	It("reports nothing for separated boxes", func() {
		sc := scene.New(scene.Settings{})
		sc.AddRigidbody(scene.NewRigidbody(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, 0, 1))
		sc.AddRigidbody(scene.NewRigidbody(mgl64.Vec2{0, 2.5}, mgl64.Vec2{1, 1}, math.Pi/4, 1))

		Expect(physics.FindRigidbodyContacts(sc)).To(BeEmpty())
	})

	It("leaves static rigidbodies in place for any dt", func() {
		for _, dt := range []float64{0, 0.5, 10} {
			sc := scene.New(scene.Settings{})
			r := scene.NewRigidbody(mgl64.Vec2{3, 4}, mgl64.Vec2{1, 1}, 0.2, 1)
			r.Static = true
			r.AngularVelocity = 1
			sc.AddRigidbody(r)

			Expect(physics.NewRigidbodyEngine().Step(sc, dt)).To(Succeed())
			Expect(sc.Rigidbodies[0].Position).To(Equal(r.Position))
			Expect(sc.Rigidbodies[0].Angle).To(Equal(r.Angle))
		}
	})
})
