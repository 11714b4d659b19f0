// Package physics implements the particle and rigidbody engines.
//
// Both engines follow the same step shape:
//
//	integrate → detect → (particles) resolve → flag statics → (particles) correct
//
// and mutate the [scene.Scene] in place. Contacts refer to objects by index
// and are only valid until the scene is next modified.
//
// # Particles
//
// [ParticleEngine] integrates point masses under [Gravity], finds
// particle-particle and particle-floor contacts, applies one restitution
// impulse per contact and then pushes overlapping particles apart for a
// fixed number of passes.
//
// # Rigidbodies
//
// [RigidbodyEngine] integrates oriented rectangles and detects contacts with
// a vertex-in-rectangle test in the frame of the other body. Contacts only
// drive the colliding flag of static rigidbodies; no impulse is applied.
//
//	sc := scene.New(scene.Settings{FloorEnabled: true, FloorElasticity: 0.6})
//	sc.AddParticle(scene.NewParticle(mgl64.Vec2{320, 240}, 10, 1, 0.8))
//	eng := physics.NewParticleEngine()
//	for i := 0; i < 60; i++ {
//	    if err := eng.Step(sc, 1.0/60); err != nil {
//	        return err
//	    }
//	}
package physics
