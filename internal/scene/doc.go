// Package scene holds the state simulated by the physics engines.
//
// A [Scene] owns its particles and rigidbodies by value. The engines in
// package physics mutate objects in place (position, velocity, angle,
// colliding flag) but never add or remove them; removal between steps is
// left to the caller, see [Scene.RetainParticles].
//
// Objects are addressed by their index in the owning slice. An index is a
// stable handle for the duration of a single step only.
//
// # Collision filtering
//
// Every object carries a collision layer and a collision mask. Layer 0 is
// the collision-inert sentinel. A pair (a, b) is tested only when bit
// b.CollisionLayer is set in a.CollisionMask, see [Object.Collides]. The
// floor, when enabled, lives on layer 0, so a particle collides with it
// when bit 0 of its mask is set.
package scene
