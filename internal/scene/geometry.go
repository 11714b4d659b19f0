package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vertices returns the four corners of r in world space, counter-clockwise,
// starting from the corner at (+x, +y) in the body frame.
//
// Renderers must use this function rather than deriving geometry on their
// own.
func Vertices(r *Rigidbody) [4]mgl64.Vec2 {
	theta := math.Atan2(r.HalfExtents[1], r.HalfExtents[0])
	radius := r.HalfExtents.Len()
	angles := [4]float64{theta, math.Pi - theta, -math.Pi + theta, -theta}

	var verts [4]mgl64.Vec2
	for i, a := range angles {
		sin, cos := math.Sincos(a + r.Angle)
		verts[i] = r.Position.Add(mgl64.Vec2{cos, sin}.Mul(radius))
	}
	return verts
}

// Axes returns the body-frame x and y unit vectors of r in world space.
func Axes(r *Rigidbody) (x, y mgl64.Vec2) {
	sin, cos := math.Sincos(r.Angle)
	return mgl64.Vec2{cos, sin}, mgl64.Vec2{-sin, cos}
}
