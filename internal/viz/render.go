package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
)

// Renderer draws scenes onto a canvas. World y points up; the canvas is
// flipped so the floor sits on the bottom row.
type Renderer struct {
	Canvas   *Canvas
	Min, Max mgl64.Vec2
}

func NewRenderer(w, h int, min, max mgl64.Vec2) *Renderer {
	return &Renderer{Canvas: NewCanvas(w, h), Min: min, Max: max}
}

// scale returns dots per world unit along each axis.
func (r *Renderer) scale() (float64, float64) {
	dw, dh := r.Canvas.Dots()
	return float64(dw-1) / (r.Max[0] - r.Min[0]), float64(dh-1) / (r.Max[1] - r.Min[1])
}

// Project maps a world position to dot coordinates.
func (r *Renderer) Project(p mgl64.Vec2) (int, int) {
	sx, sy := r.scale()
	_, dh := r.Canvas.Dots()
	x := (p[0] - r.Min[0]) * sx
	y := float64(dh-1) - (p[1]-r.Min[1])*sy
	return int(math.Round(x)), int(math.Round(y))
}

// Draw clears the canvas and draws sc. Colliding objects are filled.
func (r *Renderer) Draw(sc *scene.Scene) {
	r.Canvas.Clear()
	sx, sy := r.scale()

	if sc.Settings.FloorEnabled && r.Min[1] <= 0 && r.Max[1] >= 0 {
		_, y := r.Project(mgl64.Vec2{0, 0})
		dw, _ := r.Canvas.Dots()
		r.Canvas.DrawLine(0, y, dw-1, y)
	}

	for i := range sc.Particles {
		p := &sc.Particles[i]
		x, y := r.Project(p.Position)
		if p.Colliding {
			r.Canvas.FillEllipse(x, y, p.Radius*sx, p.Radius*sy)
		} else {
			r.Canvas.DrawEllipse(x, y, p.Radius*sx, p.Radius*sy)
		}
	}

	for i := range sc.Rigidbodies {
		rb := &sc.Rigidbodies[i]
		verts := scene.Vertices(rb)
		pts := make([][2]int, len(verts))
		for k, v := range verts {
			pts[k][0], pts[k][1] = r.Project(v)
		}
		r.Canvas.DrawPolygon(pts)
		if rb.Colliding {
			r.Canvas.DrawLine(pts[0][0], pts[0][1], pts[2][0], pts[2][1])
			r.Canvas.DrawLine(pts[1][0], pts[1][1], pts[3][0], pts[3][1])
		}
	}
}

// DrawFrame plots a recorded frame. Frames carry no shapes, so each
// object is a small marker.
func (r *Renderer) DrawFrame(f sim.Frame) {
	r.Canvas.Clear()
	for _, o := range f.Objects {
		x, y := r.Project(mgl64.Vec2{o.X, o.Y})
		rad := 1.0
		if o.Kind == scene.KindRigidbody {
			rad = 2
		}
		if o.Colliding {
			r.Canvas.FillEllipse(x, y, rad, rad)
		} else {
			r.Canvas.DrawEllipse(x, y, rad, rad)
		}
	}
}

func (r *Renderer) String() string { return r.Canvas.String() }
