package storage

import (
	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
)

// Series is the time history of one object.
type Series struct {
	Times []float64
	X     []float64
	Y     []float64
	Speed []float64
	Angle []float64
}

func (s Series) Len() int { return len(s.Times) }

// Track extracts the history of the object at (kind, index). Indices are
// positions in the scene's lists, so a run that removes objects may hand
// an index to a different object partway through.
func Track(frames []sim.Frame, kind scene.Kind, index int) Series {
	var s Series
	for _, f := range frames {
		for _, o := range f.Objects {
			if o.Kind != kind || o.Index != index {
				continue
			}
			s.Times = append(s.Times, f.Time)
			s.X = append(s.X, o.X)
			s.Y = append(s.Y, o.Y)
			s.Speed = append(s.Speed, speed(o.VX, o.VY))
			s.Angle = append(s.Angle, o.Angle)
			break
		}
	}
	return s
}

// Counts returns the number of objects alive in each frame.
func Counts(frames []sim.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = float64(len(f.Objects))
	}
	return out
}
