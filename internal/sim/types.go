package sim

import (
	"fmt"

	"github.com/san-kum/motion2d/internal/scene"
)

// Hook runs before every step. Hooks are how drivers spawn, move or prune
// objects; they are the only place a running scene may change shape.
type Hook interface {
	BeforeStep(sc *scene.Scene, t, dt float64)
}

// HookFunc adapts a function to Hook.
type HookFunc func(sc *scene.Scene, t, dt float64)

func (f HookFunc) BeforeStep(sc *scene.Scene, t, dt float64) { f(sc, t, dt) }

type Metric interface {
	Name() string
	Observe(sc *scene.Scene, t float64)
	Value() float64
	Reset()
}

// Observer sees the scene after every completed step. It must not mutate it.
type Observer interface {
	OnStep(sc *scene.Scene, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Duration:      10.0,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// ObjectState is a flat snapshot of one object.
type ObjectState struct {
	Kind      scene.Kind `json:"kind"`
	Index     int        `json:"index"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	VX        float64    `json:"vx"`
	VY        float64    `json:"vy"`
	Angle     float64    `json:"angle"`
	Colliding bool       `json:"colliding"`
}

type Frame struct {
	Time    float64       `json:"time"`
	Objects []ObjectState `json:"objects"`
}

// Snapshot copies the observable state of every object in sc.
func Snapshot(sc *scene.Scene, t float64) Frame {
	f := Frame{Time: t, Objects: make([]ObjectState, 0, sc.Len())}
	for i := range sc.Particles {
		p := &sc.Particles[i]
		f.Objects = append(f.Objects, ObjectState{
			Kind: scene.KindParticle, Index: i,
			X: p.Position[0], Y: p.Position[1],
			VX: p.Velocity[0], VY: p.Velocity[1],
			Colliding: p.Colliding,
		})
	}
	for i := range sc.Rigidbodies {
		r := &sc.Rigidbodies[i]
		f.Objects = append(f.Objects, ObjectState{
			Kind: scene.KindRigidbody, Index: i,
			X: r.Position[0], Y: r.Position[1],
			VX: r.Velocity[0], VY: r.Velocity[1],
			Angle:     r.Angle,
			Colliding: r.Colliding,
		})
	}
	return f
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded frame, or a zero frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
