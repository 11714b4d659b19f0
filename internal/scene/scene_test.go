package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCollides(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Object
		wants bool
	}{
		{"mask bit set", Object{CollisionLayer: 1, CollisionMask: 0b10}, Object{CollisionLayer: 1}, true},
		{"mask bit clear", Object{CollisionLayer: 1, CollisionMask: 0b01}, Object{CollisionLayer: 1}, false},
		{"inert self", Object{CollisionLayer: 0, CollisionMask: ^uint64(0)}, Object{CollisionLayer: 1}, false},
		{"inert other", Object{CollisionLayer: 1, CollisionMask: ^uint64(0)}, Object{CollisionLayer: 0}, false},
		{"other layer", Object{CollisionLayer: 1, CollisionMask: 0b100}, Object{CollisionLayer: 2}, true},
		{"layer past mask", Object{CollisionLayer: 1, CollisionMask: ^uint64(0)}, Object{CollisionLayer: 64}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Collides(&tt.b); got != tt.wants {
				t.Errorf("Collides() = %v, want %v", got, tt.wants)
			}
		})
	}
}

func TestCollidesIsDirectional(t *testing.T) {
	a := Object{CollisionLayer: 1, CollisionMask: 0b100}
	b := Object{CollisionLayer: 2, CollisionMask: 0}

	if !a.Collides(&b) {
		t.Error("expected a to collide with b")
	}
	if b.Collides(&a) {
		t.Error("expected b not to collide with a")
	}
}

func TestInvMass(t *testing.T) {
	dyn := Object{Mass: 4}
	if dyn.InvMass() != 0.25 {
		t.Errorf("expected 0.25, got %f", dyn.InvMass())
	}
	static := Object{Static: true, Mass: 4}
	if static.InvMass() != 0 || static.EffectiveMass() != 0 {
		t.Error("static object should have zero inverse and effective mass")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *Scene)
		err   error
		kind  Kind
	}{
		{"empty", func(s *Scene) {}, nil, ""},
		{"valid particle", func(s *Scene) {
			s.AddParticle(NewParticle(mgl64.Vec2{0, 0}, 1, 1, 1))
		}, nil, ""},
		{"zero mass", func(s *Scene) {
			s.AddParticle(NewParticle(mgl64.Vec2{0, 0}, 1, 0, 1))
		}, ErrInvalidMass, KindParticle},
		{"negative mass rigidbody", func(s *Scene) {
			s.AddRigidbody(NewRigidbody(mgl64.Vec2{}, mgl64.Vec2{1, 1}, 0, -2))
		}, ErrInvalidMass, KindRigidbody},
		{"static zero mass", func(s *Scene) {
			p := NewParticle(mgl64.Vec2{0, 0}, 1, 0, 1)
			p.Static = true
			s.AddParticle(p)
		}, nil, ""},
		{"inert zero mass", func(s *Scene) {
			p := NewParticle(mgl64.Vec2{0, 0}, 1, 0, 1)
			p.CollisionLayer = 0
			s.AddParticle(p)
		}, nil, ""},
		{"negative radius", func(s *Scene) {
			s.AddParticle(NewParticle(mgl64.Vec2{0, 0}, -1, 1, 1))
		}, ErrNegativeRadius, KindParticle},
		{"negative extents", func(s *Scene) {
			s.AddRigidbody(NewRigidbody(mgl64.Vec2{}, mgl64.Vec2{-1, 1}, 0, 1))
		}, ErrNegativeExtents, KindRigidbody},
		{"layer out of range", func(s *Scene) {
			p := NewParticle(mgl64.Vec2{0, 0}, 1, 1, 1)
			p.CollisionLayer = 64
			s.AddParticle(p)
		}, ErrInvalidLayer, KindParticle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Settings{})
			tt.build(s)
			err := s.Validate()
			if tt.err == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			var objErr *ObjectError
			if !errors.As(err, &objErr) {
				t.Fatalf("expected *ObjectError, got %T", err)
			}
			if objErr.Kind != tt.kind || objErr.Index != 0 {
				t.Errorf("unexpected object context: %s %d", objErr.Kind, objErr.Index)
			}
		})
	}
}

func TestValidatePerKind(t *testing.T) {
	s := New(Settings{})
	s.AddParticle(NewParticle(mgl64.Vec2{}, 1, 1, 1))
	s.AddRigidbody(NewRigidbody(mgl64.Vec2{}, mgl64.Vec2{1, 1}, 0, 0))

	if err := s.ValidateParticles(); err != nil {
		t.Errorf("particles are valid, got %v", err)
	}
	if err := s.ValidateRigidbodies(); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
	if err := s.Validate(); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("expected whole-scene check to fail, got %v", err)
	}
}
func TestRetainParticles(t *testing.T) {
	s := New(Settings{})
	for i := 0; i < 5; i++ {
		s.AddParticle(NewParticle(mgl64.Vec2{float64(i), 0}, 1, 1, 1))
	}

	removed := s.RetainParticles(func(p *Particle) bool {
		return int(p.Position[0])%2 == 0
	})

	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if len(s.Particles) != 3 {
		t.Fatalf("expected 3 particles, got %d", len(s.Particles))
	}
	for i, want := range []float64{0, 2, 4} {
		if s.Particles[i].Position[0] != want {
			t.Errorf("particle %d: expected x=%f, got %f", i, want, s.Particles[i].Position[0])
		}
	}
}

func TestRetainRigidbodies(t *testing.T) {
	s := New(Settings{})
	s.AddRigidbody(NewRigidbody(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, 0, 1))
	s.AddRigidbody(NewRigidbody(mgl64.Vec2{100, 0}, mgl64.Vec2{1, 1}, 0, 1))

	removed := s.RetainRigidbodies(func(r *Rigidbody) bool {
		return InBounds(r.Position, mgl64.Vec2{-10, -10}, mgl64.Vec2{10, 10})
	})
	if removed != 1 || len(s.Rigidbodies) != 1 {
		t.Errorf("expected one rigidbody left, got %d (removed %d)", len(s.Rigidbodies), removed)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New(Settings{FloorEnabled: true, FloorElasticity: 0.5})
	s.AddParticle(NewParticle(mgl64.Vec2{1, 2}, 3, 1, 1))
	s.AddRigidbody(NewRigidbody(mgl64.Vec2{4, 5}, mgl64.Vec2{1, 1}, 0.5, 1))

	c := s.Clone()
	c.Particles[0].Position[0] = 99
	c.Rigidbodies[0].Angle = 3
	c.Settings.FloorElasticity = 1

	if s.Particles[0].Position[0] != 1 {
		t.Error("clone shares particle storage with original")
	}
	if s.Rigidbodies[0].Angle != 0.5 {
		t.Error("clone shares rigidbody storage with original")
	}
	if s.Settings.FloorElasticity != 0.5 {
		t.Error("clone shares settings with original")
	}
	if c.Particles[0].Radius != 3 || c.Rigidbodies[0].HalfExtents != (mgl64.Vec2{1, 1}) {
		t.Error("clone lost shape data")
	}
}

func TestBodies(t *testing.T) {
	s := New(Settings{})
	s.AddParticle(NewParticle(mgl64.Vec2{}, 1, 1, 1))
	s.AddRigidbody(NewRigidbody(mgl64.Vec2{}, mgl64.Vec2{1, 1}, 0, 1))

	bodies := s.Bodies()
	if len(bodies) != 2 || s.Len() != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	bodies[1].Base().Colliding = true
	if !s.Rigidbodies[0].Colliding {
		t.Error("Bodies should expose live objects")
	}
}
