package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/motion2d/internal/physics"
	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 10.0
	DefaultWidth       = 640.0
	DefaultHeight      = 480.0
	DefaultSampleEvery = 1
)

var (
	ErrUnknownEngine = errors.New("config: unknown engine")
	ErrNoEngines     = errors.New("config: no engines listed")
)

type Config struct {
	Name        string            `yaml:"name,omitempty"`
	Preset      string            `yaml:"preset,omitempty"`
	Seed        int64             `yaml:"seed"`
	Dt          float64           `yaml:"dt"`
	Duration    float64           `yaml:"duration"`
	SampleEvery int               `yaml:"sample_every"`
	Engines     []string          `yaml:"engines"`
	World       WorldConfig       `yaml:"world"`
	Settings    scene.Settings    `yaml:"settings"`
	Particles   []ParticleConfig  `yaml:"particles,omitempty"`
	Rigidbodies []RigidbodyConfig `yaml:"rigidbodies,omitempty"`
}

// WorldConfig is the visible frame. Presets spawn and prune against it;
// the engines themselves are unbounded.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ObjectConfig holds the fields shared by every object. A nil Layer or
// Mask takes the kind's default.
type ObjectConfig struct {
	Static     bool       `yaml:"static,omitempty"`
	Layer      *uint      `yaml:"layer,omitempty"`
	Mask       *uint64    `yaml:"mask,omitempty"`
	Mass       float64    `yaml:"mass"`
	Elasticity float64    `yaml:"elasticity"`
	Position   mgl64.Vec2 `yaml:"position,flow"`
	Velocity   mgl64.Vec2 `yaml:"velocity,flow"`
}

type ParticleConfig struct {
	ObjectConfig `yaml:",inline"`
	Radius       float64 `yaml:"radius"`
}

type RigidbodyConfig struct {
	ObjectConfig    `yaml:",inline"`
	HalfExtents     mgl64.Vec2 `yaml:"half_extents,flow"`
	Angle           float64    `yaml:"angle,omitempty"`
	AngularVelocity float64    `yaml:"angular_velocity,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
		Engines:     []string{"particle", "rigidbody"},
		World:       WorldConfig{Width: DefaultWidth, Height: DefaultHeight},
		Settings:    scene.Settings{FloorEnabled: true, FloorElasticity: 1},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scene document over DefaultConfig.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build creates the scene described by c and validates it.
func (c *Config) Build() (*scene.Scene, error) {
	sc := scene.New(c.Settings)
	for _, pc := range c.Particles {
		p := scene.NewParticle(pc.Position, pc.Radius, pc.Mass, pc.Elasticity)
		pc.apply(&p.Object)
		sc.AddParticle(p)
	}
	for _, rc := range c.Rigidbodies {
		r := scene.NewRigidbody(rc.Position, rc.HalfExtents, rc.Angle, rc.Mass)
		r.Elasticity = rc.Elasticity
		r.AngularVelocity = rc.AngularVelocity
		rc.apply(&r.Object)
		sc.AddRigidbody(r)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", c.Name, err)
	}
	return sc, nil
}

func (oc ObjectConfig) apply(o *scene.Object) {
	o.Static = oc.Static
	o.Velocity = oc.Velocity
	if oc.Layer != nil {
		o.CollisionLayer = *oc.Layer
	}
	if oc.Mask != nil {
		o.CollisionMask = *oc.Mask
	}
}

// Steppers returns the engines named in c, in order.
func (c *Config) Steppers() ([]physics.Stepper, error) {
	if len(c.Engines) == 0 {
		return nil, ErrNoEngines
	}
	out := make([]physics.Stepper, 0, len(c.Engines))
	for _, name := range c.Engines {
		switch name {
		case "particle":
			out = append(out, physics.NewParticleEngine())
		case "rigidbody":
			out = append(out, physics.NewRigidbodyEngine())
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
		}
	}
	return out, nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Seed:          c.Seed,
		SampleEvery:   c.SampleEvery,
		ValidateState: true,
	}
}

// Bounds returns the world frame as min and max corners.
func (c *Config) Bounds() (mgl64.Vec2, mgl64.Vec2) {
	return mgl64.Vec2{0, 0}, mgl64.Vec2{c.World.Width, c.World.Height}
}

// Simulator assembles a simulator with the configured engines and, when
// c names a preset, its driving hooks.
func (c *Config) Simulator() (*sim.Simulator, *scene.Scene, error) {
	steppers, err := c.Steppers()
	if err != nil {
		return nil, nil, err
	}
	sc, err := c.Build()
	if err != nil {
		return nil, nil, err
	}
	s := sim.New(steppers...)
	for _, h := range PresetHooks(c.Preset, c) {
		s.AddHook(h)
	}
	return s, sc, nil
}
