package config

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
)

// Preset is a named scene together with the hooks that drive it.
type Preset struct {
	Description string
	build       func(cfg *Config, rng *rand.Rand)
	hooks       func(cfg *Config, rng *rand.Rand) []sim.Hook
}

var Presets = map[string]Preset{
	"pachinko": {
		Description: "balls dropped through static pegs onto the floor",
		build:       buildPachinko,
		hooks:       pachinkoHooks,
	},
	"fireworks": {
		Description: "bursts of particles that only collide with the floor",
		build:       buildFireworks,
		hooks:       fireworksHooks,
	},
	"particle_grid": {
		Description: "static particles sweeping on sine paths, lit on overlap",
		build:       buildParticleGrid,
		hooks:       particleGridHooks,
	},
	"rigidbody_spin": {
		Description: "two spinning rectangles, one sweeping across the frame",
		build:       buildRigidbodySpin,
		hooks:       rigidbodySpinHooks,
	},
	"drop": {
		Description: "a single ball bouncing on the floor",
		build:       buildDrop,
	},
}

const (
	ballRadius    = 10.0
	pegRadius     = 20.0
	pegCount      = 10
	spawnInterval = 1.0
	spawnRange    = 100.0

	burstSize     = 10
	burstSpeed    = 300.0
	burstInterval = 2.0

	gridCols = 20
	gridRows = 10

	spinPeriod = 5.0
)

// GetPreset returns a fresh config for the named preset, or nil. Random
// placement is drawn from seed, so the same seed gives the same scene.
func GetPreset(name string, seed int64) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Preset = name
	cfg.Seed = seed
	p.build(cfg, rand.New(rand.NewSource(seed)))
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetHooks returns the hooks driving the named preset. The random
// source is seeded from cfg.Seed, offset from the one used for placement.
func PresetHooks(name string, cfg *Config) []sim.Hook {
	p, ok := Presets[name]
	if !ok || p.hooks == nil {
		return nil
	}
	return p.hooks(cfg, rand.New(rand.NewSource(cfg.Seed+1)))
}

// Spawner calls Spawn once every Interval seconds of simulated time,
// starting at First.
type Spawner struct {
	Interval float64
	First    float64
	Spawn    func(sc *scene.Scene)

	next    float64
	started bool
}

func (s *Spawner) BeforeStep(sc *scene.Scene, t, dt float64) {
	if !s.started {
		s.next = s.First
		s.started = true
	}
	for s.Interval > 0 && t >= s.next {
		s.Spawn(sc)
		s.next += s.Interval
	}
}

// Pruner removes particles that have left the frame.
func Pruner(min, max mgl64.Vec2) sim.Hook {
	return sim.HookFunc(func(sc *scene.Scene, _, _ float64) {
		sc.RetainParticles(func(p *scene.Particle) bool {
			return scene.InBounds(p.Position, min, max)
		})
	})
}

// Spin advances the angle of static rigidbodies by their angular
// velocity. The engine leaves static objects in place, so kinematic
// motion is driven from here.
func Spin() sim.Hook {
	return sim.HookFunc(func(sc *scene.Scene, _, dt float64) {
		for i := range sc.Rigidbodies {
			if r := &sc.Rigidbodies[i]; r.Static {
				r.Angle += r.AngularVelocity * dt
			}
		}
	})
}

// TriangleWave rises linearly from 0 to amplitude over half a period and
// falls back over the other half.
func TriangleWave(t, period, amplitude float64) float64 {
	p := 2 * t / period
	w := math.Floor(p)
	phi := p - w
	z1 := 1.0
	if int64(w)%2 != 0 {
		z1 = -1
	}
	z0 := (1 - z1) / 2
	return amplitude * (z0 + z1*phi)
}

func inset(cfg *Config) (mgl64.Vec2, mgl64.Vec2) {
	w, h := cfg.World.Width, cfg.World.Height
	return mgl64.Vec2{w * 5 / 16, h * 5 / 24}, mgl64.Vec2{w * 11 / 16, h * 19 / 24}
}

func randIn(rng *rand.Rand, lo, hi mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		lo[0] + rng.Float64()*(hi[0]-lo[0]),
		lo[1] + rng.Float64()*(hi[1]-lo[1]),
	}
}

func layer(l uint) *uint    { return &l }
func mask(m uint64) *uint64 { return &m }

func buildPachinko(cfg *Config, rng *rand.Rand) {
	cfg.Engines = []string{"particle"}
	cfg.Duration = 20
	cfg.Settings = scene.Settings{FloorEnabled: true, FloorElasticity: 1}
	lo, hi := inset(cfg)
	for i := 0; i < pegCount; i++ {
		cfg.Particles = append(cfg.Particles, ParticleConfig{
			ObjectConfig: ObjectConfig{
				Static: true, Layer: layer(1), Mask: mask(0b10),
				Mass: 1, Elasticity: 0.6,
				Position: randIn(rng, lo, hi),
			},
			Radius: pegRadius,
		})
	}
}

func pachinkoHooks(cfg *Config, rng *rand.Rand) []sim.Hook {
	w, h := cfg.World.Width, cfg.World.Height
	spawn := &Spawner{
		Interval: spawnInterval,
		First:    spawnInterval,
		Spawn: func(sc *scene.Scene) {
			x := rng.Float64()*spawnRange + (w-spawnRange)/2
			sc.AddParticle(scene.NewParticle(mgl64.Vec2{x, h}, ballRadius, 1, 0.6))
		},
	}
	return []sim.Hook{spawn, Pruner(cfg.Bounds())}
}

func buildFireworks(cfg *Config, _ *rand.Rand) {
	cfg.Engines = []string{"particle"}
	cfg.Duration = 10
	cfg.Settings = scene.Settings{FloorEnabled: true, FloorElasticity: 1}
}

func fireworksHooks(cfg *Config, rng *rand.Rand) []sim.Hook {
	lo, hi := inset(cfg)
	spawn := &Spawner{
		Interval: burstInterval,
		Spawn: func(sc *scene.Scene) {
			pos := randIn(rng, lo, hi)
			for i := 0; i < burstSize; i++ {
				a := rng.Float64()*2*math.Pi - math.Pi + math.Pi/2
				p := scene.NewParticle(pos, ballRadius, 1, 0.6)
				p.CollisionMask = 0b01
				p.Velocity = mgl64.Vec2{math.Cos(a), math.Sin(a)}.Mul(burstSpeed)
				sc.AddParticle(p)
			}
		},
	}
	return []sim.Hook{Pruner(cfg.Bounds()), spawn}
}

func buildParticleGrid(cfg *Config, rng *rand.Rand) {
	cfg.Engines = []string{"particle"}
	cfg.Settings = scene.Settings{}
	w, h := cfg.World.Width, cfg.World.Height
	add := func(pos mgl64.Vec2) {
		cfg.Particles = append(cfg.Particles, ParticleConfig{
			ObjectConfig: ObjectConfig{
				Static: true, Layer: layer(1), Mask: mask(0b10),
				Mass: 1, Elasticity: 1,
				Position: pos,
			},
			Radius: ballRadius,
		})
	}
	for i := 0; i < gridCols; i++ {
		x := ballRadius + float64(i)*(w-2*ballRadius)/(gridCols-1)
		add(mgl64.Vec2{x, rng.Float64()*10 + 10})
	}
	for i := 0; i < gridRows; i++ {
		y := ballRadius + float64(i)*(h-2*ballRadius)/(gridRows-1)
		add(mgl64.Vec2{rng.Float64()*10 + 10, y})
	}
}

// particleGridHooks sweeps column particles vertically and row particles
// horizontally between their start and its mirror across the frame.
func particleGridHooks(cfg *Config, rng *rand.Rand) []sim.Hook {
	w, h := cfg.World.Width, cfg.World.Height
	n := len(cfg.Particles)
	starts := make([]mgl64.Vec2, n)
	ends := make([]mgl64.Vec2, n)
	periods := make([]float64, n)
	for i, pc := range cfg.Particles {
		starts[i] = pc.Position
		if i < gridCols {
			ends[i] = mgl64.Vec2{pc.Position[0], h - pc.Position[1]}
		} else {
			ends[i] = mgl64.Vec2{w - pc.Position[0], pc.Position[1]}
		}
		periods[i] = rng.Float64()*4.5 + 0.5
	}
	return []sim.Hook{sim.HookFunc(func(sc *scene.Scene, t, dt float64) {
		now := t + dt
		for i := 0; i < n && i < len(sc.Particles); i++ {
			phase := 2 * math.Pi * now / periods[i]
			half := ends[i].Sub(starts[i]).Mul(0.5)
			sc.Particles[i].Position = starts[i].Add(half.Mul(math.Sin(phase) + 1))
		}
	})}
}

func buildRigidbodySpin(cfg *Config, _ *rand.Rand) {
	cfg.Engines = []string{"rigidbody"}
	cfg.Settings = scene.Settings{}
	w, h := cfg.World.Width, cfg.World.Height
	cfg.Rigidbodies = []RigidbodyConfig{
		{
			ObjectConfig: ObjectConfig{
				Static: true, Layer: layer(1), Mask: mask(0b10),
				Mass: 1, Position: mgl64.Vec2{w / 2, h / 2},
			},
			HalfExtents:     mgl64.Vec2{50, 100},
			AngularVelocity: 1.25,
		},
		{
			ObjectConfig: ObjectConfig{
				Static: true, Layer: layer(1), Mask: mask(0b10),
				Mass: 1, Elasticity: 1, Position: mgl64.Vec2{0, h / 2},
			},
			HalfExtents:     mgl64.Vec2{50, 40},
			AngularVelocity: -0.75,
		},
	}
}

func rigidbodySpinHooks(cfg *Config, _ *rand.Rand) []sim.Hook {
	w := cfg.World.Width
	sweep := sim.HookFunc(func(sc *scene.Scene, t, dt float64) {
		if len(sc.Rigidbodies) > 1 {
			sc.Rigidbodies[1].Position[0] = TriangleWave(t+dt, spinPeriod, w)
		}
	})
	return []sim.Hook{Spin(), sweep}
}

func buildDrop(cfg *Config, _ *rand.Rand) {
	cfg.Engines = []string{"particle"}
	cfg.Duration = 5
	cfg.Settings = scene.Settings{FloorEnabled: true, FloorElasticity: 1}
	cfg.Particles = []ParticleConfig{{
		ObjectConfig: ObjectConfig{
			Mass: 1, Elasticity: 0.6,
			Position: mgl64.Vec2{cfg.World.Width / 2, cfg.World.Height - 40},
		},
		Radius: ballRadius,
	}}
}
