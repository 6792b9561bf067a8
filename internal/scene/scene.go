// Package scene assembles the interaction world: a ground plane, a table,
// a liquid-filled vessel and a rod, wired to the grab controller, the
// breakage monitor and the droplet pool. Step advances everything in a
// fixed order so break callbacks never run inside the physics step.
package scene

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/san-kum/propsim/internal/breakage"
	"github.com/san-kum/propsim/internal/config"
	"github.com/san-kum/propsim/internal/droplet"
	"github.com/san-kum/propsim/internal/fluid"
	"github.com/san-kum/propsim/internal/grab"
	"github.com/san-kum/propsim/internal/vec"
	"github.com/san-kum/propsim/internal/world"
)

// Category classifies a grabbable prop.
type Category int

const (
	Vessel Category = iota
	Rod
)

func (c Category) String() string {
	if c == Rod {
		return "rod"
	}
	return "vessel"
}

// Prop is a grabbable, breakable object in the scene.
type Prop struct {
	Name     string
	Category Category
	Body     *world.Body
	Anchor   vec.V3
	Broken   bool
}

// Input is one frame of pointer state.
type Input struct {
	PX, PY float64 // normalized pointer, y down
	Press  bool    // pointer button held
	Lag    float64 // 0..1 tracking degradation
	Shake  float64 // 0..1 jitter amplitude
}

const (
	fragmentCount  = 6
	fragmentMass   = 0.02
	fragmentRadius = 0.04
)

// Scene owns the world and every subsystem acting on it.
type Scene struct {
	World    *world.World
	Monitor  *breakage.Monitor
	Grab     *grab.Controller
	Liquid   *fluid.Simulator
	Droplets *droplet.System
	Camera   *Camera

	cfg   *config.Config
	props map[int]*Prop

	vessel *Prop
	rod    *Prop

	prevPress bool
	time      float64
	breaks    int
	zoneHits  int

	rng *rand.Rand
	log zerolog.Logger
}

func New(cfg *config.Config) *Scene {
	w := world.New()
	s := &Scene{
		World:   w,
		Monitor: breakage.NewMonitor(),
		Camera:  DefaultCamera(),
		cfg:     cfg,
		props:   make(map[int]*Prop),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		log:     zerolog.Nop(),
	}
	s.Monitor.GroundHeightMax = cfg.Break.GroundHeightMax
	s.Monitor.FragmentMassMax = cfg.Break.FragmentMassMax
	w.OnContactBegin(s.Monitor.HandleContact)

	// Ground plane at y 0, a static table sphere whose center sits above
	// the ground cutoff so resting props never break against it.
	w.AddBody(&world.Body{Name: "ground", Shape: world.Plane})
	w.AddBody(&world.Body{
		Name:        "table",
		Shape:       world.Sphere,
		Radius:      0.35,
		Pos:         vec.V3{Y: 0.4},
		Restitution: 0.1,
	})

	vesselBody := w.AddBody(&world.Body{
		Name:           "vessel",
		Shape:          world.Sphere,
		Radius:         0.12,
		Pos:            vec.V3{Y: 0.87},
		Orient:         vec.IdentityQuat(),
		Mass:           0.35,
		Restitution:    0.15,
		LinearDamping:  0.2,
		AngularDamping: 0.2,
	})
	rodBody := w.AddBody(&world.Body{
		Name:           "rod",
		Shape:          world.Sphere,
		Radius:         0.06,
		Pos:            vec.V3{X: 0.4, Y: 0.06, Z: 0.3},
		Orient:         vec.IdentityQuat(),
		Mass:           0.2,
		Restitution:    0.2,
		LinearDamping:  0.2,
		AngularDamping: 0.2,
	})

	s.vessel = s.addProp("vessel", Vessel, vesselBody,
		anchorVec(cfg.Grab.VesselAnchor), cfg.Break.VesselThreshold)
	s.rod = s.addProp("rod", Rod, rodBody,
		anchorVec(cfg.Grab.RodAnchor), cfg.Break.RodThreshold)

	s.Droplets = droplet.NewSystem(w, cfg.DropletParams(), cfg.Seed)
	s.Liquid = fluid.New(vesselBody, s.Droplets, cfg.FluidParams(), cfg.Seed)
	s.Grab = grab.NewController(w, s.Camera, s.resolve, cfg.GrabParams(), cfg.Seed)
	return s
}

func anchorVec(a [3]float64) vec.V3 {
	return vec.V3{X: a[0], Y: a[1], Z: a[2]}
}

func (s *Scene) SetLogger(log zerolog.Logger) {
	s.log = log
	s.World.SetLogger(log)
	s.Monitor.SetLogger(log)
	s.Grab.SetLogger(log)
}

func (s *Scene) addProp(name string, cat Category, b *world.Body, anchor vec.V3, threshold float64) *Prop {
	p := &Prop{Name: name, Category: cat, Body: b, Anchor: anchor}
	s.props[b.ID] = p
	s.Monitor.Register(b, threshold, func(body *world.Body, point vec.V3, speed float64) {
		s.breakProp(p, point, speed)
	})
	return p
}

// resolve maps a ray hit to its grabbable prop. Vessels tumble under a
// constraint grab; rods are posed kinematically.
func (s *Scene) resolve(b *world.Body) (grab.Target, bool) {
	p, ok := s.props[b.ID]
	if !ok || p.Broken {
		return grab.Target{}, false
	}
	return grab.Target{
		Body:   p.Body,
		Tumble: p.Category == Vessel,
		Anchor: p.Anchor,
	}, true
}

func (s *Scene) breakProp(p *Prop, point vec.V3, speed float64) {
	if p.Broken {
		return
	}
	p.Broken = true
	s.breaks++

	if s.Grab.GrabbedBody() == p.Body {
		s.Grab.Release()
	}
	if p.Category == Vessel {
		s.Liquid.SpillAll(point)
	}
	delete(s.props, p.Body.ID)
	s.World.RemoveBody(p.Body)
	s.spawnFragments(point, speed)

	s.log.Info().
		Str("prop", p.Name).
		Float64("speed", speed).
		Msg("prop broke")
}

// spawnFragments scatters small debris from the impact point. Fragment
// mass stays below the monitor cutoff so flying debris can knock out the
// other breakable.
func (s *Scene) spawnFragments(point vec.V3, speed float64) {
	for i := 0; i < fragmentCount; i++ {
		a := 2 * math.Pi * float64(i) / fragmentCount
		dir := vec.V3{
			X: math.Cos(a),
			Y: 0.6 + s.rng.Float64()*0.4,
			Z: math.Sin(a),
		}.Normalize()
		s.World.AddBody(&world.Body{
			Name:           "fragment",
			Shape:          world.Sphere,
			Radius:         fragmentRadius,
			Pos:            point.Add(dir.Scale(fragmentRadius * 2)),
			Orient:         vec.IdentityQuat(),
			Vel:            dir.Scale(0.4 + speed*0.25),
			Mass:           fragmentMass,
			Restitution:    0.3,
			LinearDamping:  0.4,
			AngularDamping: 0.4,
		})
	}
}

// Step advances one frame. Order matters: physics, then deferred break
// callbacks, then grab authoring, then liquid and droplets, so nothing
// downstream touches a body a break callback removed.
func (s *Scene) Step(dt float64, in Input) {
	s.time += dt

	s.World.Step(dt)
	s.Monitor.Drain()

	if in.Press && !s.prevPress {
		s.Grab.TryGrab(in.PX, in.PY)
	}
	if !in.Press && s.prevPress && s.Grab.Grabbing() {
		s.Grab.Release()
	}
	s.prevPress = in.Press
	if s.Grab.Grabbing() {
		if s.Grab.Update(in.PX, in.PY, in.Lag, in.Shake, dt) {
			s.zoneHits++
		}
	}

	if !s.vessel.Broken {
		s.Liquid.Update(dt)
	}
	s.Droplets.Update(dt)
}

func (s *Scene) Time() float64 { return s.time }
func (s *Scene) Breaks() int   { return s.breaks }
func (s *Scene) ZoneHits() int { return s.zoneHits }

func (s *Scene) Vessel() *Prop { return s.vessel }
func (s *Scene) Rod() *Prop    { return s.rod }

// LevelPercent is the remaining fill as a percentage of capacity. Zero
// once the vessel breaks.
func (s *Scene) LevelPercent() float64 {
	if s.vessel.Broken {
		return 0
	}
	return s.Liquid.LevelFraction() * 100
}

func (s *Scene) GrabDepth() float64 { return s.Grab.Depth() }

func (s *Scene) InTargetZone() bool { return s.Grab.InTargetZone() }

func (s *Scene) SpilledTotal() float64 { return s.Liquid.Spilled() }

func (s *Scene) SurfaceEnergy() float64 {
	if s.vessel.Broken {
		return 0
	}
	return s.Liquid.SurfaceEnergy()
}
