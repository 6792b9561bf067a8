// Package droplet manages ejected fluid: a capacity-bounded pool of small
// ghost rigid bodies, and the residue marks stopped droplets leave behind.
// Residue marks are permanent until evicted by the pool cap; only their
// dryness animates.
package droplet

import (
	"math"
	"math/rand"

	"github.com/san-kum/propsim/internal/vec"
	"github.com/san-kum/propsim/internal/world"
)

// Params are the droplet/residue tuning constants.
type Params struct {
	Cap        int
	ResidueCap int

	Radius   float64
	Mass     float64
	Lifetime float64

	// FallingCutoff marks a droplet as "was falling" once its vertical
	// velocity drops below it; recovering to non-negative then retires it.
	FallingCutoff float64
	// SlowFloor retires a droplet moving slower than this late in life.
	SlowFloor float64
	// LateFraction defines "late": remaining life below this fraction.
	LateFraction float64

	GroundY     float64
	ResidueSize float64
	DryRate     float64
}

func DefaultParams() Params {
	return Params{
		Cap:           30,
		ResidueCap:    40,
		Radius:        0.02,
		Mass:          0.002,
		Lifetime:      4.0,
		FallingCutoff: -2.0,
		SlowFloor:     0.15,
		LateFraction:  0.5,
		GroundY:       0,
		ResidueSize:   0.05,
		DryRate:       0.12,
	}
}

// Droplet is one in-flight fluid body.
type Droplet struct {
	Body       *world.Body
	Life       float64
	WasFalling bool
}

// Residue is a deposited mark with a random elliptical footprint.
type Residue struct {
	Pos     vec.V3
	RadiusA float64
	RadiusB float64
	Angle   float64
	Dryness float64 // 0 wet .. 1 dry
}

// System owns every droplet body it spawns; nothing else may remove them.
type System struct {
	p     Params
	w     *world.World
	drops []*Droplet // oldest first
	marks []Residue  // oldest first
	rng   *rand.Rand

	spawned int
	retired int
}

func NewSystem(w *world.World, p Params, seed int64) *System {
	if p.Cap == 0 {
		p = DefaultParams()
	}
	return &System{p: p, w: w, rng: rand.New(rand.NewSource(seed))}
}

func (s *System) Count() int        { return len(s.drops) }
func (s *System) Drops() []*Droplet { return s.drops }
func (s *System) Marks() []Residue  { return s.marks }
func (s *System) Spawned() int      { return s.spawned }
func (s *System) Retired() int      { return s.retired }

// Eject spawns a droplet, evicting the oldest when the pool is full.
// Implements the fluid ejector interface.
func (s *System) Eject(pos, vel vec.V3) {
	if len(s.drops) >= s.p.Cap {
		oldest := s.drops[0]
		s.drops = s.drops[1:]
		s.w.RemoveBody(oldest.Body)
	}

	b := s.w.AddBody(&world.Body{
		Name:   "droplet",
		Mass:   s.p.Mass,
		Radius: s.p.Radius,
		Pos:    pos,
		Vel:    vel,
		Ghost:  true,
	})
	s.drops = append(s.drops, &Droplet{Body: b, Life: s.p.Lifetime})
	s.spawned++
}

// Update ages droplets, retires the ones that stopped, and dries residue.
func (s *System) Update(dt float64) {
	if dt <= 0 {
		return
	}

	kept := s.drops[:0]
	for _, d := range s.drops {
		d.Life -= dt
		if d.Body.Vel.Y < s.p.FallingCutoff {
			d.WasFalling = true
		}
		if s.shouldRetire(d) {
			s.deposit(d)
			s.w.RemoveBody(d.Body)
			s.retired++
			continue
		}
		kept = append(kept, d)
	}
	s.drops = kept

	for i := range s.marks {
		s.marks[i].Dryness = min(s.marks[i].Dryness+s.p.DryRate*dt, 1)
	}
}

func (s *System) shouldRetire(d *Droplet) bool {
	v := d.Body.Vel
	switch {
	case d.WasFalling && v.Y >= 0:
		return true
	case v.Length() < s.p.SlowFloor && d.Life < s.p.LateFraction*s.p.Lifetime:
		return true
	case d.Body.Pos.Y <= s.p.GroundY+d.Body.Radius+1e-6:
		return true
	case d.Life <= 0:
		return true
	}
	return false
}

// deposit converts a retiring droplet into a residue mark on the ground,
// evicting the oldest mark when the pool is full.
func (s *System) deposit(d *Droplet) {
	if len(s.marks) >= s.p.ResidueCap {
		s.marks = s.marks[1:]
	}
	base := s.p.ResidueSize
	s.marks = append(s.marks, Residue{
		Pos:     vec.V3{X: d.Body.Pos.X, Y: s.p.GroundY, Z: d.Body.Pos.Z},
		RadiusA: base * (0.7 + s.rng.Float64()*0.6),
		RadiusB: base * (0.7 + s.rng.Float64()*0.6),
		Angle:   s.rng.Float64() * math.Pi,
	})
}
