// Package fluid simulates a free liquid surface inside a moving, tiltable
// vessel as a damped 2D wave equation on a heightfield, forced by the
// vessel's linear and angular motion. Overflow at the rim ejects droplets
// through an Ejector.
package fluid

import (
	"math"
	"math/rand"

	"github.com/san-kum/propsim/internal/vec"
	"github.com/san-kum/propsim/internal/world"
)

// Ejector receives droplets spawned by spilling.
type Ejector interface {
	Eject(pos, vel vec.V3)
}

// Params are the tuning constants of a vessel simulation.
type Params struct {
	GridN  int
	Radius float64 // vessel cross-section radius, world units
	RimY   float64 // rim height above the vessel origin, local units

	MaxLevel float64
	Level    float64

	WaveSpeed float64
	WaveScale float64
	Damping   float64 // per-step velocity retention factor
	SnapEps   float64

	Leveling       float64
	AngularInertia float64
	LinearInertia  float64
	ForceScale     float64

	MaxHeight float64
	MaxVel    float64
	MaxAccel  float64
	Teleport  float64 // position jump treated as a teleport

	RimSamples      int
	SpillBase       float64
	SpillLevelScale float64
	SpillTiltScale  float64
	SpillPerEvent   float64
	SpillSpeed      float64

	BurstPerDrop float64 // level drained per droplet in SpillAll
	BurstMax     int
}

func DefaultParams() Params {
	return Params{
		GridN:           32,
		Radius:          0.4,
		RimY:            0.12,
		MaxLevel:        0.9,
		Level:           0.9,
		WaveSpeed:       1.6,
		WaveScale:       18.0,
		Damping:         0.994,
		SnapEps:         1e-5,
		Leveling:        9.81,
		AngularInertia:  2.2,
		LinearInertia:   1.4,
		ForceScale:      1.0,
		MaxHeight:       0.25,
		MaxVel:          2.0,
		MaxAccel:        50.0,
		Teleport:        1.0,
		RimSamples:      24,
		SpillBase:       0.04,
		SpillLevelScale: 0.12,
		SpillTiltScale:  0.05,
		SpillPerEvent:   0.002,
		SpillSpeed:      0.9,
		BurstPerDrop:    0.03,
		BurstMax:        40,
	}
}

// Simulator integrates one vessel's liquid surface.
type Simulator struct {
	p       Params
	grid    *Grid
	body    *world.Body
	ejector Ejector
	rng     *rand.Rand

	level       float64
	spilled     float64
	spillEvents int

	scratch []float64

	prevPos     vec.V3
	prevVel     vec.V3
	prevTilt    [2]float64
	prevTiltVel [2]float64
	havePrev    bool
	haveVel     bool
	haveTiltVel bool
}

func New(body *world.Body, ejector Ejector, p Params, seed int64) *Simulator {
	if p.GridN == 0 {
		p = DefaultParams()
	}
	return &Simulator{
		p:       p,
		grid:    NewGrid(p.GridN, p.MaxHeight, p.MaxVel),
		body:    body,
		ejector: ejector,
		rng:     rand.New(rand.NewSource(seed)),
		level:   p.Level,
		scratch: make([]float64, p.GridN*p.GridN),
	}
}

func (s *Simulator) Grid() *Grid       { return s.grid }
func (s *Simulator) Body() *world.Body { return s.body }
func (s *Simulator) Level() float64    { return s.level }
func (s *Simulator) MaxLevel() float64 { return s.p.MaxLevel }
func (s *Simulator) Spilled() float64  { return s.spilled }
func (s *Simulator) SpillEvents() int  { return s.spillEvents }

// LevelFraction is the remaining liquid as a fraction of capacity.
func (s *Simulator) LevelFraction() float64 {
	if s.p.MaxLevel == 0 {
		return 0
	}
	return s.level / s.p.MaxLevel
}

// SetLevel refills or drains the vessel directly. Clamped to [0, MaxLevel].
func (s *Simulator) SetLevel(level float64) {
	s.level = clamp(level, 0, s.p.MaxLevel)
}

// SurfaceEnergy sums squared heights and velocities over the grid, a cheap
// measure of how agitated the surface is.
func (s *Simulator) SurfaceEnergy() float64 {
	total := 0.0
	n := s.grid.N()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			h := s.grid.Height(i, j)
			v := s.grid.Velocity(i, j)
			total += h*h + v*v
		}
	}
	return total
}

// tilt extracts the two independent tilt angles from the vessel's up axis.
func (s *Simulator) tilt() [2]float64 {
	up := s.body.Orient.Rotate(vec.V3{Y: 1})
	return [2]float64{
		math.Atan2(up.Z, up.Y),
		math.Atan2(up.X, up.Y),
	}
}

// Update advances the surface by dt and returns the number of spill events
// this frame.
func (s *Simulator) Update(dt float64) int {
	if dt <= 0 {
		return 0
	}

	pos := s.body.Pos
	tilt := s.tilt()

	if !s.havePrev {
		s.baseline(pos, tilt)
		return 0
	}

	jump := pos.Sub(s.prevPos)
	if jump.Length() > s.p.Teleport {
		// Integrating a teleport would inject a huge phantom acceleration;
		// reset instead.
		s.grid.Reset()
		s.baseline(pos, tilt)
		return 0
	}

	velocity := jump.Scale(1 / dt)
	var accel vec.V3
	if s.haveVel {
		accel = velocity.Sub(s.prevVel).Scale(1 / dt).ClampLength(s.p.MaxAccel)
	}
	s.prevPos = pos
	s.prevVel = velocity
	s.haveVel = true

	tiltVel := [2]float64{(tilt[0] - s.prevTilt[0]) / dt, (tilt[1] - s.prevTilt[1]) / dt}
	var tiltAccel [2]float64
	if s.haveTiltVel {
		tiltAccel[0] = clamp((tiltVel[0]-s.prevTiltVel[0])/dt, -s.p.MaxAccel, s.p.MaxAccel)
		tiltAccel[1] = clamp((tiltVel[1]-s.prevTiltVel[1])/dt, -s.p.MaxAccel, s.p.MaxAccel)
	}
	s.prevTilt = tilt
	s.prevTiltVel = tiltVel
	s.haveTiltVel = true

	s.force(dt, tilt, tiltAccel, accel)
	s.propagate(dt)
	return s.spill(dt, tilt, velocity)
}

func (s *Simulator) baseline(pos vec.V3, tilt [2]float64) {
	s.prevPos = pos
	s.prevTilt = tilt
	s.haveVel = false
	s.haveTiltVel = false
	s.havePrev = true
}

// force applies the three per-cell forcing terms: leveling toward the plane
// implied by tilt, angular-inertia response, and translational-inertia
// response. Every cell is forced, including cells outside the circular
// cross-section, so gravity response stays uniform.
func (s *Simulator) force(dt float64, tilt, tiltAccel [2]float64, accel vec.V3) {
	n := s.grid.N()
	half := float64(n-1) / 2
	cell := 2 * s.p.Radius / float64(n-1)

	for i := 0; i < n; i++ {
		x := (float64(i) - half) * cell
		for j := 0; j < n; j++ {
			z := (float64(j) - half) * cell

			target := -(tilt[0]*z + tilt[1]*x)
			leveling := (target - s.grid.Height(i, j)) * s.p.Leveling
			angular := -(tiltAccel[0]*z + tiltAccel[1]*x) * s.p.AngularInertia
			linear := -(accel.X*x + accel.Z*z) * s.p.LinearInertia

			s.grid.AddVelocity(i, j, (leveling+angular+linear)*s.p.ForceScale*dt)
		}
	}
}

// propagate runs one step of the damped discrete wave equation. Values
// below SnapEps are snapped to exact zero so a settled surface goes fully
// quiet.
func (s *Simulator) propagate(dt float64) {
	n := s.grid.N()
	c2 := s.p.WaveSpeed * s.p.WaveSpeed * s.p.WaveScale

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			s.scratch[i*n+j] = s.grid.Height(i, j)
		}
	}
	prev := func(i, j int) float64 {
		if i < 0 || i >= n || j < 0 || j >= n {
			return 0
		}
		return s.scratch[i*n+j]
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			mean := (prev(i-1, j) + prev(i+1, j) + prev(i, j-1) + prev(i, j+1)) / 4
			v := s.grid.Velocity(i, j)
			v += (mean - prev(i, j)) * c2 * dt
			v *= s.p.Damping

			h := prev(i, j) + v*dt
			if math.Abs(v) < s.p.SnapEps && math.Abs(h) < s.p.SnapEps {
				v, h = 0, 0
			}
			s.grid.SetVelocity(i, j, v)
			s.grid.SetHeight(i, j, h)
		}
	}
}

// spill samples the rim and ejects one droplet per sample whose height
// exceeds the overflow threshold. The threshold rises as the vessel drains
// and dips on the downhill side of the current tilt.
func (s *Simulator) spill(dt float64, tilt [2]float64, velocity vec.V3) int {
	if s.level <= 0 || s.ejector == nil {
		return 0
	}
	n := s.grid.N()
	half := float64(n-1) / 2
	events := 0

	for k := 0; k < s.p.RimSamples; k++ {
		ang := 2 * math.Pi * float64(k) / float64(s.p.RimSamples)
		cos, sin := math.Cos(ang), math.Sin(ang)

		gi := int(math.Round(half + cos*(half-1)))
		gj := int(math.Round(half + sin*(half-1)))
		h := s.grid.Height(gi, gj)

		threshold := s.p.SpillBase + (1-s.LevelFraction())*s.p.SpillLevelScale
		threshold -= (tilt[0]*sin + tilt[1]*cos) * s.p.SpillTiltScale

		if h <= threshold {
			continue
		}

		local := vec.V3{X: cos * s.p.Radius, Y: s.p.RimY, Z: sin * s.p.Radius}
		outward := s.body.Orient.Rotate(vec.V3{X: cos, Y: 0.35, Z: sin})
		s.ejector.Eject(
			s.body.LocalToWorld(local),
			velocity.Add(outward.Scale(s.p.SpillSpeed)),
		)

		s.level = clamp(s.level-s.p.SpillPerEvent, 0, s.p.MaxLevel)
		s.spilled += s.p.SpillPerEvent
		s.spillEvents++
		events++

		if s.level <= 0 {
			break
		}
	}
	return events
}

// SpillAll empties the vessel in an outward burst radiating from impact,
// used when the vessel shatters. No-op when already empty. Returns the
// droplet count.
func (s *Simulator) SpillAll(impact vec.V3) int {
	if s.level <= 0 || s.ejector == nil {
		s.level = 0
		return 0
	}

	count := int(math.Ceil(s.level / s.p.BurstPerDrop))
	if count > s.p.BurstMax {
		count = s.p.BurstMax
	}

	for k := 0; k < count; k++ {
		ang := s.rng.Float64() * 2 * math.Pi
		speed := 0.8 + s.rng.Float64()*1.8
		dir := vec.V3{
			X: math.Cos(ang),
			Y: 0.2 + s.rng.Float64()*0.5,
			Z: math.Sin(ang),
		}.Normalize()
		s.ejector.Eject(impact.Add(dir.Scale(0.02)), dir.Scale(speed))
	}

	s.spilled += s.level
	s.level = 0
	return count
}
