// Package world is a minimal single-threaded rigid-body world: sphere and
// plane primitives, semi-implicit Euler integration, impulse collision
// response, contact-begin notification, ray casting and temporary point
// constraints. It is the one resource shared by every simulation component;
// callers follow a fixed per-frame mutation order and no locking is done.
package world

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/san-kum/propsim/internal/vec"
)

const (
	defaultRestitution = 0.3
	contactFriction    = 0.88
	separationMargin   = 1e-4

	// Bodies slower than sleepSpeed for sleepDelay seconds are put to
	// sleep; collisions, constraints and Wake bring them back.
	sleepSpeed   = 0.1
	sleepAngular = 0.5
	sleepDelay   = 0.75
)

// ContactFunc is invoked once per newly-touching body pair. speed is the
// relative speed of the pair sampled at detection time, before restitution
// and friction are applied, so listeners see the true impact speed.
type ContactFunc func(a, b *Body, point vec.V3, speed float64)

type pairKey struct{ lo, hi int }

func keyFor(a, b *Body) pairKey {
	if a.ID < b.ID {
		return pairKey{a.ID, b.ID}
	}
	return pairKey{b.ID, a.ID}
}

// World owns all rigid bodies. Not safe for concurrent use.
type World struct {
	Gravity vec.V3

	bodies  []*Body
	byID    map[int]*Body
	nextID  int
	onBegin []ContactFunc

	constraints []*PointConstraint

	// Contact maps carry the pre-response relative speed per touching pair.
	prevContacts map[pairKey]float64
	curContacts  map[pairKey]float64

	log zerolog.Logger
}

func New() *World {
	return &World{
		Gravity:      vec.V3{Y: -9.81},
		byID:         make(map[int]*Body),
		nextID:       1,
		prevContacts: make(map[pairKey]float64),
		curContacts:  make(map[pairKey]float64),
		log:          zerolog.Nop(),
	}
}

// SetLogger installs a diagnostics logger. The default logger discards
// everything.
func (w *World) SetLogger(log zerolog.Logger) { w.log = log }

// AddBody registers a body and assigns its ID. Plane bodies are forced
// static.
func (w *World) AddBody(b *Body) *Body {
	b.ID = w.nextID
	w.nextID++
	if b.Orient == (vec.Quat{}) {
		b.Orient = vec.IdentityQuat()
	}
	if b.Restitution == 0 {
		b.Restitution = defaultRestitution
	}
	if b.Shape == Plane {
		b.Mass = 0
	}
	w.bodies = append(w.bodies, b)
	w.byID[b.ID] = b
	return b
}

// RemoveBody detaches a body and any constraint pinned to it.
func (w *World) RemoveBody(b *Body) {
	if b == nil {
		return
	}
	for _, c := range w.constraints {
		if c.Body == b {
			c.active = false
		}
	}
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	delete(w.byID, b.ID)
}

// Body looks up a body by ID. A miss returns nil and emits a debug
// diagnostic rather than failing.
func (w *World) Body(id int) *Body {
	b, ok := w.byID[id]
	if !ok {
		w.log.Debug().Int("body_id", id).Msg("body lookup miss")
		return nil
	}
	return b
}

// Bodies returns the live body slice. Callers must not mutate membership.
func (w *World) Bodies() []*Body { return w.bodies }

// OnContactBegin adds a listener fired once per new contact pair per step.
func (w *World) OnContactBegin(fn ContactFunc) {
	w.onBegin = append(w.onBegin, fn)
}

// Step advances the world by dt: constraints, integration, collision
// response, then contact-begin notification for new pairs.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	for _, c := range w.constraints {
		c.apply(dt)
	}

	for _, b := range w.bodies {
		if b.Mode != Dynamic || b.Static() || b.Asleep {
			continue
		}
		b.Vel = b.Vel.Add(w.Gravity.Scale(dt))
		if b.LinearDamping > 0 {
			b.Vel = b.Vel.Scale(1.0 / (1.0 + b.LinearDamping*dt))
		}
		if b.AngularDamping > 0 {
			b.AngVel = b.AngVel.Scale(1.0 / (1.0 + b.AngularDamping*dt))
		}
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		if b.AngVel.LengthSq() > 0 {
			b.Orient = b.Orient.Integrate(b.AngVel, dt)
		}
	}

	for k := range w.curContacts {
		delete(w.curContacts, k)
	}
	w.collide()

	for key, speed := range w.curContacts {
		if _, seen := w.prevContacts[key]; seen {
			continue
		}
		a, b := w.byID[key.lo], w.byID[key.hi]
		if a == nil || b == nil {
			continue
		}
		point := contactPoint(a, b)
		for _, fn := range w.onBegin {
			fn(a, b, point, speed)
		}
	}

	w.prevContacts, w.curContacts = w.curContacts, w.prevContacts

	for _, b := range w.bodies {
		if b.Mode != Dynamic || b.Static() || b.Asleep {
			continue
		}
		if b.Vel.LengthSq() < sleepSpeed*sleepSpeed &&
			b.AngVel.LengthSq() < sleepAngular*sleepAngular {
			b.idle += dt
			if b.idle >= sleepDelay {
				b.Asleep = true
				b.Vel = vec.V3{}
				b.AngVel = vec.V3{}
			}
		} else {
			b.idle = 0
		}
	}
}

func contactPoint(a, b *Body) vec.V3 {
	if a.Shape == Plane {
		return vec.V3{X: b.Pos.X, Y: a.Pos.Y, Z: b.Pos.Z}
	}
	if b.Shape == Plane {
		return vec.V3{X: a.Pos.X, Y: b.Pos.Y, Z: a.Pos.Z}
	}
	return a.Pos.Lerp(b.Pos, a.Radius/(a.Radius+b.Radius+1e-12))
}

func (w *World) collide() {
	n := len(w.bodies)
	for i := 0; i < n; i++ {
		a := w.bodies[i]
		for j := i + 1; j < n; j++ {
			b := w.bodies[j]
			if a.Shape == Plane && b.Shape == Plane {
				continue
			}
			var (
				touching bool
				speed    float64
			)
			switch {
			case a.Shape == Plane:
				touching, speed = w.spherePlane(b, a)
			case b.Shape == Plane:
				touching, speed = w.spherePlane(a, b)
			case a.Ghost || b.Ghost:
				continue
			default:
				touching, speed = w.sphereSphere(a, b)
			}
			if touching {
				w.curContacts[keyFor(a, b)] = speed
			}
		}
	}
}

// spherePlane clamps the sphere above the plane and reflects the vertical
// velocity with restitution; horizontal velocity is friction-damped. The
// returned speed is the relative speed before the response.
func (w *World) spherePlane(s, p *Body) (bool, float64) {
	floor := p.Pos.Y + s.Radius
	if s.Pos.Y >= floor {
		return false, 0
	}
	speed := s.Vel.Sub(p.Vel).Length()
	if s.Mode == Dynamic && !s.Static() {
		s.Pos.Y = floor
		if s.Vel.Y < 0 {
			s.Vel.Y = -s.Vel.Y * s.Restitution
		}
		s.Vel.X *= contactFriction
		s.Vel.Z *= contactFriction
		s.AngVel = s.AngVel.Scale(contactFriction)
	}
	return true, speed
}

// sphereSphere separates overlapping spheres by inverse-mass ratio, then
// applies a restitution impulse along the contact normal. The returned speed
// is the relative speed before the response.
func (w *World) sphereSphere(a, b *Body) (bool, float64) {
	d := b.Pos.Sub(a.Pos)
	distSq := d.LengthSq()
	minDist := a.Radius + b.Radius
	if distSq >= minDist*minDist || distSq == 0 {
		return false, 0
	}

	dist := math.Sqrt(distSq)
	norm := d.Scale(1.0 / dist)
	overlap := minDist - dist
	speed := a.Vel.Sub(b.Vel).Length()

	invA, invB := a.invMass(), b.invMass()
	invSum := invA + invB
	if invSum > 0 {
		push := norm.Scale((overlap + separationMargin) / invSum)
		a.Pos = a.Pos.Sub(push.Scale(invA))
		b.Pos = b.Pos.Add(push.Scale(invB))

		relVel := a.Vel.Sub(b.Vel)
		vn := relVel.Dot(norm)
		if vn > 0 {
			rest := math.Min(a.Restitution, b.Restitution)
			j := (1.0 + rest) * vn / invSum
			a.Vel = a.Vel.Sub(norm.Scale(j * invA))
			b.Vel = b.Vel.Add(norm.Scale(j * invB))
			a.Wake()
			b.Wake()
		}
	}
	return true, speed
}

// RayCast returns the nearest sphere body hit by the ray, with the hit
// point. Planes and ghost bodies are not ray targets.
func (w *World) RayCast(origin, dir vec.V3) (*Body, vec.V3, bool) {
	d := dir.Normalize()
	best := math.Inf(1)
	var hit *Body
	for _, b := range w.bodies {
		if b.Shape != Sphere || b.Ghost {
			continue
		}
		t, ok := raySphere(origin, d, b.Pos, b.Radius)
		if ok && t < best {
			best = t
			hit = b
		}
	}
	if hit == nil {
		return nil, vec.V3{}, false
	}
	return hit, origin.Add(d.Scale(best)), true
}

func raySphere(origin, dir, center vec.V3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	bHalf := oc.Dot(dir)
	c := oc.LengthSq() - radius*radius
	disc := bHalf*bHalf - c
	if disc < 0 {
		return 0, false
	}
	t := -bHalf - math.Sqrt(disc)
	if t < 0 {
		return 0, false
	}
	return t, true
}
