// Package breakage turns contact-begin events into deferred breakage
// notifications. Records collected during a physics step are drained in FIFO
// order after the step completes, so break callbacks never re-enter the
// world mid-step.
package breakage

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/san-kum/propsim/internal/vec"
	"github.com/san-kum/propsim/internal/world"
)

// ErrAlreadyRegistered is returned when a body already has a live
// registration. A body can be registered at most once at a time.
var ErrAlreadyRegistered = errors.New("breakage: body already registered")

// BreakFunc receives the broken body, the impact point and the relative
// impact speed. Invoked at most once per registration.
type BreakFunc func(b *world.Body, point vec.V3, speed float64)

// Registration binds an impact-speed threshold and a break callback to a
// body.
type Registration struct {
	Body      *world.Body
	Threshold float64
	OnBreak   BreakFunc
}

type record struct {
	body  *world.Body
	point vec.V3
	speed float64
	fn    BreakFunc
}

// Monitor classifies contacts against registered breakables and queues
// deferred break records. Wire HandleContact to world.OnContactBegin and
// call Drain once per frame after the step.
type Monitor struct {
	// GroundHeightMax is the classification cutoff: a static body at or
	// above this height is furniture and never qualifies a breakage
	// contact, regardless of speed.
	GroundHeightMax float64
	// FragmentMassMax qualifies small dynamic debris as a breaking partner.
	FragmentMassMax float64

	regs  map[int]*Registration
	queue []record
	log   zerolog.Logger
}

func NewMonitor() *Monitor {
	return &Monitor{
		GroundHeightMax: 0.3,
		FragmentMassMax: 0.05,
		regs:            make(map[int]*Registration),
		log:             zerolog.Nop(),
	}
}

func (m *Monitor) SetLogger(log zerolog.Logger) { m.log = log }

// Register makes a body breakable. Fails if a registration already exists.
func (m *Monitor) Register(b *world.Body, threshold float64, fn BreakFunc) error {
	if _, ok := m.regs[b.ID]; ok {
		return ErrAlreadyRegistered
	}
	m.regs[b.ID] = &Registration{Body: b, Threshold: threshold, OnBreak: fn}
	return nil
}

// Unregister removes a body's registration if present.
func (m *Monitor) Unregister(b *world.Body) {
	delete(m.regs, b.ID)
}

// Registered reports whether the body currently has a live registration.
func (m *Monitor) Registered(b *world.Body) bool {
	_, ok := m.regs[b.ID]
	return ok
}

// HandleContact evaluates a contact-begin event. speed must be the relative
// impact speed sampled before collision response, as supplied by
// world.ContactFunc; body velocities at notification time have already been
// absorbed by restitution. When a registered dynamic body hits a qualifying
// partner above its threshold, the registration is consumed immediately and
// a deferred record is queued.
func (m *Monitor) HandleContact(a, b *world.Body, point vec.V3, speed float64) {
	m.evaluate(a, b, point, speed)
	m.evaluate(b, a, point, speed)
}

func (m *Monitor) evaluate(target, other *world.Body, point vec.V3, speed float64) {
	reg, ok := m.regs[target.ID]
	if !ok {
		return
	}
	if target.Mode == world.Kinematic {
		return
	}
	if !m.qualifies(other) {
		return
	}
	if speed <= reg.Threshold {
		return
	}

	// Consume the registration first so a second contact in the same step
	// cannot double-fire.
	delete(m.regs, target.ID)
	m.queue = append(m.queue, record{body: target, point: point, speed: speed, fn: reg.OnBreak})
}

// qualifies accepts the low static ground or small fragments. Table and
// furniture surfaces sit above the ground cutoff and never qualify.
func (m *Monitor) qualifies(other *world.Body) bool {
	if other.Static() {
		return other.Pos.Y < m.GroundHeightMax
	}
	return other.Mass < m.FragmentMassMax
}

// Drain invokes queued break callbacks in FIFO order and empties the queue.
// Call after the physics step, before any component dereferences bodies the
// callbacks may remove.
func (m *Monitor) Drain() int {
	n := len(m.queue)
	for _, r := range m.queue {
		m.log.Debug().
			Int("body_id", r.body.ID).
			Float64("speed", r.speed).
			Msg("break")
		if r.fn != nil {
			r.fn(r.body, r.point, r.speed)
		}
	}
	m.queue = m.queue[:0]
	return n
}
