package world

import "github.com/san-kum/propsim/internal/vec"

const (
	constraintStiffness = 600.0
	constraintTorque    = 240.0
)

// PointConstraint pins a body-local point to a kinematic world-space anchor.
// The body stays dynamic: the pin is a velocity-level spring, so the body
// swings and tumbles under gravity around the pinned point.
type PointConstraint struct {
	Body   *Body
	Local  vec.V3
	Anchor vec.V3

	active bool
}

// AddPointConstraint attaches a constraint pinning local (body space) to
// anchor (world space).
func (w *World) AddPointConstraint(b *Body, local, anchor vec.V3) *PointConstraint {
	c := &PointConstraint{Body: b, Local: local, Anchor: anchor, active: true}
	w.constraints = append(w.constraints, c)
	return c
}

// RemoveConstraint deactivates and detaches a constraint. Safe to call twice.
func (w *World) RemoveConstraint(c *PointConstraint) {
	if c == nil {
		return
	}
	c.active = false
	for i, other := range w.constraints {
		if other == c {
			w.constraints = append(w.constraints[:i], w.constraints[i+1:]...)
			return
		}
	}
}

// SetAnchor moves the kinematic anchor the pinned point is dragged toward.
func (c *PointConstraint) SetAnchor(p vec.V3) { c.Anchor = p }

// Active reports whether the constraint still acts on its body.
func (c *PointConstraint) Active() bool { return c.active }

func (c *PointConstraint) apply(dt float64) {
	b := c.Body
	if !c.active || b == nil || b.Mode != Dynamic || b.Static() {
		return
	}
	b.Wake()
	worldPoint := b.LocalToWorld(c.Local)
	delta := c.Anchor.Sub(worldPoint)

	// Velocity-level spring: correction proportional to positional error.
	b.Vel = b.Vel.Add(delta.Scale(constraintStiffness * dt))

	r := worldPoint.Sub(b.Pos)
	b.AngVel = b.AngVel.Add(r.Cross(delta).Scale(constraintTorque * dt))
}
