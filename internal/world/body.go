package world

import "github.com/san-kum/propsim/internal/vec"

// Mode selects how a body is advanced: Dynamic bodies respond to gravity,
// impulses and constraints; Kinematic bodies are posed externally and only
// push other bodies.
type Mode int

const (
	Dynamic Mode = iota
	Kinematic
)

func (m Mode) String() string {
	if m == Kinematic {
		return "kinematic"
	}
	return "dynamic"
}

// Shape is the collision primitive of a body.
type Shape int

const (
	// Sphere collides against everything.
	Sphere Shape = iota
	// Plane is an infinite horizontal surface at the body's Y position.
	// Always static.
	Plane
)

// Body is a rigid body owned by a World. Mass 0 means static.
type Body struct {
	ID     int
	Name   string
	Shape  Shape
	Radius float64

	Pos    vec.V3
	Orient vec.Quat
	Vel    vec.V3
	AngVel vec.V3

	Mass        float64
	Mode        Mode
	Restitution float64

	// Damping factors are per-second decay rates.
	LinearDamping  float64
	AngularDamping float64

	// Ghost bodies collide with planes only, never with other spheres.
	// Used for droplets so ejected fluid passes around solid props.
	Ghost bool

	Asleep bool

	// Seconds spent below the sleep speed thresholds.
	idle float64
}

// Static reports whether the body never moves (mass 0).
func (b *Body) Static() bool { return b.Mass == 0 }

func (b *Body) invMass() float64 {
	if b.Mass == 0 || b.Mode == Kinematic {
		return 0
	}
	return 1.0 / b.Mass
}

// Wake clears the sleep flag so the next step integrates the body.
func (b *Body) Wake() {
	b.Asleep = false
	b.idle = 0
}

// LocalToWorld transforms a body-local point into world space.
func (b *Body) LocalToWorld(p vec.V3) vec.V3 {
	return b.Pos.Add(b.Orient.Rotate(p))
}

// WorldToLocal transforms a world-space point into body-local space.
func (b *Body) WorldToLocal(p vec.V3) vec.V3 {
	return b.Orient.Conj().Rotate(p.Sub(b.Pos))
}
