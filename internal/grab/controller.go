// Package grab translates pointer input into rigid-body control. A grab is
// either kinematic (the controller authors the pose directly) or
// constraint-based (a temporary point pin leaves the body dynamic so it
// tumbles), with a one-way latch from the constraint mode into direct
// kinematic authoring once the object has been pulled close enough.
package grab

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/san-kum/propsim/internal/vec"
	"github.com/san-kum/propsim/internal/world"
)

// Mode is the behavior of the active grab.
type Mode int

const (
	// KinematicGrab authors the body pose directly; physics does not act.
	KinematicGrab Mode = iota
	// ConstraintGrab pins the hit point with a joint; the body stays
	// dynamic and swings under physics.
	ConstraintGrab
	// ConstraintLatchedKinematic is the post-latch state of a constraint
	// grab: the joint is gone and the controller authors the pose. The
	// transition is one-way within a session.
	ConstraintLatchedKinematic
)

func (m Mode) String() string {
	switch m {
	case ConstraintGrab:
		return "constraint"
	case ConstraintLatchedKinematic:
		return "latched"
	default:
		return "kinematic"
	}
}

// View supplies the pointer-to-world projection. Pointer coordinates are
// normalized to [0,1] with y growing downward.
type View interface {
	Ray(px, py float64) (origin, dir vec.V3)
	Forward() vec.V3
}

// Target describes a grabbable root resolved from a ray hit.
type Target struct {
	Body   *world.Body
	Tumble bool   // tumble-capable objects use ConstraintGrab
	Anchor vec.V3 // category-specific destination pose
}

// Resolver walks a hit body up to its registered grabbable root.
type Resolver func(b *world.Body) (Target, bool)

// Params are the grab tuning constants.
type Params struct {
	DepthSensitivity float64
	LatchThreshold   float64
	ZoneThreshold    float64
	LagFloor         float64
	JitterAmp        float64

	GrabDamping float64 // body damping while constraint-held
	BaseDamping float64 // damping restored on release

	ReleaseVelScale float64
	TumbleBias      float64
	TumbleRandom    float64

	OrientRate float64 // per-frame slerp factor after the latch
	LatchTilt  float64 // pitch of the latched target orientation
}

func DefaultParams() Params {
	return Params{
		DepthSensitivity: 2.2,
		LatchThreshold:   0.6,
		ZoneThreshold:    0.85,
		LagFloor:         0.03,
		JitterAmp:        0.015,
		GrabDamping:      6.0,
		BaseDamping:      0.2,
		ReleaseVelScale:  0.5,
		TumbleBias:       0.6,
		TumbleRandom:     2.0,
		OrientRate:       0.18,
		LatchTilt:        0.35,
	}
}

// Session is the state of the one active grab. At most one exists.
type Session struct {
	target Target
	mode   Mode

	grabHeight  float64
	offset      vec.V3 // body-local hit point
	initialDist float64
	startPY     float64
	depth       float64

	constraint *world.PointConstraint

	filtered     vec.V3
	prevFiltered vec.V3
	havePrev     bool
	releaseVel   vec.V3

	lastPlane vec.V3
	elapsed   float64

	zoneSignaled bool
}

// Controller drives at most one grab session at a time.
type Controller struct {
	w       *world.World
	view    View
	resolve Resolver
	p       Params
	rng     *rand.Rand
	log     zerolog.Logger

	session *Session
}

func NewController(w *world.World, view View, resolve Resolver, p Params, seed int64) *Controller {
	if p.DepthSensitivity == 0 {
		p = DefaultParams()
	}
	return &Controller{
		w:       w,
		view:    view,
		resolve: resolve,
		p:       p,
		rng:     rand.New(rand.NewSource(seed)),
		log:     zerolog.Nop(),
	}
}

func (c *Controller) SetLogger(log zerolog.Logger) { c.log = log }

func (c *Controller) Grabbing() bool { return c.session != nil }

func (c *Controller) GrabbedBody() *world.Body {
	if c.session == nil {
		return nil
	}
	return c.session.target.Body
}

// Depth is the current depth progress in [0,1], 0 when not grabbing.
func (c *Controller) Depth() float64 {
	if c.session == nil {
		return 0
	}
	return c.session.depth
}

// InTargetZone reports whether the active grab has crossed the zone
// threshold.
func (c *Controller) InTargetZone() bool {
	return c.session != nil && c.session.zoneSignaled
}

// Mode returns the active grab mode; ok is false when idle.
func (c *Controller) Mode() (Mode, bool) {
	if c.session == nil {
		return 0, false
	}
	return c.session.mode, true
}

// HoverTest reports whether the pointer rests on a grabbable body. No side
// effects.
func (c *Controller) HoverTest(px, py float64) bool {
	origin, dir := c.view.Ray(px, py)
	hit, _, ok := c.w.RayCast(origin, dir)
	if !ok {
		return false
	}
	target, ok := c.resolve(hit)
	if !ok {
		return false
	}
	return target.Body.Mass > 0
}

// TryGrab starts a session on the body under the pointer. Static bodies and
// misses fail. Tumble-capable targets get a constraint grab; everything
// else is grabbed kinematically.
func (c *Controller) TryGrab(px, py float64) bool {
	if c.session != nil {
		return false
	}
	origin, dir := c.view.Ray(px, py)
	hit, point, ok := c.w.RayCast(origin, dir)
	if !ok {
		return false
	}
	target, ok := c.resolve(hit)
	if !ok {
		c.log.Debug().Int("body_id", hit.ID).Msg("hit body has no grabbable root")
		return false
	}
	body := target.Body
	if body.Mass == 0 {
		return false
	}

	body.Wake()
	s := &Session{
		target:      target,
		grabHeight:  point.Y,
		offset:      body.WorldToLocal(point),
		initialDist: point.Dist(origin),
		startPY:     py,
		filtered:    body.Pos,
		lastPlane:   body.Pos,
	}

	if target.Tumble {
		s.mode = ConstraintGrab
		s.constraint = c.w.AddPointConstraint(body, s.offset, point)
		body.LinearDamping = c.p.GrabDamping
		body.AngularDamping = c.p.GrabDamping * 0.8
	} else {
		s.mode = KinematicGrab
		body.Mode = world.Kinematic
		body.Vel = vec.V3{}
		body.AngVel = vec.V3{}
	}

	c.session = s
	return true
}

// Update advances the active grab. Must be called every frame while
// grabbing, whether or not the pointer moved: lag, jitter and the latch all
// depend on elapsed time. Returns true exactly on the frame depth progress
// first crosses the target-zone threshold.
func (c *Controller) Update(px, py, lag, shake, dt float64) bool {
	s := c.session
	if s == nil || dt <= 0 {
		return false
	}
	s.elapsed += dt
	body := s.target.Body

	origin, dir := c.view.Ray(px, py)
	plane := s.lastPlane
	if math.Abs(dir.Y) > 1e-9 {
		if t := (s.grabHeight - origin.Y) / dir.Y; t > 0 {
			plane = origin.Add(dir.Scale(t))
			s.lastPlane = plane
		}
	}

	s.depth = vec.Clamp((s.startPY-py)*c.p.DepthSensitivity, 0, 1)

	dest := plane.Lerp(s.target.Anchor, s.depth)

	factor := math.Max(c.p.LagFloor, 1-lag*0.25)
	s.filtered = s.filtered.Add(dest.Sub(s.filtered).Scale(factor))

	out := s.filtered.Add(c.jitter(s.elapsed, shake))

	if s.havePrev {
		s.releaseVel = s.filtered.Sub(s.prevFiltered).Scale(1 / dt)
	}
	s.prevFiltered = s.filtered
	s.havePrev = true

	switch s.mode {
	case ConstraintGrab:
		s.constraint.SetAnchor(out)
		if s.depth > c.p.LatchThreshold {
			c.latch(s, out)
		}
	case ConstraintLatchedKinematic:
		c.author(s, out)
	case KinematicGrab:
		body.Pos = out
		body.Vel = vec.V3{}
		body.AngVel = vec.V3{}
	}

	if !s.zoneSignaled && s.depth > c.p.ZoneThreshold {
		s.zoneSignaled = true
		return true
	}
	return false
}

// latch tears the constraint down for good and switches to direct kinematic
// authoring. Never reversed within a session.
func (c *Controller) latch(s *Session, out vec.V3) {
	c.w.RemoveConstraint(s.constraint)
	s.constraint = nil
	body := s.target.Body
	body.Mode = world.Kinematic
	body.Vel = vec.V3{}
	body.AngVel = vec.V3{}
	body.Pos = out
	s.mode = ConstraintLatchedKinematic
}

// author poses a latched body directly, easing its orientation toward a
// view-derived target.
func (c *Controller) author(s *Session, out vec.V3) {
	body := s.target.Body
	body.Pos = out
	body.Vel = vec.V3{}
	body.AngVel = vec.V3{}

	fwd := c.view.Forward()
	yaw := math.Atan2(-fwd.X, -fwd.Z)
	target := vec.AxisAngle(vec.V3{Y: 1}, yaw).Mul(vec.AxisAngle(vec.V3{X: 1}, c.p.LatchTilt))
	body.Orient = body.Orient.Slerp(target, c.p.OrientRate)
}

// jitter is a small multi-frequency tremor proportional to the shake
// signal, capped at one.
func (c *Controller) jitter(t, shake float64) vec.V3 {
	amp := math.Min(shake, 1) * c.p.JitterAmp
	if amp == 0 {
		return vec.V3{}
	}
	return vec.V3{
		X: (math.Sin(7.3*t) + 0.5*math.Sin(13.1*t)) * amp,
		Y: 0.6 * math.Sin(9.7*t) * amp,
		Z: (math.Cos(11.3*t) + 0.5*math.Cos(5.9*t)) * amp,
	}
}

// Release ends the session. Constraint grabs (latched or not) get their
// joint removed and the body forced back to dynamic with baseline damping;
// kinematic grabs are released with momentum from the tracked pointer
// velocity plus a random tumble.
func (c *Controller) Release() {
	s := c.session
	if s == nil {
		return
	}
	body := s.target.Body

	switch s.mode {
	case ConstraintGrab, ConstraintLatchedKinematic:
		if s.constraint != nil {
			c.w.RemoveConstraint(s.constraint)
		}
		body.Mode = world.Dynamic
		body.LinearDamping = c.p.BaseDamping
		body.AngularDamping = c.p.BaseDamping
	case KinematicGrab:
		body.Mode = world.Dynamic
		body.Vel = s.releaseVel.Scale(c.p.ReleaseVelScale)
		bias := s.releaseVel.Cross(vec.V3{Y: 1}).Scale(c.p.TumbleBias)
		body.AngVel = bias.Add(vec.V3{
			X: (c.rng.Float64() - 0.5) * c.p.TumbleRandom,
			Y: (c.rng.Float64() - 0.5) * c.p.TumbleRandom,
			Z: (c.rng.Float64() - 0.5) * c.p.TumbleRandom,
		})
	}
	body.Wake()
	c.session = nil
}
