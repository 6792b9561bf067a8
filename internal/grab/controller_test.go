package grab

import (
	"testing"

	"github.com/san-kum/propsim/internal/vec"
	"github.com/san-kum/propsim/internal/world"
)

const dt = 1.0 / 60

// testView shoots rays straight down from above, pointer mapped to the XZ
// plane.
type testView struct{}

func (testView) Ray(px, py float64) (vec.V3, vec.V3) {
	return vec.V3{X: (px - 0.5) * 4, Y: 10, Z: (py - 0.5) * 4}, vec.V3{Y: -1}
}

func (testView) Forward() vec.V3 { return vec.V3{Z: -1} }

type fixture struct {
	w    *world.World
	ctrl *Controller
	body *world.Body
}

func newFixture(mass float64, tumble bool) *fixture {
	w := world.New()
	body := w.AddBody(&world.Body{Mass: mass, Radius: 0.2, Pos: vec.V3{Y: 1}})

	resolve := func(hit *world.Body) (Target, bool) {
		if hit != body {
			return Target{}, false
		}
		return Target{Body: body, Tumble: tumble, Anchor: vec.V3{Y: 1.4, Z: 2}}, true
	}
	return &fixture{w: w, ctrl: NewController(w, testView{}, resolve, DefaultParams(), 1), body: body}
}

func TestTryGrabStaticFails(t *testing.T) {
	f := newFixture(0, false)

	if f.ctrl.TryGrab(0.5, 0.5) {
		t.Error("grabbing a static body must fail")
	}
	if f.ctrl.Grabbing() {
		t.Error("failed grab must not leave a session")
	}
}

func TestTryGrabMissFails(t *testing.T) {
	f := newFixture(1, false)

	if f.ctrl.TryGrab(0.99, 0.99) {
		t.Error("grab without a hit must fail")
	}
}

func TestKinematicGrabAuthorsPose(t *testing.T) {
	f := newFixture(1, false)

	if !f.ctrl.TryGrab(0.5, 0.5) {
		t.Fatal("expected successful grab")
	}
	if f.body.Mode != world.Kinematic {
		t.Error("kinematic grab must set body kinematic")
	}
	if mode, _ := f.ctrl.Mode(); mode != KinematicGrab {
		t.Errorf("expected KinematicGrab, got %v", mode)
	}

	f.ctrl.Update(0.6, 0.5, 0, 0, dt)
	if f.body.Pos == (vec.V3{Y: 1}) {
		t.Error("update must move the grabbed body")
	}
}

func TestImmediateReleaseNoMomentum(t *testing.T) {
	f := newFixture(1, false)

	f.ctrl.TryGrab(0.5, 0.5)
	f.ctrl.Release()

	if f.body.Vel.Length() != 0 {
		t.Errorf("release without movement must inject zero velocity, got %v", f.body.Vel)
	}
	if f.body.Mode != world.Dynamic {
		t.Error("released body must be dynamic")
	}
	if f.ctrl.Grabbing() {
		t.Error("session must be cleared on release")
	}
}

func TestReleaseCarriesMomentum(t *testing.T) {
	f := newFixture(1, false)

	f.ctrl.TryGrab(0.5, 0.5)
	for i := 0; i < 20; i++ {
		f.ctrl.Update(0.5+float64(i)*0.01, 0.5, 0, 0, dt)
	}
	f.ctrl.Release()

	if f.body.Vel.X <= 0 {
		t.Errorf("rightward drag must release with +X velocity, got %f", f.body.Vel.X)
	}
	if f.body.AngVel.Length() == 0 {
		t.Error("kinematic release must inject tumble")
	}
}

func TestConstraintGrabKeepsBodyDynamic(t *testing.T) {
	f := newFixture(1, true)

	if !f.ctrl.TryGrab(0.5, 0.5) {
		t.Fatal("expected successful grab")
	}
	if f.body.Mode != world.Dynamic {
		t.Error("constraint grab must leave the body dynamic")
	}
	if mode, _ := f.ctrl.Mode(); mode != ConstraintGrab {
		t.Errorf("expected ConstraintGrab, got %v", mode)
	}
}

func TestLatchIsOneWay(t *testing.T) {
	f := newFixture(1, true)
	f.ctrl.TryGrab(0.5, 0.5)

	// Pull toward the viewer until depth crosses the latch threshold.
	f.ctrl.Update(0.5, 0.2, 0, 0, dt)
	mode, _ := f.ctrl.Mode()
	if mode != ConstraintLatchedKinematic {
		t.Fatalf("expected latch at depth %f, mode %v", f.ctrl.Depth(), mode)
	}
	if f.body.Mode != world.Kinematic {
		t.Error("latched body must be kinematic")
	}

	// Back off below the threshold: the latch must hold.
	f.ctrl.Update(0.5, 0.5, 0, 0, dt)
	if mode, _ := f.ctrl.Mode(); mode != ConstraintLatchedKinematic {
		t.Error("latch must never reverse within a session")
	}
}

func TestTargetZoneSignalsExactlyOnce(t *testing.T) {
	f := newFixture(1, true)
	f.ctrl.TryGrab(0.5, 0.5)

	entered := 0
	for i := 0; i < 30; i++ {
		if f.ctrl.Update(0.5, 0.1, 0, 0, dt) {
			entered++
		}
	}

	if entered != 1 {
		t.Errorf("target-zone signal must fire exactly once, got %d", entered)
	}
	if !f.ctrl.InTargetZone() {
		t.Error("InTargetZone must stay true after the signal")
	}
}

func TestReleaseAfterLatchRestoresDynamic(t *testing.T) {
	f := newFixture(1, true)
	f.ctrl.TryGrab(0.5, 0.5)
	f.ctrl.Update(0.5, 0.1, 0, 0, dt)

	f.ctrl.Release()

	if f.body.Mode != world.Dynamic {
		t.Error("latched body must return to dynamic on release")
	}
	if f.ctrl.Grabbing() {
		t.Error("session must be cleared")
	}
}

func TestHoverTest(t *testing.T) {
	f := newFixture(1, false)

	if !f.ctrl.HoverTest(0.5, 0.5) {
		t.Error("pointer over a dynamic body must hover")
	}
	if f.ctrl.HoverTest(0.99, 0.99) {
		t.Error("pointer over nothing must not hover")
	}

	static := newFixture(0, false)
	if static.ctrl.HoverTest(0.5, 0.5) {
		t.Error("pointer over a static body must not hover")
	}
}

func TestLagFloorKeepsTracking(t *testing.T) {
	f := newFixture(1, false)
	f.ctrl.TryGrab(0.5, 0.5)

	start := f.body.Pos
	f.ctrl.Update(0.9, 0.5, 1000, 0, dt)

	moved := f.body.Pos.Sub(start).Length()
	if moved == 0 {
		t.Error("even extreme lag must keep a minimum tracking rate")
	}
	// The floor factor is tiny; a single frame must not snap to the target.
	if moved > 0.5 {
		t.Errorf("lagged grab moved too far in one frame: %f", moved)
	}
}

func TestUpdateWhileIdleIsNoOp(t *testing.T) {
	f := newFixture(1, false)

	if f.ctrl.Update(0.5, 0.5, 0, 0, dt) {
		t.Error("update without a session must return false")
	}
	if f.ctrl.Depth() != 0 {
		t.Error("depth must be zero when idle")
	}
}

func TestSecondGrabWhileActiveFails(t *testing.T) {
	f := newFixture(1, false)

	f.ctrl.TryGrab(0.5, 0.5)
	if f.ctrl.TryGrab(0.5, 0.5) {
		t.Error("only one grab session may exist")
	}
}
