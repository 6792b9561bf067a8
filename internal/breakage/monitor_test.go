package breakage

import (
	"math"
	"testing"

	"github.com/san-kum/propsim/internal/vec"
	"github.com/san-kum/propsim/internal/world"
)

func ground() *world.Body {
	return &world.Body{ID: 100, Shape: world.Plane, Pos: vec.V3{Y: 0}}
}

func table() *world.Body {
	return &world.Body{ID: 101, Pos: vec.V3{Y: 0.75}}
}

func TestBreakFiresOnceAgainstGround(t *testing.T) {
	m := NewMonitor()
	b := &world.Body{ID: 1, Mass: 1}

	fired := 0
	var gotSpeed float64
	if err := m.Register(b, 2.0, func(_ *world.Body, _ vec.V3, speed float64) {
		fired++
		gotSpeed = speed
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	g := ground()
	m.HandleContact(b, g, vec.V3{}, 4.0)
	m.HandleContact(b, g, vec.V3{}, 4.0)
	m.Drain()
	m.HandleContact(b, g, vec.V3{}, 4.0)
	m.Drain()

	if fired != 1 {
		t.Errorf("expected exactly one break, got %d", fired)
	}
	if gotSpeed != 4.0 {
		t.Errorf("expected impact speed 4.0, got %f", gotSpeed)
	}
	if m.Registered(b) {
		t.Error("registration must be consumed by breakage")
	}
}

func TestBelowThresholdDoesNotBreak(t *testing.T) {
	m := NewMonitor()
	b := &world.Body{ID: 1, Mass: 1}
	fired := 0
	m.Register(b, 2.0, func(*world.Body, vec.V3, float64) { fired++ })

	m.HandleContact(b, ground(), vec.V3{}, 1.5)
	m.Drain()

	if fired != 0 {
		t.Errorf("slow impact must not break, fired=%d", fired)
	}
	if !m.Registered(b) {
		t.Error("registration must survive a non-breaking contact")
	}
}

func TestFurnitureNeverQualifies(t *testing.T) {
	m := NewMonitor()
	b := &world.Body{ID: 1, Mass: 1}
	fired := 0
	m.Register(b, 2.0, func(*world.Body, vec.V3, float64) { fired++ })

	m.HandleContact(b, table(), vec.V3{}, 40)
	m.Drain()

	if fired != 0 {
		t.Errorf("table contact must never break, fired=%d", fired)
	}
}

func TestFragmentQualifies(t *testing.T) {
	m := NewMonitor()
	b := &world.Body{ID: 1, Mass: 1}
	frag := &world.Body{ID: 2, Mass: 0.01}
	fired := 0
	m.Register(b, 2.0, func(*world.Body, vec.V3, float64) { fired++ })

	m.HandleContact(frag, b, vec.V3{}, 3.0)
	m.Drain()

	if fired != 1 {
		t.Errorf("fragment impact above threshold must break, fired=%d", fired)
	}
}

func TestHeavyDynamicPartnerDoesNotQualify(t *testing.T) {
	m := NewMonitor()
	b := &world.Body{ID: 1, Mass: 1}
	heavy := &world.Body{ID: 2, Mass: 2}
	fired := 0
	m.Register(b, 2.0, func(*world.Body, vec.V3, float64) { fired++ })

	m.HandleContact(b, heavy, vec.V3{}, 9.0)
	m.Drain()

	if fired != 0 {
		t.Errorf("heavy dynamic partner must not qualify, fired=%d", fired)
	}
}

func TestKinematicBodyNeverBreaks(t *testing.T) {
	m := NewMonitor()
	b := &world.Body{ID: 1, Mass: 1, Mode: world.Kinematic}
	fired := 0
	m.Register(b, 2.0, func(*world.Body, vec.V3, float64) { fired++ })

	m.HandleContact(b, ground(), vec.V3{}, 9.0)
	m.Drain()

	if fired != 0 {
		t.Errorf("kinematic body must not break, fired=%d", fired)
	}
}

func TestDoubleRegisterRejected(t *testing.T) {
	m := NewMonitor()
	b := &world.Body{ID: 1, Mass: 1}

	if err := m.Register(b, 2.0, nil); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := m.Register(b, 3.0, nil); err != ErrAlreadyRegistered {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestDrainOrderIsFIFO(t *testing.T) {
	m := NewMonitor()
	a := &world.Body{ID: 1, Mass: 1}
	b := &world.Body{ID: 2, Mass: 1}

	var order []int
	m.Register(a, 2.0, func(body *world.Body, _ vec.V3, _ float64) { order = append(order, body.ID) })
	m.Register(b, 2.0, func(body *world.Body, _ vec.V3, _ float64) { order = append(order, body.ID) })

	g := ground()
	m.HandleContact(a, g, vec.V3{}, 4.0)
	m.HandleContact(b, g, vec.V3{}, 5.0)

	if n := m.Drain(); n != 2 {
		t.Fatalf("expected 2 drained records, got %d", n)
	}
	if order[0] != 1 || order[1] != 2 {
		t.Errorf("expected FIFO order [1 2], got %v", order)
	}
}

// A monitor wired to a stepping world must see the impact speed, not the
// post-restitution residual. With restitution 0.15 a 4 m/s drop leaves only
// ~0.6 m/s after the bounce, which would never cross a 2.0 threshold.
func TestBreakFiresThroughWorldStep(t *testing.T) {
	w := world.New()
	w.AddBody(&world.Body{Shape: world.Plane, Pos: vec.V3{Y: 0}})
	b := w.AddBody(&world.Body{
		Mass: 0.35, Radius: 0.12, Restitution: 0.15,
		Pos: vec.V3{Y: 0.2}, Vel: vec.V3{Y: -4},
	})

	m := NewMonitor()
	fired := 0
	var gotSpeed float64
	m.Register(b, 2.0, func(_ *world.Body, _ vec.V3, speed float64) {
		fired++
		gotSpeed = speed
	})
	w.OnContactBegin(m.HandleContact)

	for i := 0; i < 30; i++ {
		w.Step(1.0 / 120)
		m.Drain()
	}

	if fired != 1 {
		t.Fatalf("expected one break from the stepped impact, got %d", fired)
	}
	if gotSpeed < 3.9 {
		t.Errorf("impact speed must be sampled before restitution, got %f", gotSpeed)
	}
}
