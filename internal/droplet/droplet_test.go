package droplet

import (
	"math"
	"testing"

	"github.com/san-kum/propsim/internal/vec"
	"github.com/san-kum/propsim/internal/world"
)

const dt = 1.0 / 60

func newSystem(p Params) (*world.World, *System) {
	w := world.New()
	return w, NewSystem(w, p, 1)
}

func TestCapEvictsOldestOnly(t *testing.T) {
	p := DefaultParams()
	p.Cap = 3
	w, s := newSystem(p)

	for i := 0; i < 3; i++ {
		s.Eject(vec.V3{X: float64(i), Y: 1}, vec.V3{})
	}
	first := s.Drops()[0].Body
	second := s.Drops()[1].Body

	s.Eject(vec.V3{X: 99, Y: 1}, vec.V3{})

	if s.Count() != 3 {
		t.Fatalf("expected pool at cap 3, got %d", s.Count())
	}
	if w.Body(first.ID) != nil {
		t.Error("oldest droplet body must be removed from the world")
	}
	if w.Body(second.ID) == nil {
		t.Error("only the oldest droplet may be evicted")
	}
	if s.Drops()[0].Body != second {
		t.Error("FIFO order must be preserved after eviction")
	}
}

func TestLifetimeExpiryCreatesResidue(t *testing.T) {
	p := DefaultParams()
	p.Lifetime = 0.05
	p.SlowFloor = 0 // disable the slow-late rule for this test
	w, s := newSystem(p)

	s.Eject(vec.V3{Y: 1}, vec.V3{X: 1})
	for i := 0; i < 10; i++ {
		s.Update(dt)
	}

	if s.Count() != 0 {
		t.Errorf("droplet should expire, %d left", s.Count())
	}
	if len(s.Marks()) != 1 {
		t.Fatalf("expected one residue mark, got %d", len(s.Marks()))
	}
	if len(w.Bodies()) != 0 {
		t.Errorf("expired droplet body must be removed, %d bodies left", len(w.Bodies()))
	}
	if a := s.Marks()[0].Angle; a < 0 || a >= math.Pi {
		t.Errorf("mark angle must lie in [0, pi), got %f", a)
	}
}

func TestGroundContactRetires(t *testing.T) {
	_, s := newSystem(DefaultParams())

	s.Eject(vec.V3{Y: 1}, vec.V3{})
	s.Drops()[0].Body.Pos.Y = 0.01
	s.Update(dt)

	if s.Count() != 0 {
		t.Error("droplet at ground height must retire")
	}
	if len(s.Marks()) != 1 {
		t.Errorf("expected a residue mark, got %d", len(s.Marks()))
	}
}

func TestFallRecoveryRetires(t *testing.T) {
	_, s := newSystem(DefaultParams())

	s.Eject(vec.V3{Y: 2}, vec.V3{Y: -5})
	s.Update(dt) // marks was-falling
	if s.Count() != 1 {
		t.Fatal("fast-falling droplet must stay alive")
	}

	s.Drops()[0].Body.Vel = vec.V3{Y: 0.5}
	s.Update(dt)

	if s.Count() != 0 {
		t.Error("droplet that recovered from a fall must retire")
	}
}

func TestSlowLateRetires(t *testing.T) {
	p := DefaultParams()
	p.Lifetime = 1.0
	_, s := newSystem(p)

	s.Eject(vec.V3{Y: 1}, vec.V3{X: 0.01})

	// Early: slow but not late yet, must survive.
	s.Update(dt)
	if s.Count() != 1 {
		t.Fatal("slow droplet early in life must survive")
	}

	s.Drops()[0].Life = 0.3 // past the late threshold
	s.Update(dt)
	if s.Count() != 0 {
		t.Error("slow droplet late in life must retire")
	}
}

func TestResidueCapFIFO(t *testing.T) {
	p := DefaultParams()
	p.ResidueCap = 2
	p.Lifetime = 0.01
	_, s := newSystem(p)

	for i := 0; i < 3; i++ {
		s.Eject(vec.V3{X: float64(i), Y: 1}, vec.V3{})
		s.Update(dt)
	}

	marks := s.Marks()
	if len(marks) != 2 {
		t.Fatalf("expected residue cap 2, got %d", len(marks))
	}
	if marks[0].Pos.X != 1 || marks[1].Pos.X != 2 {
		t.Errorf("oldest mark must be evicted first, got x=%f,%f", marks[0].Pos.X, marks[1].Pos.X)
	}
}

func TestDrynessClimbsToOne(t *testing.T) {
	p := DefaultParams()
	p.Lifetime = 0.01
	p.DryRate = 2.0
	_, s := newSystem(p)

	s.Eject(vec.V3{Y: 1}, vec.V3{})
	s.Update(dt)
	if len(s.Marks()) != 1 {
		t.Fatal("expected a mark")
	}

	prev := s.Marks()[0].Dryness
	for i := 0; i < 60; i++ {
		s.Update(dt)
		cur := s.Marks()[0].Dryness
		if cur < prev {
			t.Fatal("dryness must be monotone")
		}
		prev = cur
	}
	if prev != 1 {
		t.Errorf("dryness must saturate at 1, got %f", prev)
	}
}
