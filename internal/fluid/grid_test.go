package fluid

import "testing"

func TestGridOutOfRangeReadsZero(t *testing.T) {
	g := NewGrid(8, 1, 1)
	g.SetHeight(3, 3, 0.5)

	cases := [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, 100}}
	for _, c := range cases {
		if h := g.Height(c[0], c[1]); h != 0 {
			t.Errorf("Height(%d,%d) = %f, want 0", c[0], c[1], h)
		}
		if v := g.Velocity(c[0], c[1]); v != 0 {
			t.Errorf("Velocity(%d,%d) = %f, want 0", c[0], c[1], v)
		}
	}
}

func TestGridOutOfRangeWritesIgnored(t *testing.T) {
	g := NewGrid(4, 1, 1)
	g.SetHeight(-1, 2, 0.5)
	g.AddVelocity(9, 9, 0.5)

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if g.Height(i, j) != 0 || g.Velocity(i, j) != 0 {
				t.Fatalf("out-of-range write leaked into (%d,%d)", i, j)
			}
		}
	}
}

func TestGridClampsValues(t *testing.T) {
	g := NewGrid(4, 0.25, 2.0)
	g.SetHeight(1, 1, 10)
	g.SetHeight(2, 2, -10)
	g.SetVelocity(1, 1, 99)
	g.AddVelocity(2, 2, -99)

	if g.Height(1, 1) != 0.25 || g.Height(2, 2) != -0.25 {
		t.Errorf("heights not clamped: %f %f", g.Height(1, 1), g.Height(2, 2))
	}
	if g.Velocity(1, 1) != 2.0 || g.Velocity(2, 2) != -2.0 {
		t.Errorf("velocities not clamped: %f %f", g.Velocity(1, 1), g.Velocity(2, 2))
	}
}

func TestGridReset(t *testing.T) {
	g := NewGrid(4, 1, 1)
	g.SetHeight(1, 1, 0.5)
	g.SetVelocity(2, 2, 0.5)
	g.Reset()

	if g.Height(1, 1) != 0 || g.Velocity(2, 2) != 0 {
		t.Error("reset must zero the grid")
	}
}

func TestGridMinimumSize(t *testing.T) {
	g := NewGrid(1, 1, 1)
	if g.N() != 3 {
		t.Errorf("expected minimum size 3, got %d", g.N())
	}
}
