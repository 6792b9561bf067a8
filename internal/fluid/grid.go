package fluid

// Grid is an N×N heightfield in vessel-local space. Out-of-range reads
// return 0; writes clamp to the configured height/velocity bounds and
// ignore out-of-range indices. The grid never moves with the vessel; only
// its interpretation through the vessel transform does.
type Grid struct {
	n         int
	maxHeight float64
	maxVel    float64
	h         []float64
	v         []float64
}

func NewGrid(n int, maxHeight, maxVel float64) *Grid {
	if n < 3 {
		n = 3
	}
	return &Grid{
		n:         n,
		maxHeight: maxHeight,
		maxVel:    maxVel,
		h:         make([]float64, n*n),
		v:         make([]float64, n*n),
	}
}

func (g *Grid) N() int { return g.n }

func (g *Grid) in(i, j int) bool {
	return i >= 0 && i < g.n && j >= 0 && j < g.n
}

func (g *Grid) Height(i, j int) float64 {
	if !g.in(i, j) {
		return 0
	}
	return g.h[i*g.n+j]
}

func (g *Grid) Velocity(i, j int) float64 {
	if !g.in(i, j) {
		return 0
	}
	return g.v[i*g.n+j]
}

func (g *Grid) SetHeight(i, j int, h float64) {
	if !g.in(i, j) {
		return
	}
	g.h[i*g.n+j] = clamp(h, -g.maxHeight, g.maxHeight)
}

func (g *Grid) SetVelocity(i, j int, v float64) {
	if !g.in(i, j) {
		return
	}
	g.v[i*g.n+j] = clamp(v, -g.maxVel, g.maxVel)
}

func (g *Grid) AddVelocity(i, j int, dv float64) {
	if !g.in(i, j) {
		return
	}
	idx := i*g.n + j
	g.v[idx] = clamp(g.v[idx]+dv, -g.maxVel, g.maxVel)
}

// Reset zeroes every height and velocity.
func (g *Grid) Reset() {
	for i := range g.h {
		g.h[i] = 0
		g.v[i] = 0
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
