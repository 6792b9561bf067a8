package metrics

import "github.com/san-kum/propsim/internal/scene"

// Spilled reports the total fluid lost over the run, rim spills and burst
// spills combined.
type Spilled struct {
	name string
	last float64
}

func NewSpilled() *Spilled {
	return &Spilled{
		name: "spilled_total",
	}
}

func (m *Spilled) Name() string {
	return m.name
}

func (m *Spilled) Observe(s *scene.Scene, t float64) {
	m.last = s.SpilledTotal()
}

func (m *Spilled) Value() float64 {
	return m.last
}

func (m *Spilled) Reset() {
	m.last = 0
}
