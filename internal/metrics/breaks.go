package metrics

import "github.com/san-kum/propsim/internal/scene"

// BreakCount reports how many props shattered during the run.
type BreakCount struct {
	name string
	last int
}

func NewBreakCount() *BreakCount {
	return &BreakCount{
		name: "break_count",
	}
}

func (m *BreakCount) Name() string {
	return m.name
}

func (m *BreakCount) Observe(s *scene.Scene, t float64) {
	m.last = s.Breaks()
}

func (m *BreakCount) Value() float64 {
	return float64(m.last)
}

func (m *BreakCount) Reset() {
	m.last = 0
}
