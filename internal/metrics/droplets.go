package metrics

import "github.com/san-kum/propsim/internal/scene"

// DropletHighWater tracks the largest number of live droplets at any one
// time, showing how hard the pool cap was pressed.
type DropletHighWater struct {
	name string
	peak int
}

func NewDropletHighWater() *DropletHighWater {
	return &DropletHighWater{
		name: "droplet_high_water",
	}
}

func (m *DropletHighWater) Name() string {
	return m.name
}

func (m *DropletHighWater) Observe(s *scene.Scene, t float64) {
	if n := s.Droplets.Count(); n > m.peak {
		m.peak = n
	}
}

func (m *DropletHighWater) Value() float64 {
	return float64(m.peak)
}

func (m *DropletHighWater) Reset() {
	m.peak = 0
}
