package metrics

import "github.com/san-kum/propsim/internal/scene"

// PeakSurfaceEnergy tracks the maximum fluid surface agitation seen over
// the run, a proxy for how violently the vessel was handled.
type PeakSurfaceEnergy struct {
	name string
	peak float64
}

func NewPeakSurfaceEnergy() *PeakSurfaceEnergy {
	return &PeakSurfaceEnergy{
		name: "peak_surface_energy",
	}
}

func (m *PeakSurfaceEnergy) Name() string {
	return m.name
}

func (m *PeakSurfaceEnergy) Observe(s *scene.Scene, t float64) {
	if e := s.SurfaceEnergy(); e > m.peak {
		m.peak = e
	}
}

func (m *PeakSurfaceEnergy) Value() float64 {
	return m.peak
}

func (m *PeakSurfaceEnergy) Reset() {
	m.peak = 0
}
