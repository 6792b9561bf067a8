// Package metrics collects per-run observations from a scene: fluid loss,
// surface agitation, droplet pressure and breakage counts.
package metrics

import "github.com/san-kum/propsim/internal/scene"

// Metric observes the scene once per frame and reduces to a single value.
type Metric interface {
	Name() string
	Observe(s *scene.Scene, t float64)
	Value() float64
	Reset()
}

// Standard returns the default metric set for scenario runs.
func Standard() []Metric {
	return []Metric{
		NewSpilled(),
		NewPeakSurfaceEnergy(),
		NewDropletHighWater(),
		NewBreakCount(),
	}
}
