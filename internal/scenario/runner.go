package scenario

import (
	"context"
	"fmt"

	"github.com/san-kum/propsim/internal/metrics"
	"github.com/san-kum/propsim/internal/scene"
)

// Frame is one step of telemetry.
type Frame struct {
	Time     float64
	Level    float64 // fill percentage
	Depth    float64
	Zone     bool
	Spilled  float64
	Breaks   int
	Droplets int
}

// Result is the collected output of a scripted run.
type Result struct {
	Scenario string
	Frames   []Frame
	Metrics  map[string]float64
}

// Run executes the scenario against the scene. Returns the partial result
// with the context error if cancelled mid-run.
func Run(ctx context.Context, s *scene.Scene, sc *Scenario, dt float64, ms []metrics.Metric) (*Result, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("scenario: dt must be positive")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	for _, m := range ms {
		m.Reset()
	}

	result := &Result{
		Scenario: sc.Name,
		Metrics:  make(map[string]float64),
	}

	px, py := 0.5, 0.5
	press := false

	for _, g := range sc.Gestures {
		if g.Press {
			press = true
		}
		if g.Release {
			press = false
		}

		fromX, fromY := px, py
		steps := int(g.Duration/dt + 0.5)
		if steps < 1 {
			steps = 1
		}

		for i := 1; i <= steps; i++ {
			select {
			case <-ctx.Done():
				result.finish(ms)
				return result, ctx.Err()
			default:
			}

			toX, toY := g.To[0], g.To[1]
			if g.Target != "" {
				if tx, ty, ok := projectTarget(s, g.Target); ok {
					toX, toY = tx, ty
				}
			}

			a := float64(i) / float64(steps)
			px = fromX + (toX-fromX)*a
			py = fromY + (toY-fromY)*a

			s.Step(dt, scene.Input{
				PX:    px,
				PY:    py,
				Press: press,
				Lag:   g.Lag,
				Shake: g.Shake,
			})

			for _, m := range ms {
				m.Observe(s, s.Time())
			}
			result.Frames = append(result.Frames, Frame{
				Time:     s.Time(),
				Level:    s.LevelPercent(),
				Depth:    s.GrabDepth(),
				Zone:     s.InTargetZone(),
				Spilled:  s.SpilledTotal(),
				Breaks:   s.Breaks(),
				Droplets: s.Droplets.Count(),
			})
		}
	}

	result.finish(ms)
	return result, nil
}

func (r *Result) finish(ms []metrics.Metric) {
	for _, m := range ms {
		r.Metrics[m.Name()] = m.Value()
	}
}

// projectTarget maps a named prop to pointer coordinates. Broken or
// removed props do not project.
func projectTarget(s *scene.Scene, name string) (float64, float64, bool) {
	var p *scene.Prop
	switch name {
	case "vessel":
		p = s.Vessel()
	case "rod":
		p = s.Rod()
	default:
		return 0, 0, false
	}
	if p.Broken {
		return 0, 0, false
	}
	return projectClamped(s, p)
}

func projectClamped(s *scene.Scene, p *scene.Prop) (float64, float64, bool) {
	px, py, ok := s.Camera.Project(p.Body.Pos)
	if !ok {
		return 0, 0, false
	}
	return clamp01(px), clamp01(py), true
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
