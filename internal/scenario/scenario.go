// Package scenario scripts pointer gestures against a scene and runs them
// under a fixed timestep, collecting per-frame telemetry and metrics.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Gesture is one segment of pointer motion. The pointer moves linearly
// from wherever the previous gesture left it to the destination over
// Duration. Target, when set, overrides To with the live projected
// position of the named prop.
type Gesture struct {
	Duration float64    `yaml:"duration"`
	To       [2]float64 `yaml:"to"`
	Target   string     `yaml:"target"`
	Press    bool       `yaml:"press"`
	Release  bool       `yaml:"release"`
	Lag      float64    `yaml:"lag"`
	Shake    float64    `yaml:"shake"`
}

// Scenario is a named gesture script.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Gestures    []Gesture `yaml:"gestures"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks the script is runnable.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(sc.Gestures) == 0 {
		return fmt.Errorf("no gestures")
	}
	for i, g := range sc.Gestures {
		if g.Duration <= 0 {
			return fmt.Errorf("gesture %d: duration must be positive", i+1)
		}
		switch g.Target {
		case "", "vessel", "rod":
		default:
			return fmt.Errorf("gesture %d: unknown target %q", i+1, g.Target)
		}
		if g.Press && g.Release {
			return fmt.Errorf("gesture %d: press and release in the same gesture", i+1)
		}
	}
	return nil
}
