// Package config holds the yaml-backed tuning surface for the interaction
// scene: vessel fluid constants, grab feel, droplet/residue pools and
// breakage thresholds.
package config

import (
	"fmt"
	"os"

	"github.com/san-kum/propsim/internal/droplet"
	"github.com/san-kum/propsim/internal/fluid"
	"github.com/san-kum/propsim/internal/grab"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`

	Fluid    FluidConfig   `yaml:"fluid"`
	Grab     GrabConfig    `yaml:"grab"`
	Droplets DropletConfig `yaml:"droplets"`
	Break    BreakConfig   `yaml:"break"`
}

type FluidConfig struct {
	GridN      int     `yaml:"grid_n"`
	Radius     float64 `yaml:"radius"`
	MaxLevel   float64 `yaml:"max_level"`
	Level      float64 `yaml:"level"`
	WaveSpeed  float64 `yaml:"wave_speed"`
	Damping    float64 `yaml:"damping"`
	SpillBase  float64 `yaml:"spill_base"`
	RimSamples int     `yaml:"rim_samples"`
}

type GrabConfig struct {
	DepthSensitivity float64    `yaml:"depth_sensitivity"`
	LatchThreshold   float64    `yaml:"latch_threshold"`
	ZoneThreshold    float64    `yaml:"zone_threshold"`
	JitterAmp        float64    `yaml:"jitter_amp"`
	VesselAnchor     [3]float64 `yaml:"vessel_anchor"`
	RodAnchor        [3]float64 `yaml:"rod_anchor"`
}

type DropletConfig struct {
	Cap        int     `yaml:"cap"`
	ResidueCap int     `yaml:"residue_cap"`
	Lifetime   float64 `yaml:"lifetime"`
	DryRate    float64 `yaml:"dry_rate"`
}

type BreakConfig struct {
	VesselThreshold float64 `yaml:"vessel_threshold"`
	RodThreshold    float64 `yaml:"rod_threshold"`
	GroundHeightMax float64 `yaml:"ground_height_max"`
	FragmentMassMax float64 `yaml:"fragment_mass_max"`
}

func DefaultConfig() *Config {
	fp := fluid.DefaultParams()
	gp := grab.DefaultParams()
	dp := droplet.DefaultParams()
	return &Config{
		Dt:       1.0 / 60,
		Duration: 10.0,
		Fluid: FluidConfig{
			GridN:      fp.GridN,
			Radius:     fp.Radius,
			MaxLevel:   fp.MaxLevel,
			Level:      fp.Level,
			WaveSpeed:  fp.WaveSpeed,
			Damping:    fp.Damping,
			SpillBase:  fp.SpillBase,
			RimSamples: fp.RimSamples,
		},
		Grab: GrabConfig{
			DepthSensitivity: gp.DepthSensitivity,
			LatchThreshold:   gp.LatchThreshold,
			ZoneThreshold:    gp.ZoneThreshold,
			JitterAmp:        gp.JitterAmp,
			VesselAnchor:     [3]float64{0, 1.35, 1.6},
			RodAnchor:        [3]float64{0.15, 1.3, 1.7},
		},
		Droplets: DropletConfig{
			Cap:        dp.Cap,
			ResidueCap: dp.ResidueCap,
			Lifetime:   dp.Lifetime,
			DryRate:    dp.DryRate,
		},
		Break: BreakConfig{
			VesselThreshold: 2.0,
			RodThreshold:    2.6,
			GroundHeightMax: 0.3,
			FragmentMassMax: 0.05,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FluidParams expands the config into full fluid tuning; defaults fill
// anything the config does not expose.
func (c *Config) FluidParams() fluid.Params {
	p := fluid.DefaultParams()
	p.GridN = c.Fluid.GridN
	p.Radius = c.Fluid.Radius
	p.MaxLevel = c.Fluid.MaxLevel
	p.Level = c.Fluid.Level
	p.WaveSpeed = c.Fluid.WaveSpeed
	p.Damping = c.Fluid.Damping
	p.SpillBase = c.Fluid.SpillBase
	p.RimSamples = c.Fluid.RimSamples
	return p
}

func (c *Config) GrabParams() grab.Params {
	p := grab.DefaultParams()
	p.DepthSensitivity = c.Grab.DepthSensitivity
	p.LatchThreshold = c.Grab.LatchThreshold
	p.ZoneThreshold = c.Grab.ZoneThreshold
	p.JitterAmp = c.Grab.JitterAmp
	return p
}

func (c *Config) DropletParams() droplet.Params {
	p := droplet.DefaultParams()
	p.Cap = c.Droplets.Cap
	p.ResidueCap = c.Droplets.ResidueCap
	p.Lifetime = c.Droplets.Lifetime
	p.DryRate = c.Droplets.DryRate
	return p
}
