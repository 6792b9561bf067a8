package config

// Presets are named tuning sets for common demo situations.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"steady": func() *Config {
		c := DefaultConfig()
		c.Grab.JitterAmp = 0
		c.Fluid.Damping = 0.990
		return c
	}(),
	"tipsy": func() *Config {
		c := DefaultConfig()
		c.Grab.JitterAmp = 0.03
		c.Grab.DepthSensitivity = 1.8
		return c
	}(),
	"fragile": func() *Config {
		c := DefaultConfig()
		c.Break.VesselThreshold = 1.2
		c.Break.RodThreshold = 1.5
		return c
	}(),
	"brimming": func() *Config {
		c := DefaultConfig()
		c.Fluid.Level = c.Fluid.MaxLevel
		c.Fluid.SpillBase = 0.02
		return c
	}(),
}

// ListPresets returns preset names in stable order.
func ListPresets() []string {
	return []string{"default", "steady", "tipsy", "fragile", "brimming"}
}
