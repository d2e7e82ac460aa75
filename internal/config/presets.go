package config

import (
	"sort"

	"github.com/san-kum/seonet/internal/seo"
)

var fixture = seo.Params{R: 1.0, Rj: 0.001, Cj: 18.0, C: 2, Vd: 0.007, Legs: 6}

var Presets = map[string]*Config{
	"single": {
		Grid:       GridConfig{X: 1, Y: 1, Z: 1, Topology: "none"},
		Oscillator: fixture,
		RateLaw:    "orthodox",
		Sim:        SimulationConfig{Dt: 1e-10, Duration: 1e-6, SampleEvery: 1},
	},
	"chain": {
		Grid:       GridConfig{X: 8, Y: 1, Z: 1, Topology: "cubic"},
		Oscillator: fixture,
		RateLaw:    "orthodox",
		Sim:        SimulationConfig{Dt: 1e-10, Duration: 2e-6, SampleEvery: 10},
	},
	"cube": {
		Grid:       GridConfig{X: 2, Y: 2, Z: 2, Topology: "cubic"},
		Oscillator: fixture,
		RateLaw:    "orthodox",
		Sim:        SimulationConfig{Dt: 1e-10, Duration: 1e-6, SampleEvery: 10},
	},
	"noisy": {
		Grid:       GridConfig{X: 4, Y: 4, Z: 1, Topology: "cubic"},
		Oscillator: fixture,
		RateLaw:    "orthodox",
		Sim:        SimulationConfig{Dt: 1e-10, Duration: 2e-6, Stochastic: true, Seed: 1, SampleEvery: 10},
	},
	"blockade": {
		Grid:       GridConfig{X: 1, Y: 1, Z: 1, Topology: "none"},
		Oscillator: seo.Params{R: 1.0, Rj: 0.001, Cj: 18.0, C: 2, Vd: 0.003, Legs: 6},
		RateLaw:    "orthodox",
		Sim:        SimulationConfig{Dt: 1e-10, Duration: 1e-6, SampleEvery: 1},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
