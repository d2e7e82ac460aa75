package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/seonet/internal/network"
	"github.com/san-kum/seonet/internal/seo"
	"github.com/san-kum/seonet/internal/sim"
)

const (
	DefaultR        = 1.0
	DefaultRj       = 0.001
	DefaultCj       = 18.0
	DefaultC        = 2
	DefaultVd       = 0.007
	DefaultLegs     = 6
	DefaultDt       = 1e-10
	DefaultDuration = 1e-6
	DefaultRateLaw  = "orthodox"
)

type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Oscillator seo.Params       `yaml:"oscillator"`
	RateLaw    string           `yaml:"rate_law"`
	RateScale  float64          `yaml:"rate_scale"`
	Sim        SimulationConfig `yaml:"sim"`
}

type GridConfig struct {
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Z        int    `yaml:"z"`
	Topology string `yaml:"topology"`
}

type SimulationConfig struct {
	Dt               float64 `yaml:"dt"`
	Duration         float64 `yaml:"duration"`
	Seed             int64   `yaml:"seed"`
	Stochastic       bool    `yaml:"stochastic"`
	MaxEventsPerStep int     `yaml:"max_events_per_step"`
	SampleEvery      int     `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{X: 1, Y: 1, Z: 1, Topology: string(network.TopologyCubic)},
		Oscillator: seo.Params{
			R:    DefaultR,
			Rj:   DefaultRj,
			Cj:   DefaultCj,
			C:    DefaultC,
			Vd:   DefaultVd,
			Legs: DefaultLegs,
		},
		RateLaw:   DefaultRateLaw,
		RateScale: 1,
		Sim: SimulationConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			SampleEvery: 1,
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
		return nil, err
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

func (c *Config) Validate() error {
	if c.Grid.X <= 0 || c.Grid.Y <= 0 || c.Grid.Z <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%dx%d", c.Grid.X, c.Grid.Y, c.Grid.Z)
	}
	if _, err := network.ParseTopology(c.Grid.Topology); err != nil {
		return err
	}
	if _, err := c.RateLawImpl(); err != nil {
		return err
	}
	if c.Oscillator.Legs < 0 {
		return fmt.Errorf("legs must not be negative, got %d", c.Oscillator.Legs)
	}
	if c.Sim.Dt <= 0 || c.Sim.Duration <= 0 {
		return fmt.Errorf("dt and duration must be positive")
	}
	return nil
}

func (c *Config) RateLawImpl() (seo.RateLaw, error) {
	switch c.RateLaw {
	case "", "orthodox":
		return seo.NewOrthodox(), nil
	case "rc":
		scale := c.RateScale
		if scale == 0 {
			scale = 1
		}
		return seo.NewRCLinear(scale), nil
	default:
		return nil, fmt.Errorf("unknown rate law: %s", c.RateLaw)
	}
}

// BuildGrid creates and wires the configured lattice.
func (c *Config) BuildGrid() (*network.Grid, error) {
	law, err := c.RateLawImpl()
	if err != nil {
		return nil, err
	}
	topo, err := network.ParseTopology(c.Grid.Topology)
	if err != nil {
		return nil, err
	}
	g, err := network.NewGrid(c.Grid.X, c.Grid.Y, c.Grid.Z, c.Oscillator, seo.WithRateLaw(law))
	if err != nil {
		return nil, err
	}
	if err := g.Wire(topo); err != nil {
		return nil, err
	}
	return g, nil
}

func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = c.Sim.Dt
	cfg.Duration = c.Sim.Duration
	cfg.Seed = c.Sim.Seed
	cfg.Stochastic = c.Sim.Stochastic
	if c.Sim.MaxEventsPerStep > 0 {
		cfg.MaxEventsPerStep = c.Sim.MaxEventsPerStep
	}
	if c.Sim.SampleEvery > 0 {
		cfg.SampleEvery = c.Sim.SampleEvery
	}
	return cfg
}

// Apply sets a named parameter: r, rj, cj, c, vd, legs, dt, duration or seed.
func (c *Config) Apply(name string, value float64) error {
	switch name {
	case "r":
		c.Oscillator.R = value
	case "rj":
		c.Oscillator.Rj = value
	case "cj":
		c.Oscillator.Cj = value
	case "c":
		c.Oscillator.C = int(value)
	case "vd":
		c.Oscillator.Vd = value
	case "legs":
		c.Oscillator.Legs = int(value)
	case "dt":
		c.Sim.Dt = value
	case "duration":
		c.Sim.Duration = value
	case "seed":
		c.Sim.Seed = int64(value)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

// ApplyAll applies params in sorted key order.
func (c *Config) ApplyAll(params map[string]float64) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.Apply(k, params[k]); err != nil {
			return err
		}
	}
	return nil
}
