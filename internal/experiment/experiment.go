package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/seonet/internal/config"
	"github.com/san-kum/seonet/internal/metrics"
	"github.com/san-kum/seonet/internal/network"
	"github.com/san-kum/seonet/internal/sim"
	"github.com/san-kum/seonet/internal/storage"
)

// Experiment ties a configuration to a wired grid and a simulator.
type Experiment struct {
	name      string
	cfg       *config.Config
	grid      *network.Grid
	simulator *sim.Simulator
	logger    *slog.Logger
}

func New(name string, cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Experiment{name: name, cfg: cfg, logger: logger}
}

// Setup validates the configuration, builds the grid and attaches ms, or the
// default metrics when ms is nil.
func (e *Experiment) Setup(ms []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	grid, err := e.cfg.BuildGrid()
	if err != nil {
		return err
	}
	s, err := sim.New(grid)
	if err != nil {
		return err
	}
	s.SetLogger(e.logger)

	if ms == nil {
		ms = metrics.Defaults(grid.Nodes(), e.cfg.SimConfig().Units)
	}
	for _, m := range ms {
		s.AddMetric(m)
	}

	e.grid = grid
	e.simulator = s
	e.logger.Debug("experiment ready",
		"name", e.name,
		"nodes", grid.Len(),
		"edges", grid.Edges(),
		"topology", e.cfg.Grid.Topology,
	)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Grid() *network.Grid { return e.grid }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Metadata describes the experiment for the run store.
func (e *Experiment) Metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Preset:     e.name,
		Grid:       [3]int{e.cfg.Grid.X, e.cfg.Grid.Y, e.cfg.Grid.Z},
		Topology:   e.cfg.Grid.Topology,
		Params:     e.cfg.Oscillator,
		RateLaw:    e.cfg.RateLaw,
		Seed:       e.cfg.Sim.Seed,
		Stochastic: e.cfg.Sim.Stochastic,
		Dt:         e.cfg.Sim.Dt,
		Duration:   e.cfg.Sim.Duration,
	}
}
