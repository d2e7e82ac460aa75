package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/seonet/internal/config"
	"github.com/san-kum/seonet/internal/experiment"
	"github.com/san-kum/seonet/internal/sim"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and applies overrides.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Topology string             `yaml:"topology"`
	Grid     []int              `yaml:"grid"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

type StepResult struct {
	Name       string
	Experiment *experiment.Experiment
	Result     *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// StepConfig resolves the configuration of one step.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	}
	if len(step.Grid) > 0 {
		if len(step.Grid) != 3 {
			return nil, fmt.Errorf("grid needs 3 dimensions, got %d", len(step.Grid))
		}
		cfg.Grid.X, cfg.Grid.Y, cfg.Grid.Z = step.Grid[0], step.Grid[1], step.Grid[2]
	}
	if step.Topology != "" {
		cfg.Grid.Topology = step.Topology
	}
	if err := cfg.ApplyAll(step.Params); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = step.Preset
		}
		if name == "" {
			name = fmt.Sprintf("%s_%d", scenario.Name, i+1)
		}
		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", name)

		exp := experiment.New(name, cfg, logger)
		if err := exp.Setup(nil); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Experiment: exp, Result: result})
	}

	return results, nil
}

// MonteCarloConfig repeats a stochastic configuration over consecutive seeds.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
}

type MonteCarloResult struct {
	TrialID int
	Seed    int64
	Events  int
	Rate    float64
}

// RunMonteCarlo executes the trials in parallel, one network per trial.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("number of trials must be positive, got %d", cfg.NumTrials)
	}
	if err := cfg.Base.Validate(); err != nil {
		return nil, err
	}

	simCfg := cfg.Base.SimConfig()
	simCfg.Stochastic = true

	build := func() (sim.Network, error) { return cfg.Base.BuildGrid() }
	runs, err := sim.NewEnsemble(build, cfg.NumTrials, cfg.Seed).Run(ctx, simCfg)
	if err != nil {
		return nil, err
	}

	nodes := cfg.Base.Grid.X * cfg.Base.Grid.Y * cfg.Base.Grid.Z
	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID: i,
			Seed:    cfg.Seed + int64(i),
			Events:  len(r.Events),
			Rate:    float64(len(r.Events)) / float64(nodes) / simCfg.Duration,
		}
	}
	return results, nil
}

// MonteCarloStats returns the mean and standard deviation of the firing rate.
func MonteCarloStats(results []MonteCarloResult) (mean, stddev float64) {
	if len(results) == 0 {
		return 0, 0
	}
	for _, r := range results {
		mean += r.Rate
	}
	mean /= float64(len(results))
	for _, r := range results {
		d := r.Rate - mean
		stddev += d * d
	}
	stddev = math.Sqrt(stddev / float64(len(results)))
	return mean, stddev
}
