package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/seonet/internal/config"
	"github.com/san-kum/seonet/internal/eventlog"
	"github.com/san-kum/seonet/internal/experiment"
	"github.com/san-kum/seonet/internal/logging"
	"github.com/san-kum/seonet/internal/storage"
	"github.com/san-kum/seonet/internal/tui"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	nx, ny, nz int
	topology   string
	rateLaw    string
	r          float64
	rj         float64
	cj         float64
	coupling   int
	vd         float64
	legs       int
	dt         float64
	duration   float64
	seed       int64
	stochastic bool

	logger *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "seonet",
		Short:         "single-electron oscillator network simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logLevel, os.Stderr)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".seonet", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addNetworkFlags(runCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run simulation with live view",
		Args:  cobra.NoArgs,
		RunE:  watchSimulation,
	}
	addNetworkFlags(watchCmd)

	rootCmd.AddCommand(runCmd, watchCmd)
	rootCmd.AddCommand(storeCommands()...)
	rootCmd.AddCommand(studyCommands()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addNetworkFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&nx, "nx", def.Grid.X, "grid size along x")
	cmd.Flags().IntVar(&ny, "ny", def.Grid.Y, "grid size along y")
	cmd.Flags().IntVar(&nz, "nz", def.Grid.Z, "grid size along z")
	cmd.Flags().StringVar(&topology, "topology", def.Grid.Topology, "wiring (none, positive, cubic)")
	cmd.Flags().StringVar(&rateLaw, "rate-law", def.RateLaw, "tunneling rate law (orthodox, rc)")
	cmd.Flags().Float64Var(&r, "r", def.Oscillator.R, "series resistance")
	cmd.Flags().Float64Var(&rj, "rj", def.Oscillator.Rj, "junction resistance")
	cmd.Flags().Float64Var(&cj, "cj", def.Oscillator.Cj, "junction capacitance")
	cmd.Flags().IntVar(&coupling, "c", def.Oscillator.C, "coupling capacitance")
	cmd.Flags().Float64Var(&vd, "vd", def.Oscillator.Vd, "drive voltage")
	cmd.Flags().IntVar(&legs, "legs", def.Oscillator.Legs, "maximum connections per oscillator")
	cmd.Flags().Float64Var(&dt, "dt", def.Sim.Dt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", def.Sim.Duration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&stochastic, "stochastic", false, "sample wait times from an exponential distribution")
}

// resolveConfig layers defaults, the preset, the config file and finally any
// flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "run"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("nx") {
		cfg.Grid.X = nx
	}
	if f.Changed("ny") {
		cfg.Grid.Y = ny
	}
	if f.Changed("nz") {
		cfg.Grid.Z = nz
	}
	if f.Changed("topology") {
		cfg.Grid.Topology = topology
	}
	if f.Changed("rate-law") {
		cfg.RateLaw = rateLaw
	}
	if f.Changed("r") {
		cfg.Oscillator.R = r
	}
	if f.Changed("rj") {
		cfg.Oscillator.Rj = rj
	}
	if f.Changed("cj") {
		cfg.Oscillator.Cj = cj
	}
	if f.Changed("c") {
		cfg.Oscillator.C = coupling
	}
	if f.Changed("vd") {
		cfg.Oscillator.Vd = vd
	}
	if f.Changed("legs") {
		cfg.Oscillator.Legs = legs
	}
	if f.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if f.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if f.Changed("seed") {
		cfg.Sim.Seed = seed
	}
	if f.Changed("stochastic") {
		cfg.Sim.Stochastic = stochastic
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	events, err := eventlog.Open(dataDir)
	if err != nil {
		return err
	}
	defer events.Close()

	exp := experiment.New(name, cfg, logger)
	if err := exp.Setup(nil); err != nil {
		return err
	}

	fmt.Printf("running %s on a %dx%dx%d %s grid...\n", name, cfg.Grid.X, cfg.Grid.Y, cfg.Grid.Z, cfg.Grid.Topology)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(exp.Metadata(), result)
	if err != nil {
		return err
	}
	if err := events.Record(context.Background(), runID, result.Events); err != nil {
		return err
	}
	logger.Debug("run stored", "id", runID, "dir", st.Dir(), "events", len(result.Events))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("events: %d\n", len(result.Events))
	fmt.Println("\nmetrics:")
	for _, m := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", m, result.Metrics[m])
	}
	return nil
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// the live view owns the terminal
	exp := experiment.New(name, cfg, slog.New(slog.DiscardHandler))
	if err := exp.Setup(nil); err != nil {
		return err
	}
	return tui.Run(exp)
}
