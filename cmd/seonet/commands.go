package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/seonet/internal/analysis"
	"github.com/san-kum/seonet/internal/automation"
	"github.com/san-kum/seonet/internal/config"
	"github.com/san-kum/seonet/internal/eventlog"
	"github.com/san-kum/seonet/internal/export"
	"github.com/san-kum/seonet/internal/optim"
	"github.com/san-kum/seonet/internal/sim"
	"github.com/san-kum/seonet/internal/storage"
)

var (
	plotNodes  []int
	outPath    string
	withEvents bool
	raster     bool
	eventNode  int
	showCounts bool

	trials     int
	vdMin      float64
	vdMax      float64
	sweepSteps int
	targetRate float64
)

const maxPlots = 6

func storeCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot node voltages in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntSliceVar(&plotNodes, "nodes", nil, "nodes to plot (default: first few)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "oscillation frequency and inter-event statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	exportJSONCmd.Flags().BoolVar(&withEvents, "events", false, "include tunnel events")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render voltages or the event raster to an image",
		Args:  cobra.ExactArgs(1),
		RunE:  exportImage,
	}
	exportPNGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, png or svg (default: <run_id>.png)")
	exportPNGCmd.Flags().IntSliceVar(&plotNodes, "nodes", nil, "nodes to plot (default: all)")
	exportPNGCmd.Flags().BoolVar(&raster, "raster", false, "plot tunnel events instead of voltages")

	eventsCmd := &cobra.Command{
		Use:   "events [run_id]",
		Short: "show logged tunnel events",
		Args:  cobra.ExactArgs(1),
		RunE:  showEvents,
	}
	eventsCmd.Flags().IntVar(&eventNode, "node", -1, "restrict to one node")
	eventsCmd.Flags().BoolVar(&showCounts, "counts", false, "aggregate per node and direction")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGRID\tTOPOLOGY\tVD\tDURATION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%dx%dx%d\t%s\t%g\t%g\n",
					name, p.Grid.X, p.Grid.Y, p.Grid.Z, p.Grid.Topology, p.Oscillator.Vd, p.Sim.Duration)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a config file from defaults or a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				cfg = config.GetPreset(preset)
				if cfg == nil {
					return fmt.Errorf("unknown preset: %s", preset)
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.Flags().StringVar(&preset, "preset", "", "start from preset")

	return []*cobra.Command{listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportPNGCmd, eventsCmd, presetsCmd, configCmd}
}

func studyCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations and store each",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat a stochastic run over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addNetworkFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&trials, "trials", 16, "number of trials")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "firing rate as a function of drive voltage",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addNetworkFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&vdMin, "vd-min", 0.002, "lowest drive voltage")
	sweepCmd.Flags().Float64Var(&vdMax, "vd-max", 0.012, "highest drive voltage")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of drive voltages")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "search the drive voltage for a target firing rate",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addNetworkFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&vdMin, "vd-min", 0.005, "lowest drive voltage")
	tuneCmd.Flags().Float64Var(&vdMax, "vd-max", 0.012, "highest drive voltage")
	tuneCmd.Flags().IntVar(&sweepSteps, "steps", 15, "number of drive voltages")
	tuneCmd.Flags().Float64Var(&targetRate, "target", 2.5e7, "target events per node per second")

	return []*cobra.Command{scenarioCmd, montecarloCmd, sweepCmd, tuneCmd}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tGRID\tTOPOLOGY\tVD\tDURATION\tEVENTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%dx%d\t%s\t%g\t%g\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Grid[0], run.Grid[1], run.Grid[2],
			run.Topology,
			run.Params.Vd,
			run.Duration,
			run.Events,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	voltages, _, err := st.LoadVoltages(runID)
	if err != nil {
		return err
	}
	if len(voltages) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%dx%d %s\n", meta.Grid[0], meta.Grid[1], meta.Grid[2], meta.Topology)
	fmt.Printf("samples: %d\n\n", len(voltages))

	nodes := plotNodes
	if len(nodes) == 0 {
		for i := 0; i < len(voltages[0]) && i < maxPlots; i++ {
			nodes = append(nodes, i)
		}
	}

	for _, node := range nodes {
		if node < 0 || node >= len(voltages[0]) {
			return fmt.Errorf("node %d out of range (run has %d nodes)", node, len(voltages[0]))
		}
		data := make([]float64, len(voltages))
		for i := range voltages {
			data[i] = voltages[i][node] * 1e3
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("node %d voltage (mV)", node)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	voltages, times, err := st.LoadVoltages(runID)
	if err != nil {
		return err
	}
	if len(voltages) < 2 || len(voltages[0]) == 0 {
		return fmt.Errorf("no data")
	}
	sampleDt := times[1] - times[0]

	log, err := eventlog.Open(dataDir)
	if err != nil {
		return err
	}
	defer log.Close()

	events, err := log.Events(cmd.Context(), runID, -1)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("grid: %dx%dx%d %s, vd %g V\n\n", meta.Grid[0], meta.Grid[1], meta.Grid[2], meta.Topology, meta.Params.Vd)

	trace := make([]float64, len(voltages))
	for i := range voltages {
		trace[i] = voltages[i][0]
	}
	if ps := analysis.PowerSpectrum(trace); len(ps) >= 8 {
		graph := asciigraph.Plot(ps[1:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (node 0)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	perNode := make(map[int]int)
	for _, e := range events {
		perNode[e.Node]++
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tDOMINANT HZ\tEVENTS\tMEAN INTERVAL\tSTDDEV")
	for node := 0; node < len(voltages[0]); node++ {
		for i := range voltages {
			trace[i] = voltages[i][node]
		}
		freq := analysis.DominantFrequency(trace, sampleDt)
		iv := analysis.Intervals(events, node)
		fmt.Fprintf(w, "%d\t%.4g\t%d\t%.4gs\t%.3gs\n", node, freq, perNode[node], iv.Mean, iv.StdDev)
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var events []sim.Event
	if withEvents {
		log, err := eventlog.Open(dataDir)
		if err != nil {
			return err
		}
		defer log.Close()
		if events, err = log.Events(cmd.Context(), runID, -1); err != nil {
			return err
		}
	}

	if outPath == "" {
		return st.ExportJSON(os.Stdout, runID, events)
	}
	if err := st.ExportJSONFile(outPath, runID, events); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func exportImage(cmd *cobra.Command, args []string) error {
	runID := args[0]
	path := outPath
	if path == "" {
		path = runID + ".png"
	}
	if ext := filepath.Ext(path); ext != ".png" && ext != ".svg" {
		return fmt.Errorf("unsupported image format %q", ext)
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if raster {
		log, err := eventlog.Open(dataDir)
		if err != nil {
			return err
		}
		defer log.Close()
		events, err := log.Events(cmd.Context(), runID, -1)
		if err != nil {
			return err
		}
		p, err := export.RasterPlot(meta.ID, events)
		if err != nil {
			return err
		}
		if err := export.Save(p, path, 8, 4); err != nil {
			return err
		}
	} else {
		voltages, times, err := st.LoadVoltages(runID)
		if err != nil {
			return err
		}
		p, err := export.VoltagePlot(meta.ID, times, voltages, plotNodes)
		if err != nil {
			return err
		}
		if err := export.Save(p, path, 8, 4); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}

func showEvents(cmd *cobra.Command, args []string) error {
	runID := args[0]

	log, err := eventlog.Open(dataDir)
	if err != nil {
		return err
	}
	defer log.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if showCounts {
		counts, err := log.Counts(cmd.Context(), runID)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "NODE\tDIRECTION\tEVENTS")
		for _, c := range counts {
			fmt.Fprintf(w, "%d\t%s\t%d\n", c.Node, c.Direction, c.Events)
		}
		return w.Flush()
	}

	events, err := log.Events(cmd.Context(), runID, eventNode)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("no events found")
		return nil
	}
	fmt.Fprintln(w, "TIME\tNODE\tDIRECTION\tWAIT\tVOLTAGE")
	for _, e := range events {
		fmt.Fprintf(w, "%.6g\t%d\t%s\t%.4g\t%.4g\n", e.Time, e.Node, e.Direction, e.WaitTime, e.Voltage)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	log, err := eventlog.Open(dataDir)
	if err != nil {
		return err
	}
	defer log.Close()

	results, err := automation.RunScenario(cmd.Context(), sc, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tEVENTS")
	for _, res := range results {
		runID, err := st.Save(res.Experiment.Metadata(), res.Result)
		if err != nil {
			return err
		}
		if err := log.Record(context.Background(), runID, res.Result.Events); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", res.Name, runID, len(res.Result.Events))
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		Seed:      cfg.Sim.Seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tEVENTS\tRATE (1/s)")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4g\n", r.TrialID, r.Seed, r.Events, r.Rate)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	mean, stddev := automation.MonteCarloStats(results)
	fmt.Printf("\nrate: %.4g ± %.2g events/node/s\n", mean, stddev)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	build := func(v float64) (sim.Network, error) {
		c := *cfg
		c.Oscillator.Vd = v
		return c.BuildGrid()
	}
	points, err := analysis.SweepDrive(cmd.Context(), build, vdMin, vdMax, sweepSteps, cfg.SimConfig())
	if err != nil {
		return err
	}

	rates := make([]float64, len(points))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VD\tEVENTS\tRATE (1/s)")
	for i, p := range points {
		rates[i] = p.Rate
		fmt.Fprintf(w, "%.4g\t%d\t%.4g\n", p.Vd, p.Events, p.Rate)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(rates,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("firing rate vs drive voltage"),
	))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	nodes := cfg.Grid.X * cfg.Grid.Y * cfg.Grid.Z
	gs := optim.NewGridSearch([]string{"vd"}, [][]float64{optim.Linspace(vdMin, vdMax, sweepSteps)})
	best, score, err := gs.Search(cmd.Context(), cfg, optim.TargetRate(targetRate, nodes, cfg.Sim.Duration))
	if err != nil {
		return err
	}

	fmt.Printf("best vd: %.4g V\n", best["vd"])
	fmt.Printf("rate error: %.4g events/node/s\n", score)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
