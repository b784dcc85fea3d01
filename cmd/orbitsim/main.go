package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/optim"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/stream"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	dt          float64
	duration    float64
	speed       float64
	seed        int64
	numBodies   int
	gravity     float32
	sampleEvery int
	configFile  string
	preset      string
	addr        string
	fps         int
	withFrames  bool
	outFile     string
	benchRuns   int
	parallel    int
	svgWidth    int
	svgHeight   int
	lyapTicks   int
	lyapEps     float32
	gridParams  []string
	metricName  string

	logger   = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	registry = scenario.NewRegistry()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "fixed-timestep gravitational n-body simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(registry, scenario.Params{Seed: seed}, config.DefaultSpeedFactor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario in batch and save the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [scenario]",
		Short: "stream a scenario to websocket clients in real time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	addScenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second sent to clients")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body distances from the origin",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withFrames, "frames", false, "include the sampled trajectory")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the trajectory as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", export.DefaultWidth, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", export.DefaultHeight, "image height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbital periods from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [scenario]",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  lyapunovScenario,
	}
	addScenarioFlags(lyapunovCmd)
	lyapunovCmd.Flags().IntVar(&lyapTicks, "ticks", 10000, "ticks to follow")
	lyapunovCmd.Flags().Float32Var(&lyapEps, "eps", 1e-4, "initial perturbation")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "grid search run parameters for the lowest metric value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScenario,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&gridParams, "param", []string{"dt=0.01,0.005,0.001"}, "grid axis as name=v1,v2,... (dt, g, bodies, seed, duration)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run the steps of a yaml batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenarios",
		RunE:  listScenarios,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset (scenario/name)")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "measure stepping throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	addScenarioFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "independent universes")
	benchCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent runs (0 = all)")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd,
		exportSVGCmd, analyzeCmd, lyapunovCmd, sweepCmd, batchCmd, presetsCmd, scenariosCmd, initCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", 0, "fixed timestep (0 = scenario default)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration")
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeedFactor, "simulated time per wall second")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&numBodies, "bodies", 0, "number of bodies (0 = scenario default)")
	cmd.Flags().Float32Var(&gravity, "g", 0, "gravitational constant override")
	cmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "record every n-th tick")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers preset, config file and explicit flags, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 && len(loaded.Bodies) == 0 {
			loaded.Scenario = args[0]
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("speed") {
		cfg.SpeedFactor = speed
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.NumBodies = numBodies
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.Server.FPS = fps
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, registry)
	if err != nil {
		return err
	}
	s := exp.Scenario()

	logger.Info("running", "scenario", s.Name, "bodies", len(s.Bodies), "dt", s.Dt, "duration", cfg.Duration)
	exp.Simulator().AddObserver(progressObserver(int(cfg.Duration/s.Dt + 0.5)))
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	elapsed := time.Since(start)
	if err != nil {
		if result == nil {
			return err
		}
		logger.Warn("run stopped early", "tick", result.Ticks, "err", err)
	}

	runID, saveErr := st.Save(storage.RunMetadata{
		Scenario: s.Name,
		Seed:     cfg.Seed,
		Dt:       s.Dt,
		Duration: cfg.Duration,
		G:        s.G,
		Bodies:   len(s.Bodies),
		Names:    s.Names(),
	}, result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d (%.0f ticks/s)\n", result.Ticks, float64(result.Ticks)/elapsed.Seconds())
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	return err
}

// progressObserver logs at debug level every tenth of a run.
func progressObserver(total int) sim.Observer {
	every := total / 10
	if every < 1 {
		every = 1
	}
	return sim.ObserverFunc(func(tick int, t float64, u *nbody.Universe) {
		if tick%every == 0 {
			logger.Debug("progress", "tick", tick, "of", total, "t", t, "extent", nbody.Extent(u))
		}
	})
}

func buildLive(cmd *cobra.Command, args []string) (*config.Config, *scenario.Scenario, *nbody.Universe, *nbody.Stepper, *sim.Clock, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	s, u, err := cfg.Build(registry)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	stepper, err := nbody.NewStepper(float32(s.Dt))
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	clock := sim.NewClock(s.Dt, cfg.SpeedFactor, sim.DefaultMaxTicks)
	return cfg, s, u, stepper, clock, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	_, s, u, stepper, clock, err := buildLive(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(s, u, stepper, clock)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, s, u, stepper, clock, err := buildLive(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Server.FPS <= 0 {
		cfg.Server.FPS = config.DefaultFPS
	}

	colors := make([]string, len(s.Colors))
	for i, c := range s.Colors {
		colors[i] = c.Clamped().Hex()
	}
	hub := stream.NewHub(stream.Hello{
		Names:  s.Names(),
		Colors: colors,
		G:      s.G,
		Dt:     s.Dt,
	}, clock, logger)

	simulator := sim.New(stepper)
	simulator.AddObserver(stream.Observer(hub))
	simulator.AddMetric(metrics.NewEnergy())
	simulator.AddMetric(metrics.NewEnergyDrift())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reportDrift(ctx, simulator)

	server := &stream.Server{Addr: cfg.Server.Addr, Hub: hub, Logger: logger}
	logger.Info("serving", "scenario", s.Name, "bodies", u.Len(), "speed", cfg.SpeedFactor, "fps", cfg.Server.FPS)
	return server.Run(ctx, func(ctx context.Context) error {
		return simulator.RunRealtime(ctx, u, clock, time.Second/time.Duration(cfg.Server.FPS))
	})
}

func reportDrift(ctx context.Context, s *sim.Simulator) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m := s.Metrics()
			logger.Debug("diagnostics", "energy", m["energy"], "energy_drift", m["energy_drift"])
		}
	}
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tDURATION\tDT\tTICKS\tENERGY DRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.4g\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Dt,
			run.Ticks,
			run.Metrics["energy_drift"],
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

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	numBodies := len(frames[0].Positions)
	maxPlots := 6
	if numBodies > maxPlots {
		numBodies = maxPlots
	}

	for b := 0; b < numBodies; b++ {
		data := make([]float64, len(frames))
		for i, f := range frames {
			if b < len(f.Positions) {
				data[i] = float64(f.Positions[b].Len())
			}
			if math.IsNaN(data[i]) || math.IsInf(data[i], 0) {
				data[i] = 0
			}
		}

		name := fmt.Sprintf("body %d", b)
		if b < len(meta.Names) && meta.Names[b] != "" {
			name = meta.Names[b]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" |r| vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	var frames []sim.Frame
	if withFrames {
		frames, err = st.LoadFrames(args[0])
		if err != nil {
			return err
		}
	}

	return storage.ExportJSON(os.Stdout, meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := storage.WriteCSV(out, frames, meta.Names); err != nil {
		return err
	}
	if outFile != "" {
		logger.Info("exported", "file", outFile, "frames", len(frames))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	colors := scenario.Palette(meta.Bodies)
	if s, err := registry.Get(meta.Scenario, scenario.Params{NumBodies: meta.Bodies, Seed: meta.Seed}); err == nil && len(s.Colors) == meta.Bodies {
		colors = s.Colors
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := export.WriteSVG(out, frames, colors, svgWidth, svgHeight); err != nil {
		return err
	}
	if outFile != "" {
		logger.Info("exported", "file", outFile, "frames", len(frames))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	periods, err := analysis.OrbitalPeriods(frames)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\nscenario: %s\nsamples: %d\n\n", meta.ID, meta.Scenario, len(frames))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tNAME\tPERIOD\tPOWER")
	for _, p := range periods {
		name := ""
		if p.Index < len(meta.Names) {
			name = meta.Names[p.Index]
		}
		if p.Err != nil {
			fmt.Fprintf(w, "%d\t%s\t-\t-\n", p.Index, name)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%.4g\t%.3g\n", p.Index, name, p.Period, p.Power)
	}
	return w.Flush()
}

func lyapunovScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, registry)
	if err != nil {
		return err
	}
	s, u, stepper := exp.Scenario(), exp.Universe(), exp.Stepper()

	logger.Info("estimating", "scenario", s.Name, "bodies", u.Len(), "ticks", lyapTicks, "eps", lyapEps)
	lambda, err := analysis.LyapunovExponent(u, stepper, lyapTicks, lyapEps)
	if err != nil {
		return err
	}

	fmt.Printf("largest lyapunov exponent: %.4g per unit time\n", lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time: %.4g\n", 1/lambda)
	}
	return nil
}

func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad grid axis %q (want name=v1,v2)", spec)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid axis %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func sweepScenario(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	logger.Info("sweeping", "scenario", base.Scenario, "axes", strings.Join(names, ","), "metric", metricName)
	best, points, err := grid.Search(cmd.Context(), func(params map[string]float64) (*experiment.Experiment, error) {
		cfg, err := optim.Apply(base, params)
		if err != nil {
			return nil, err
		}
		return experiment.New(cfg, registry)
	}, metricName)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, p := range points {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", p.Params[name])
		}
		if p.Err != nil {
			fmt.Fprintf(w, "error: %v\n", p.Err)
			continue
		}
		fmt.Fprintf(w, "%.3e\n", p.Value)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest: ")
	for _, name := range names {
		fmt.Printf("%s=%g ", name, best.Params[name])
	}
	fmt.Printf("(%s %.3e)\n", metricName, best.Value)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunBatch(cmd.Context(), b, registry, st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENARIO\tTICKS\tELAPSED\tENERGY DRIFT\tRUN ID")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.2e\t%s\n", r.Step, r.Name, r.Result.Ticks,
			r.Elapsed.Round(time.Millisecond), r.Result.Metrics["energy_drift"], r.RunID)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := registry.Names()
	if len(args) > 0 {
		names = args
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPRESET\tDURATION\tSPEED\tBODIES")
	for _, name := range names {
		for _, p := range config.ListPresets(name) {
			cfg := config.GetPreset(name, p)
			bodies := "default"
			if cfg.NumBodies > 0 {
				bodies = fmt.Sprint(cfg.NumBodies)
			}
			fmt.Fprintf(w, "%s\t%s\t%g\tx%g\t%s\n", name, p, cfg.Duration, cfg.SpeedFactor, bodies)
		}
	}
	return w.Flush()
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tG\tDT\tDESCRIPTION")
	for _, name := range registry.Names() {
		s, err := registry.Get(name, scenario.Params{Seed: 1})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%s\n", s.Name, len(s.Bodies), s.G, s.Dt, s.Description)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		name, p, _ := strings.Cut(preset, "/")
		cfg = config.GetPreset(name, p)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (want scenario/name)", preset)
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	logger.Info("wrote config", "path", args[0], "scenario", cfg.Scenario)
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if benchRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", benchRuns)
	}

	universes := make([]*nbody.Universe, benchRuns)
	var s *scenario.Scenario
	for i := range universes {
		c := *cfg
		c.Seed = cfg.Seed + int64(i)
		var u *nbody.Universe
		s, u, err = c.Build(registry)
		if err != nil {
			return err
		}
		universes[i] = u
	}

	stepper, err := nbody.NewStepper(float32(s.Dt))
	if err != nil {
		return err
	}
	ensemble := sim.NewEnsemble(stepper, func() []sim.Metric {
		return []sim.Metric{metrics.NewEnergyDrift()}
	}, parallel)

	simCfg := sim.Config{Dt: s.Dt, Duration: cfg.Duration, SampleEvery: math.MaxInt32}

	fmt.Printf("benchmarking %s: %d bodies, %d runs\n\n", s.Name, universes[0].Len(), benchRuns)
	start := time.Now()
	results, err := ensemble.Run(cmd.Context(), universes, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSEED\tTICKS\tENERGY DRIFT")
	total := 0
	for i, r := range results {
		total += r.Ticks
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2e\n", i, cfg.Seed+int64(i), r.Ticks, r.Metrics["energy_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	n := universes[0].Len()
	pairs := float64(n*(n-1)/2) * float64(total)
	fmt.Printf("\nwall time: %v\n", elapsed)
	fmt.Printf("ticks/s: %.0f\n", float64(total)/elapsed.Seconds())
	fmt.Printf("pair interactions/s: %.3g\n", pairs/elapsed.Seconds())
	return nil
}
