package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/motion2d/internal/config"
	"github.com/san-kum/motion2d/internal/experiment"
	"github.com/san-kum/motion2d/internal/export"
	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
	"github.com/san-kum/motion2d/internal/storage"
	"github.com/san-kum/motion2d/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	dt         float64
	duration   float64
	seed       int64
	sample     int
	runs       int
	plotKind   string
	plotIndex  int
	theme      string
	svgPath    string
	logger     *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "motion2d",
		Short: "2d particle and rigidbody physics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "motion2d",
			})
			logger.SetLevel(lvl)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".motion2d", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene headless and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	runCmd.Flags().IntVar(&sample, "sample", config.DefaultSampleEvery, "record every nth step")
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeds to run in parallel")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "also write the final scene as svg")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata and its final frame",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot an object's history, or the population when no index is given",
		Long: `Plot an object's history, or the population when no index is given.

--index is a position in the scene's particle or rigidbody list, not an
object identity. Presets that prune objects (pachinko, fireworks) shift
later objects down, so one index may cover several objects over a run.`,
		Args: cobra.ExactArgs(1),
		RunE: plotRun,
	}
	plotCmd.Flags().StringVar(&plotKind, "kind", string(scene.KindParticle), "object kind (particle, rigidbody)")
	plotCmd.Flags().IntVar(&plotIndex, "index", -1, "object index")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write the object's path as svg instead of plotting")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's frames as csv to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run's metadata and frames as json to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	liveCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	liveCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			return w.Flush()
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [scene.yaml]",
		Short: "check a scene file without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  validateScene,
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, liveCmd, presetsCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the scene from --config or a preset name. Flags
// the user set explicitly override the file.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case len(args) == 1:
		cfg = config.GetPreset(args[0], seed)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		return nil, errors.New("need a preset name or --config")
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sample
	}
	return cfg, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if runs > 1 {
		return runEnsemble(ctx, st, cfg)
	}

	exp := experiment.New(cfg).WithLogger(logger)
	if err := exp.Setup(); err != nil {
		return err
	}

	logger.Info("running scene", "name", exp.Info().Name, "objects", exp.Scene().Len(), "engines", cfg.Engines)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted, saving partial result", "steps", result.StepsTaken)
	}
	for _, e := range result.Errors {
		logger.Error("run stopped early", "err", e)
	}

	if svgPath != "" {
		min, max := cfg.Bounds()
		if err := os.WriteFile(svgPath, []byte(export.SceneToSVG(exp.Scene(), min, max, 1)), 0644); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		logger.Info("wrote svg", "path", svgPath)
	}

	runID, err := st.Save(exp.Info(), result)
	if err != nil {
		return err
	}

	logger.Info("run complete", "id", runID, "steps", result.StepsTaken, "frames", len(result.Frames), "elapsed", time.Since(start))
	printMetrics(result.Metrics)
	return nil
}

func runEnsemble(ctx context.Context, st *storage.Store, cfg *config.Config) error {
	info := experiment.New(cfg).Info()
	logger.Info("running ensemble", "name", info.Name, "runs", runs, "seed", cfg.Seed)
	results, err := experiment.Ensemble(cfg, runs).Run(ctx, cfg.SimConfig())
	if err != nil {
		return err
	}

	for i, result := range results {
		info.Seed = cfg.Seed + int64(i)
		runID, err := st.Save(info, result)
		if err != nil {
			return err
		}
		logger.Info("run complete", "id", runID, "seed", info.Seed, "steps", result.StepsTaken)
		printMetrics(result.Metrics)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	fmt.Println("metrics:")
	for _, name := range []string{"kinetic_energy", "max_speed", "population", "static_hits"} {
		if v, ok := m[name]; ok {
			fmt.Printf("  %s: %.6f\n", name, v)
		}
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tSEED\tOBJECTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d/%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Seed,
			run.Particles,
			run.Rigidbodies,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("engines: %s\n", strings.Join(meta.Engines, ", "))
	fmt.Printf("steps: %d (%d frames)\n", meta.Steps, meta.Frames)
	printMetrics(meta.Metrics)

	if len(frames) == 0 {
		return nil
	}
	final := frames[len(frames)-1]
	r := viz.NewRenderer(60, 16, mgl64.Vec2{0, 0}, mgl64.Vec2{config.DefaultWidth, config.DefaultHeight})
	r.DrawFrame(final)
	fmt.Printf("\nfinal frame (t=%.2fs):\n%s", final.Time, r.String())
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(frames))

	if plotIndex < 0 {
		fmt.Println(asciigraph.Plot(storage.Counts(frames),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("objects alive"),
		))
		return nil
	}

	kind := scene.Kind(plotKind)
	series := storage.Track(frames, kind, plotIndex)
	if series.Len() == 0 {
		return fmt.Errorf("no %s with index %d in run %s", kind, plotIndex, meta.ID)
	}

	if svgPath != "" {
		svg := export.TrajectoryToSVG(series, config.DefaultWidth, config.DefaultHeight, "#00ffcc")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		fmt.Printf("wrote %s\n", svgPath)
		return nil
	}

	plots := []struct {
		data    []float64
		caption string
	}{
		{series.X, "x position"},
		{series.Y, "y position"},
		{series.Speed, "speed"},
	}
	if kind == scene.KindRigidbody {
		plots = append(plots, struct {
			data    []float64
			caption string
		}{series.Angle, "angle"})
	}

	for _, p := range plots {
		fmt.Println(asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s %d %s", kind, plotIndex, p.caption)),
		))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteFrames(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	info := storage.RunInfo{
		Name:     meta.Name,
		Preset:   meta.Preset,
		Seed:     meta.Seed,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Engines:  meta.Engines,
	}
	result := &sim.Result{Frames: frames, StepsTaken: meta.Steps, Metrics: meta.Metrics}
	return storage.ExportJSON(os.Stdout, info, result)
}

func setupFor(cfg *config.Config) viz.Setup {
	min, max := cfg.Bounds()
	title := cfg.Name
	if title == "" {
		title = "scene"
	}
	return viz.Setup{
		Title: title,
		Build: func() (*sim.Simulator, *scene.Scene, error) {
			s, sc, err := cfg.Simulator()
			if err != nil {
				return nil, nil, err
			}
			return s.WithLogger(logger), sc, nil
		},
		Min: min,
		Max: max,
		Dt:  cfg.Dt,
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	viz.SetTheme(theme)

	if configFile == "" && len(args) == 0 {
		items := make([]viz.PickerItem, 0, len(config.Presets))
		for _, name := range config.ListPresets() {
			items = append(items, viz.PickerItem{Name: name, Description: config.Presets[name].Description})
		}
		return viz.Run(viz.NewPicker(items, func(name string) (viz.Setup, error) {
			cfg := config.GetPreset(name, seed)
			if cfg == nil {
				return viz.Setup{}, fmt.Errorf("unknown preset: %s", name)
			}
			return setupFor(cfg), nil
		}))
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	m, err := viz.NewModel(setupFor(cfg))
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func validateScene(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	if _, err := cfg.Steppers(); err != nil {
		return err
	}

	sc, err := cfg.Build()
	if err != nil {
		var objErr *scene.ObjectError
		if errors.As(err, &objErr) {
			logger.Error("invalid object", "kind", objErr.Kind, "index", objErr.Index, "err", objErr.Err)
		}
		return err
	}

	// one dry-run step on a copy catches engine-level faults
	s, _, err := cfg.Simulator()
	if err != nil {
		return err
	}
	if err := s.Step(sc.Clone(), 0, cfg.Dt); err != nil {
		return err
	}

	fmt.Printf("%s: ok (%d particles, %d rigidbodies, engines %s)\n",
		args[0], len(sc.Particles), len(sc.Rigidbodies), strings.Join(cfg.Engines, ", "))
	return nil
}
