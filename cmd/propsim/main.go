package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/propsim/internal/config"
	"github.com/san-kum/propsim/internal/export"
	"github.com/san-kum/propsim/internal/metrics"
	"github.com/san-kum/propsim/internal/scenario"
	"github.com/san-kum/propsim/internal/scene"
	"github.com/san-kum/propsim/internal/storage"
	"github.com/san-kum/propsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir      string
	dt           float64
	seed         int64
	configFile   string
	preset       string
	scenarioFile string
	svgSeries    string
	verbose      bool
	noSave       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "propsim",
		Short: "pointer-driven prop interaction sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live TUI when no command given
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".propsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug diagnostics on stderr")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scripted scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().StringVar(&scenarioFile, "file", "", "scenario file path (yaml)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive scene with mouse grabbing",
		RunE:  runLive,
	}
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "plot run telemetry to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgSeries, "series", "level", "series to plot: level, depth, spilled, droplets")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list builtin scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.BuiltinNames() {
				sc, err := scenario.Builtin(name)
				if err != nil {
					return err
				}
				fmt.Printf("  %-8s %s\n", name, sc.Description)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

func logger() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var sc *scenario.Scenario
	switch {
	case scenarioFile != "":
		sc, err = scenario.Load(scenarioFile)
	case len(args) == 1:
		sc, err = scenario.Builtin(args[0])
	default:
		return fmt.Errorf("give a builtin scenario name or --file (builtins: %v)", scenario.BuiltinNames())
	}
	if err != nil {
		return err
	}

	s := scene.New(cfg)
	s.SetLogger(logger())

	fmt.Printf("running scenario %s...\n", sc.Name)
	start := time.Now()

	result, err := scenario.Run(context.Background(), s, sc, cfg.Dt, metrics.Standard())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", len(result.Frames))

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Dt, cfg.Seed, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)

		if marks := s.Droplets.Marks(); len(marks) > 0 {
			svg := export.SplatterToSVG(marks, 2.5, 600, 600)
			path := filepath.Join(dataDir, runID, "splatter.svg")
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("splatter map: %s\n", path)
		}
	}

	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p := tea.NewProgram(viz.NewModel(cfg), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tFRAMES\tDT\tSPILLED\tBREAKS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%.3f\t%.0f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.Metrics["spilled_total"],
			run.Metrics["break_count"],
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
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		caption string
		pick    func(f scenario.Frame) float64
	}{
		{"fill level (%)", func(f scenario.Frame) float64 { return f.Level }},
		{"grab depth", func(f scenario.Frame) float64 { return f.Depth }},
		{"spilled volume", func(f scenario.Frame) float64 { return f.Spilled }},
		{"live droplets", func(f scenario.Frame) float64 { return float64(f.Droplets) }},
	}
	for _, sr := range series {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = sr.pick(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
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

	result := &scenario.Result{
		Scenario: meta.Scenario,
		Frames:   frames,
		Metrics:  meta.Metrics,
	}
	return storage.ExportJSON(os.Stdout, meta.Dt, meta.Seed, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("not enough data to plot")
	}

	var pick func(f scenario.Frame) float64
	switch svgSeries {
	case "level":
		pick = func(f scenario.Frame) float64 { return f.Level }
	case "depth":
		pick = func(f scenario.Frame) float64 { return f.Depth }
	case "spilled":
		pick = func(f scenario.Frame) float64 { return f.Spilled }
	case "droplets":
		pick = func(f scenario.Frame) float64 { return float64(f.Droplets) }
	default:
		return fmt.Errorf("unknown series: %s", svgSeries)
	}

	fmt.Println(export.TelemetryToSVG(frames, pick, 800, 300, "#00ff88"))
	return nil
}
