package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/nicosim/internal/analysis"
	"github.com/san-kum/nicosim/internal/config"
	"github.com/san-kum/nicosim/internal/export"
	"github.com/san-kum/nicosim/internal/metrics"
	"github.com/san-kum/nicosim/internal/pharm"
	"github.com/san-kum/nicosim/internal/scenario"
	"github.com/san-kum/nicosim/internal/sim"
	"github.com/san-kum/nicosim/internal/viz"
)

var (
	dt          float64
	durationMin float64
	seed        int64
	puffRate    float64
	paramSets   []string
	configFile  string
	jsonPath    string
	csvPath     string
	svgPath     string
	// Sweep settings
	sweepMinRate   float64
	sweepMaxRate   float64
	sweepSteps     int
	sweepTransient float64
	sweepRecord    float64
)

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	))

	rootCmd := &cobra.Command{
		Use:   "nicosim",
		Short: "nicotine reward-circuit simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive session.
			return runLive(cmd, []string{string(sim.DefaultPreset)})
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a headless session and report metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSession,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (simulated minutes)")
	runCmd.Flags().Float64Var(&durationMin, "time", config.DefaultDurationMin, "duration (simulated minutes)")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for the puff generator")
	runCmd.Flags().Float64Var(&puffRate, "rate", -1, "override automatic puff rate (puffs/min)")
	runCmd.Flags().StringArrayVar(&paramSets, "set", nil, "parameter override key=value (repeatable)")
	runCmd.Flags().StringVar(&configFile, "config", "", "run config file (yaml)")
	addExportFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "interactive terminal session",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for the puff generator")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list session presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			fmt.Println("  single-puff  clean start, manual puffs only")
			fmt.Println("  repeated     clean start, automatic puffing at 0.18/min")
			fmt.Println("  abstinence   trace nicotine, pools skewed desensitized")
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted puff schedule from yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addExportFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "dose-response sweep over the puff rate",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMinRate, "min-rate", 0, "lowest puff rate")
	sweepCmd.Flags().Float64Var(&sweepMaxRate, "max-rate", 0.5, "highest puff rate")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of rates to test")
	sweepCmd.Flags().Float64Var(&sweepTransient, "transient", 60, "settle time per rate (minutes)")
	sweepCmd.Flags().Float64Var(&sweepRecord, "record", 120, "recording window per rate (minutes)")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "base random seed")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&jsonPath, "json", "", "write session JSON to path")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write trace CSV to path")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write timeline SVG to path")
}

func newDriver() *sim.Driver {
	d := sim.New(pharm.DefaultParams())
	d.AddMetric(metrics.NewNicotineExposure())
	d.AddMetric(metrics.NewDesensPeak())
	d.AddMetric(metrics.NewDopamineMean())
	return d
}

func buildRunConfig(args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Preset = args[0]
	}
	cfg.Dt = dt
	cfg.DurationMin = durationMin
	cfg.Seed = seed
	if puffRate >= 0 {
		cfg.PuffRate = &puffRate
	}

	overrides, err := parseParamSets(paramSets)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		for k, v := range overrides {
			cfg.Params[k] = v
		}
	}
	return cfg, nil
}

func parseParamSets(entries []string) (map[string]float64, error) {
	out := make(map[string]float64, len(entries))
	for _, entry := range entries {
		key, raw, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, want key=value", entry)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %v", entry, err)
		}
		out[key] = value
	}
	return out, nil
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(args)
	if err != nil {
		return err
	}

	d := newDriver()
	if err := cfg.Apply(d); err != nil {
		return err
	}

	slog.Info("session start",
		"preset", cfg.Preset,
		"duration_min", cfg.DurationMin,
		"dt", cfg.Dt,
		"puff_rate", d.PuffRate(),
		"seed", cfg.Seed,
	)

	start := time.Now()
	steps := int(cfg.DurationMin / cfg.Dt)
	puffs := 0
	for i := 0; i < steps; i++ {
		_, pt := d.TickAuto(cfg.Dt)
		if pt.Puff {
			puffs++
		}
	}

	slog.Info("session done",
		"sim_min", d.SimMin(),
		"puffs", puffs,
		"elapsed", time.Since(start),
	)

	printSummary(d)
	plotTrace(d)
	return exportSession(d, cfg.Seed)
}

func runLive(cmd *cobra.Command, args []string) error {
	d := newDriver()
	d.Reseed(seed)
	if len(args) > 0 {
		preset, ok := sim.ParsePreset(args[0])
		if !ok {
			return fmt.Errorf("unknown preset: %q (available: %v)", args[0], sim.Presets())
		}
		if err := d.ApplyPreset(preset); err != nil {
			return err
		}
	}
	return viz.Run(d)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	d := newDriver()
	slog.Info("scenario start", "name", sc.Name, "preset", sc.Preset, "puffs", len(sc.PuffTimes))

	res, err := scenario.Run(context.Background(), sc, d)
	if err != nil {
		return err
	}

	slog.Info("scenario done", "sim_min", d.SimMin(), "points", len(res.Points))

	printSummary(d)
	plotTrace(d)
	return exportSession(d, 0)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg := analysis.SweepConfig{
		RateMin:      sweepMinRate,
		RateMax:      sweepMaxRate,
		RateSteps:    sweepSteps,
		TransientMin: sweepTransient,
		RecordMin:    sweepRecord,
		Seed:         seed,
	}

	slog.Info("sweep start", "rates", cfg.RateSteps, "min", cfg.RateMin, "max", cfg.RateMax)

	points, err := analysis.DoseResponse(pharm.DefaultParams(), cfg)
	if err != nil {
		return err
	}

	fmt.Println("mean dopamine vs puff rate:")
	fmt.Print(analysis.ToASCII(points, 72, 12))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "rate\tmean da\tmean desens\tmean nic")
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\t%.4f\n", p.PuffRate, p.MeanDA, p.MeanDesens, p.MeanNic)
	}
	return w.Flush()
}

func printSummary(d *sim.Driver) {
	s := d.State()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "final state:")
	fmt.Fprintf(w, "  nicotine\t%.4f\n", s.Nicotine)
	fmt.Fprintf(w, "  dopamine\t%.4f\n", s.DA)
	fmt.Fprintf(w, "  gaba\t%.4f\n", s.GABA)
	fmt.Fprintf(w, "  poolDA\t%s (b=%.2f a=%.2f d=%.2f)\n",
		s.PoolDA.Dominant(), s.PoolDA.Basal, s.PoolDA.Activated, s.PoolDA.Desensitized)
	fmt.Fprintf(w, "  poolGABA\t%s (b=%.2f a=%.2f d=%.2f)\n",
		s.PoolGABA.Dominant(), s.PoolGABA.Basal, s.PoolGABA.Activated, s.PoolGABA.Desensitized)
	if t, ok := d.DesensOnsetDA(); ok {
		fmt.Fprintf(w, "  DA desensitized since\tt=%.1f\n", t)
	}
	if t, ok := d.DesensOnsetGABA(); ok {
		fmt.Fprintf(w, "  GABA desensitized since\tt=%.1f\n", t)
	}
	fmt.Fprintln(w, "metrics:")
	for name, value := range d.MetricValues() {
		fmt.Fprintf(w, "  %s\t%.4f\n", name, value)
	}
	w.Flush()
}

func plotTrace(d *sim.Driver) {
	points := d.Trace()
	if len(points) < 2 {
		return
	}
	data := make([]float64, len(points))
	for i, pt := range points {
		data[i] = pt.DA
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("dopamine, last %.0f min", points[len(points)-1].T-points[0].T)),
	))
}

func exportSession(d *sim.Driver, runSeed int64) error {
	if jsonPath != "" {
		if err := export.WriteJSONFile(jsonPath, export.NewSessionData(d, runSeed)); err != nil {
			return err
		}
		slog.Info("wrote session json", "path", jsonPath)
	}
	if csvPath != "" {
		if err := export.WriteCSVFile(csvPath, d.Trace()); err != nil {
			return err
		}
		slog.Info("wrote trace csv", "path", csvPath)
	}
	if svgPath != "" {
		if err := export.WriteSVGFile(svgPath, d.Trace(), 900, 240); err != nil {
			return err
		}
		slog.Info("wrote timeline svg", "path", svgPath)
	}
	return nil
}
