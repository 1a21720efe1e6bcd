package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/eomsim/internal/analysis"
	"github.com/san-kum/eomsim/internal/config"
	"github.com/san-kum/eomsim/internal/driver"
	"github.com/san-kum/eomsim/internal/eom"
	"github.com/san-kum/eomsim/internal/experiment"
	"github.com/san-kum/eomsim/internal/integrators"
	"github.com/san-kum/eomsim/internal/log"
	"github.com/san-kum/eomsim/internal/models"
	"github.com/san-kum/eomsim/internal/storage"
	"github.com/san-kum/eomsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	logLevel    string
	dt          float64
	duration    float64
	sampleEvery float64
	integrator  string
	params      map[string]string
	configFile  string
	preset      string
	// phase plot axes, indices into x0.., v0..
	xAxis int
	yAxis int
	svgX  int
	svgY  int
	// convergence study range, dt = 2^-i
	minExp      int
	maxExp      int
	checkpoints int
	frame       float64
	outFile     string
	workers     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "eomsim",
		Short:        "fixed-step integrators for second-order equations of motion",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLogLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".eomsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (error, warn, info, debug, trace)")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models and integrators",
		Run: func(cmd *cobra.Command, args []string) {
			r := experiment.NewRegistry()
			fmt.Printf("models:      %s\n", strings.Join(r.ListModels(), ", "))
			fmt.Printf("integrators: %s\n", strings.Join(r.ListIntegrators(), ", "))
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "column for the x-axis (0..n-1 positions, n..2n-1 velocities)")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "column for the y-axis")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a phase or time plot of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgX, "x-axis", -1, "column for the x-axis (-1 for time)")
	exportSVGCmd.Flags().IntVar(&svgY, "y-axis", 0, "column for the y-axis")

	for _, c := range []*cobra.Command{exportJSONCmd, exportCSVCmd, exportSVGCmd} {
		c.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	}

	convergeCmd := &cobra.Command{
		Use:   "converge [model] [integrators...]",
		Short: "measure the observed order of accuracy against the exact solution",
		Args:  cobra.MinimumNArgs(1),
		RunE:  convergeModel,
	}
	convergeCmd.Flags().IntVar(&minExp, "min-exp", 4, "coarsest step is 2^-min-exp")
	convergeCmd.Flags().IntVar(&maxExp, "max-exp", 10, "finest step is 2^-(max-exp-1)")
	convergeCmd.Flags().IntVar(&checkpoints, "checkpoints", 3, "measure error at t = 1..checkpoints")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)
	compareCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark steppers on a model",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}
	benchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	benchCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated time per stepper")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path] [model]",
		Short: "write a config file from the defaults or a preset",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  initConfig,
	}
	addRunFlags(initConfigCmd)

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().Float64Var(&frame, "frame", 1.0/64, "simulated time per frame")

	rootCmd.AddCommand(runCmd, listCmd, modelsCmd, plotCmd, phaseCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		convergeCmd, compareCmd, benchCmd, presetsCmd, initConfigCmd, liveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&sampleEvery, "sample", config.DefaultSampleEvery, "simulated time between samples (0 samples every step)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "model parameter, e.g. -p k=4 -p m=1")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, preset, config file and changed flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	model := ""
	if len(args) > 0 {
		model = args[0]
		cfg.Model = model
	}

	if preset != "" {
		if model == "" {
			return nil, fmt.Errorf("--preset needs a model")
		}
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if model != "" && fileCfg.Model != model {
			log.Warn("config file model %q overridden by argument %q", fileCfg.Model, model)
			fileCfg.Model = model
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	for k, raw := range params {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k, err)
		}
		cfg.Params[k] = val
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug("resolved config: model=%s integrator=%s dt=%g duration=%g", cfg.Model, cfg.Integrator, cfg.Dt, cfg.Duration)
	return cfg, nil
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

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %s with %s...\n", cfg.Model, cfg.Integrator)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	runID, err := st.Save(storage.RunMetadata{
		Model:       cfg.Model,
		Integrator:  cfg.Integrator,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		SampleEvery: cfg.SampleEvery,
		Params:      cfg.Params,
	}, result)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	log.Info("saved run %s to %s", runID, dataDir)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	return nil
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tSTEPS\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%g\t%s\t%d\t%.2e\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Steps,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

// column returns sample field i: positions first, then velocities.
func column(samples []driver.Sample, i int) []float64 {
	data := make([]float64, len(samples))
	for j, s := range samples {
		n := s.X.Dim()
		if i < n {
			data[j] = s.X[i]
		} else {
			data[j] = s.V[i-n]
		}
	}
	return data
}

func columnName(i, n int) string {
	if i < n {
		return fmt.Sprintf("x%d", i)
	}
	return fmt.Sprintf("v%d", i-n)
}

func loadRun(runID string) (*storage.RunMetadata, []driver.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s, dt=%g)\n", meta.Model, meta.Integrator, meta.Dt)
	fmt.Printf("samples: %d\n\n", len(samples))

	n := samples[0].X.Dim()
	maxPlots := 6
	for i := 0; i < 2*n && i < maxPlots; i++ {
		graph := asciigraph.Plot(column(samples, i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(columnName(i, n)+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	energy := make([]float64, len(samples))
	for i, s := range samples {
		energy[i] = s.Energy
	}
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("energy (drift %.2e)", meta.EnergyDrift)),
	))
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	n := samples[0].X.Dim()
	if xAxis < 0 || xAxis >= 2*n || yAxis < 0 || yAxis >= 2*n {
		return fmt.Errorf("axes must be in [0, %d)", 2*n)
	}
	xData, yData := column(samples, xAxis), column(samples, yAxis)

	xMin, xMax := bounds(xData)
	yMin, yMax := bounds(yData)
	xRange, yRange := xMax-xMin, yMax-yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	canvas := viz.NewCanvas(70, 20)
	w, h := canvas.Width*2, canvas.Height*4
	for i := range xData {
		px := int(float64(w-1) * (xData[i] - xMin) / xRange)
		py := h - 1 - int(float64(h-1)*(yData[i]-yMin)/yRange)
		canvas.Set(px, py)
	}

	fmt.Printf("%s vs %s\n", columnName(yAxis, n), columnName(xAxis, n))
	fmt.Printf("%8.3f\n", yMax)
	for _, line := range strings.Split(canvas.String(), "\n") {
		fmt.Printf("         │%s\n", line)
	}
	fmt.Printf("%8.3f └%s\n", yMin, strings.Repeat("─", canvas.Width))
	fmt.Printf("          %-8.3f%*.3f\n", xMin, canvas.Width-8, xMax)
	return nil
}

func bounds(data []float64) (lo, hi float64) {
	lo, hi = data[0], data[0]
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func output() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out, closeOut, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(out, *meta, samples); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out, closeOut, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(out, samples); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	n := samples[0].X.Dim()
	if svgX < -1 || svgX >= 2*n || svgY < 0 || svgY >= 2*n {
		return fmt.Errorf("axes must be in [0, %d), or -1 for time on the x-axis", 2*n)
	}

	var xs []float64
	if svgX == -1 {
		xs = make([]float64, len(samples))
		for i, s := range samples {
			xs[i] = s.T
		}
	} else {
		xs = column(samples, svgX)
	}

	out, closeOut, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteSVG(out, xs, column(samples, svgY), 800, 600, "#00ff88"); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

// exactProblem returns a problem with a closed-form solution.
func exactProblem(model string) (analysis.Problem, error) {
	switch model {
	case "forced_oscillator":
		f := models.DefaultForcedOscillator()
		return analysis.Problem{Model: f, Init: f.InitState, Exact: f.ExactPosition}, nil
	case "oscillator":
		osc := models.NewOscillator(models.DefaultStiffness, models.DefaultMass)
		return analysis.Problem{
			Model: osc,
			Init:  func() (eom.Vector, eom.Vector) { return eom.Vector{1}, eom.Vector{0} },
			Exact: func(t float64) eom.Vector {
				x, _ := osc.Exact(t, 1, 0)
				return eom.Vector{x}
			},
		}, nil
	default:
		return analysis.Problem{}, fmt.Errorf("no exact solution for model: %s (use oscillator or forced_oscillator)", model)
	}
}

func convergeModel(cmd *cobra.Command, args []string) error {
	problem, err := exactProblem(args[0])
	if err != nil {
		return err
	}
	if minExp < 0 || maxExp-minExp < 2 || maxExp > 24 || checkpoints < 1 {
		return fmt.Errorf("need 0 <= min-exp, max-exp - min-exp >= 2, max-exp <= 24 and checkpoints >= 1")
	}

	names := args[1:]
	if len(names) == 0 {
		names = []string{"euler", "rk2", "rk4", "verlet"}
	}

	for _, name := range names {
		if _, err := integrators.New(name, problem.Model, eom.NewVector(problemDim(problem))); err != nil {
			return err
		}
		factory := func(e eom.EquationOfMotion, sample eom.Vector) eom.Stepper {
			s, _ := integrators.New(name, e, sample)
			return s
		}

		study := analysis.Convergence(problem, factory, analysis.ConvergenceOptions{
			MinExp:      minExp,
			MaxExp:      maxExp,
			Checkpoints: checkpoints,
		})

		fmt.Printf("%s on %s (mean observed order %.2f)\n", name, args[0], study.MeanOrder())
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprint(w, "dt")
		for _, t := range study.Times {
			fmt.Fprintf(w, "\terr(t=%g)\torder", t)
		}
		fmt.Fprintln(w)

		orders := study.Orders()
		for i := range study.Dts {
			fmt.Fprintf(w, "2^%d", -(minExp + i))
			for j := range study.Times {
				order := "-"
				if i > 0 {
					order = fmt.Sprintf("%.3f", orders[j][i-1])
				}
				fmt.Fprintf(w, "\t%.3e\t%s", study.Errors[j][i], order)
			}
			fmt.Fprintln(w)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func problemDim(p analysis.Problem) int {
	x, _ := p.Init()
	return x.Dim()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	runs := make([]*config.Config, 0, len(args)-1)
	for _, name := range args[1:] {
		run := cfg.Clone()
		run.Integrator = name
		runs = append(runs, run)
	}
	outcomes := experiment.RunAll(cmd.Context(), experiment.NewRegistry(), runs, workers)

	fmt.Printf("comparing integrators for %s (dt=%g, duration=%g)\n\n", cfg.Model, cfg.Dt, cfg.Duration)
	fmt.Printf("%-12s  %12s  %12s  %10s  %12s\n", "integrator", "final_x0", "energy_drift", "steps", "time_ms")
	fmt.Println(strings.Repeat("-", 66))

	for _, out := range outcomes {
		name := out.Config.Integrator
		if out.Err != nil {
			fmt.Printf("%-12s  error: %v\n", name, out.Err)
			continue
		}
		last := out.Result.Samples[len(out.Result.Samples)-1]
		fmt.Printf("%-12s  %12.6f  %12.2e  %10d  %12.2f\n",
			name, last.X[0], out.Result.EnergyDrift, out.Result.Steps, float64(out.Elapsed.Microseconds())/1000)
	}
	return nil
}

func benchModel(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	steps := int(duration / dt)
	if steps <= 0 {
		return fmt.Errorf("duration must cover at least one step")
	}

	fmt.Printf("benchmarking %s: %d steps of dt=%g\n\n", args[0], steps, dt)
	fmt.Printf("%-10s  %12s  %14s\n", "integrator", "ns/step", "steps/sec")
	for _, name := range integrators.Names {
		inst, err := registry.GetModel(args[0], nil)
		if err != nil {
			return err
		}
		stepper, err := registry.GetIntegrator(name, inst.Model, inst.X)
		if err != nil {
			return err
		}

		t := 0.0
		start := time.Now()
		driver.AdvanceN(stepper, &t, inst.X, inst.V, dt, steps)
		elapsed := time.Since(start)

		perStep := float64(elapsed.Nanoseconds()) / float64(steps)
		fmt.Printf("%-10s  %12.1f  %14.0f\n", name, perStep, 1e9/perStep)
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[1:])
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}
	inst := exp.Instance()

	m := viz.NewModel(cfg.Model, inst.Model, exp.Stepper(), inst.X, inst.V, cfg.Dt, frame)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
