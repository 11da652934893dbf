package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"meca/internal/config"
	"meca/internal/driver"
	"meca/internal/logging"
	"meca/internal/render"
	"meca/internal/sims/meca"
	"meca/internal/stats"
	"meca/internal/store"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one automaton and report its density statistics",
		Long: `Run steps generations of a single automaton, print the long-run density
mean and variance, and write a spacetime diagram.

Example:
  meca run --rule=6 --width=200 --steps=500 --alpha=0.75 -s --omega-color`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			outPath, _ := cmd.Flags().GetString("out")
			return runOnce(cmd, cfg, outPath, jsonOut)
		},
	}

	f := cmd.Flags()
	f.Int("rule", 0, "rule number in [0,15]")
	f.Int("width", 0, "number of cells")
	f.Int("steps", 0, "number of generations")
	f.Float64("alpha", 0, "memory factor in [0,1)")
	f.String("pattern", "", "initial pattern: a 0/1 bitstring, S or SI")
	f.BoolP("single-seed", "s", false, "single true cell in the middle")
	f.Bool("single-seed-inverse", false, "all cells true except the middle one")
	f.BoolP("periodic", "P", false, "periodic boundaries (default)")
	f.BoolP("fixed", "F", false, "fixed-value boundaries")
	f.BoolP("adiabatic", "A", false, "adiabatic boundaries")
	f.BoolP("reflective", "R", false, "reflective boundaries")
	f.Bool("black-white", false, "black and white color scheme (default)")
	f.Bool("activation-color", false, "activation color scheme")
	f.Bool("omega-color", false, "omega color scheme")
	f.String("update-pattern", "", "update policy (valid values are "+strings.Join(meca.PolicyNames(), ", ")+")")
	f.String("update-patter", "", "")
	_ = f.MarkHidden("update-patter")
	f.BoolP("suppress-output", "X", false, "don't create the output file")
	f.Int64("seed", 0, "random seed")
	f.Int("workers", 0, "goroutines per synchronous step")
	f.Int("start-step", 0, "first generation included in the statistics")
	f.String("out", "", "output image path (default derived from the parameters)")
	f.Int("cell-size", 0, "pixels per cell")
	f.Bool("no-panel", false, "omit the value/ones side panel")
	f.Bool("chart", false, "also write a density chart PNG")
	f.Bool("title", false, "caption the diagram with the run parameters")
	f.Bool("store", false, "save the summary to the results database")
	cmd.MarkFlagsMutuallyExclusive("periodic", "fixed", "adiabatic", "reflective")
	cmd.MarkFlagsMutuallyExclusive("black-white", "activation-color", "omega-color")
	cmd.MarkFlagsMutuallyExclusive("single-seed", "single-seed-inverse", "pattern")
	return cmd
}

// applyRunFlags copies every explicitly set flag over cfg.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	r := &cfg.Run
	if f.Changed("rule") {
		r.Rule, _ = f.GetInt("rule")
	}
	if f.Changed("width") {
		r.Width, _ = f.GetInt("width")
	}
	if f.Changed("steps") {
		r.Steps, _ = f.GetInt("steps")
	}
	if f.Changed("alpha") {
		r.Alpha, _ = f.GetFloat64("alpha")
	}
	if f.Changed("seed") {
		r.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("workers") {
		r.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("start-step") {
		r.StartStep, _ = f.GetInt("start-step")
	}

	if f.Changed("pattern") {
		s, _ := f.GetString("pattern")
		p, err := meca.ParsePattern(s)
		if err != nil {
			return err
		}
		r.Pattern = p
	}
	if on, _ := f.GetBool("single-seed"); on {
		r.Pattern = meca.Pattern{Kind: meca.PatternSingleSeed}
	}
	if on, _ := f.GetBool("single-seed-inverse"); on {
		r.Pattern = meca.Pattern{Kind: meca.PatternSingleSeedInverse}
	}

	for name, b := range map[string]meca.Boundary{
		"periodic": meca.Periodic, "fixed": meca.Fixed, "adiabatic": meca.Adiabatic, "reflective": meca.Reflective,
	} {
		if on, _ := f.GetBool(name); on {
			r.Boundary = b
		}
	}
	for name, scheme := range map[string]meca.ColorScheme{
		"black-white": meca.SchemeBlackWhite, "activation-color": meca.SchemeActivation, "omega-color": meca.SchemeOmega,
	} {
		if on, _ := f.GetBool(name); on {
			cfg.Output.Scheme = scheme.String()
		}
	}

	for _, name := range []string{"update-patter", "update-pattern"} {
		if !f.Changed(name) {
			continue
		}
		s, _ := f.GetString(name)
		p, err := meca.ParsePolicy(s)
		if err != nil {
			return err
		}
		r.Policy = p
	}

	if on, _ := f.GetBool("suppress-output"); on {
		cfg.Output.Suppress = true
	}
	if f.Changed("cell-size") {
		cfg.Output.CellSize, _ = f.GetInt("cell-size")
	}
	if on, _ := f.GetBool("no-panel"); on {
		cfg.Output.Panel = false
	}
	if on, _ := f.GetBool("chart"); on {
		cfg.Output.Chart = true
	}
	if on, _ := f.GetBool("title"); on {
		cfg.Output.Title = true
	}
	if on, _ := f.GetBool("store"); on {
		cfg.Store.Enabled = true
	}
	return nil
}

type runReport struct {
	Rule         int     `json:"rule"`
	Boundaries   string  `json:"boundaries"`
	UpdatePolicy string  `json:"update_pattern"`
	Alpha        float64 `json:"alpha"`
	Means        float64 `json:"means"`
	Variance     float64 `json:"variance"`
	Samples      int     `json:"samples"`
	Image        string  `json:"image,omitempty"`
	Chart        string  `json:"chart,omitempty"`
	ID           string  `json:"id,omitempty"`
}

func (r runReport) String() string {
	return fmt.Sprintf("Rule: %d Boundaries: %s UpdatePattern: %s Alpha: %.3f Means: %.6f Variance: %.6f",
		r.Rule, r.Boundaries, r.UpdatePolicy, r.Alpha, r.Means, r.Variance)
}

func runOnce(cmd *cobra.Command, cfg *config.Config, outPath string, jsonOut bool) error {
	ctx := cmd.Context()
	log := newLogger(cmd, cfg)
	run := cfg.Run
	auto := run.Automaton()
	scheme, err := cfg.Output.ColorScheme()
	if err != nil {
		return err
	}

	collector := stats.NewCollector(run.StartStep)
	observers := []driver.Observer{driver.Func(func(row *meca.Row) error {
		collector.Observe(row)
		return nil
	})}

	var series stats.Series
	if cfg.Output.Chart {
		observers = append(observers, driver.Func(func(row *meca.Row) error {
			series.Observe(row)
			return nil
		}))
	}

	var diagram *render.Spacetime
	if !cfg.Output.Suppress {
		opts := render.SpacetimeOptions{
			Cells:    run.Width,
			Steps:    run.Steps,
			CellSize: cfg.Output.CellSize,
			Panel:    cfg.Output.Panel,
		}
		if cfg.Output.Title {
			opts.Title = runTitle(run)
		}
		diagram, err = render.NewSpacetime(opts)
		if err != nil {
			return err
		}
		var colors []color.RGBA
		observers = append(observers, driver.Func(func(row *meca.Row) error {
			colors = row.Colors(scheme, colors[:0])
			diagram.AddRow(row.T(), colors)
			diagram.AddStats(row.T(), row.Value(), row.Ones())
			return nil
		}))
	}

	trace, err := logging.NewTraceWriter(cfg.Logging.TraceDir, "generations.jsonl", cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("opening trace: %w", err)
	}
	defer trace.Close()
	if trace != nil {
		observers = append(observers, driver.Func(func(row *meca.Row) error {
			trace.Write(row)
			return nil
		}))
	}

	if _, err := driver.Run(ctx, auto, run.Steps, driver.Options{Logger: log, LogEvery: 100}, observers...); err != nil {
		return err
	}
	sum := collector.Summary()

	report := runReport{
		Rule:         run.Rule,
		Boundaries:   run.Boundary.String(),
		UpdatePolicy: run.Policy.String(),
		Alpha:        run.Alpha,
		Means:        sum.Mean,
		Variance:     sum.Variance,
		Samples:      sum.Samples,
	}

	if diagram != nil {
		if outPath == "" {
			outPath = filepath.Join(cfg.Output.Dir, outputName(run, cfg.Output.Format))
		}
		if err := render.WriteFile(outPath, diagram.Image()); err != nil {
			return fmt.Errorf("writing image: %w", err)
		}
		report.Image = outPath
		log.Debug("image written", "path", outPath)
	}

	if cfg.Output.Chart {
		name := outputName(run, "png")
		chartPath := filepath.Join(cfg.Output.Dir, strings.TrimSuffix(name, ".png")+"-density.png")
		if err := writeChart(chartPath, run, series, sum); err != nil {
			return err
		}
		report.Chart = chartPath
	}

	if cfg.Store.Enabled {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer s.Close()
		rec := store.Run{
			Rule:        run.Rule,
			Width:       run.Width,
			Steps:       run.Steps,
			Alpha:       run.Alpha,
			Boundary:    run.Boundary.String(),
			Policy:      run.Policy.String(),
			Pattern:     run.Pattern.String(),
			Seed:        run.Seed,
			Mean:        sum.Mean,
			Variance:    sum.Variance,
			Samples:     sum.Samples,
			Sensitivity: meca.Rule(run.Rule).Sensitivity(),
		}
		if err := s.Save(ctx, &rec); err != nil {
			return err
		}
		report.ID = rec.ID
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Fprintln(out, report)
	return nil
}

// outputName follows the historical naming; synchronous runs carry no
// policy suffix.
func outputName(run config.RunConfig, format string) string {
	policy := ""
	if run.Policy.Kind != meca.Synchronous {
		policy = run.Policy.Slug()
	}
	return render.FileName(run.Rule, run.Pattern.String(), run.Alpha, policy, format)
}

func writeChart(path string, run config.RunConfig, series stats.Series, sum stats.Summary) (err error) {
	ts, ds := series.Columns()
	chart := render.DensityChart{
		Title:    runTitle(run),
		T:        ts,
		Density:  ds,
		Mean:     sum.Mean,
		ShowMean: sum.Samples > 0,
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := chart.WritePNG(f); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

func runTitle(run config.RunConfig) string {
	return fmt.Sprintf("%s alpha=%.2f %s %s", meca.Rule(run.Rule), run.Alpha, run.Boundary, run.Policy)
}
