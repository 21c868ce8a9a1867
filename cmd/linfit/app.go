package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-linfit"
	"github.com/aouyang1/go-linfit/experiment"
	"github.com/aouyang1/go-linfit/internal/config"
	"github.com/aouyang1/go-linfit/internal/logger"
	"github.com/aouyang1/go-linfit/internal/metrics"
	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/modelstore"
	"github.com/aouyang1/go-linfit/plot"
	"github.com/aouyang1/go-linfit/pointset"
	"github.com/aouyang1/go-linfit/scenario"
	"gonum.org/v1/gonum/floats"
)

const (
	cmdStudy       = "study"
	cmdSleep       = "sleep"
	cmdExperiment  = "experiment"
	cmdCompare     = "compare"
	cmdInteractive = "interactive"
	cmdModels      = "models"
)

var errUnknownCommand = errors.New("unknown command")

var rule = strings.Repeat("=", 50)

type app struct {
	cfg    *config.Config
	method linearmodel.Method
	store  *modelstore.Store

	in  *bufio.Scanner
	out io.Writer

	log     logger.Logger
	metrics *metrics.Manager
}

type appOption func(*app)

func withLogger(l logger.Logger) appOption {
	return func(a *app) {
		a.log = l
	}
}

func withMetrics(m *metrics.Manager) appOption {
	return func(a *app) {
		a.metrics = m
	}
}

func newApp(cfg *config.Config, in io.Reader, out io.Writer, opts ...appOption) (*app, error) {
	method, err := cfg.ParsedMethod()
	if err != nil {
		return nil, err
	}
	store, err := modelstore.New(cfg.ModelDir)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		method: method,
		store:  store,
		in:     bufio.NewScanner(in),
		out:    out,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case cmdStudy, cmdSleep:
		sc, err := scenario.Lookup(cmd)
		if err != nil {
			return err
		}
		return a.runScenario(ctx, sc)
	case cmdExperiment:
		return a.runExperiment(ctx)
	case cmdCompare:
		return a.runCompare(ctx)
	case cmdInteractive:
		name := scenario.Interactive.Name
		if len(args) > 0 {
			name = args[0]
		}
		sc, err := scenario.Lookup(name)
		if err != nil {
			return fmt.Errorf("choose one of %s, %w", strings.Join(scenario.Names(), ", "), err)
		}
		return a.runInteractive(ctx, sc)
	case cmdModels:
		return a.runModels()
	default:
		return fmt.Errorf("%q, %w", cmd, errUnknownCommand)
	}
}

// readLine prompts and returns the trimmed input line. io.EOF is returned once input is exhausted.
func (a *app) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(a.out)
		return "", io.EOF
	}
	return strings.TrimSpace(a.in.Text()), nil
}

// readFloat prompts until a finite number is typed
func (a *app) readFloat(prompt string) (float64, error) {
	for {
		line, err := a.readLine(prompt)
		if err != nil {
			return 0, err
		}
		v, err := parseFloat(line)
		if err != nil {
			fmt.Fprintln(a.out, "Error: please enter a valid number.")
			continue
		}
		return v, nil
	}
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

func confirmed(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true
	}
	return false
}

// fit estimates a line through ps and records the fit
func (a *app) fit(ctx context.Context, ps *pointset.PointSet) (*linfit.Fitter, error) {
	f, err := linfit.New(&linfit.Options{Method: a.method, Range: a.cfg.Range()})
	if err != nil {
		return nil, err
	}
	start := time.Now()
	if err := f.Fit(ps); err != nil {
		a.metrics.RecordFitError(a.method.String())
		return nil, err
	}
	elapsed := time.Since(start)

	line, _ := f.Line()
	a.metrics.RecordFit(metrics.FitObservation{
		Method:     a.method.String(),
		Duration:   elapsed,
		Slope:      line.Slope,
		Intercept:  line.Intercept,
		RSquared:   f.Scores().R2,
		Points:     ps.Len(),
		Degenerate: floats.Max(ps.X) == floats.Min(ps.X),
	})
	a.log.Info(ctx, "fitted line",
		logger.String("method", a.method.String()),
		logger.Int("points", ps.Len()),
		logger.String("equation", line.Equation()),
		logger.Duration("elapsed", elapsed),
	)
	return f, nil
}

// loadOrFit returns the stored model for the scenario. When none is stored the example table is
// fitted and fresh is true.
func (a *app) loadOrFit(ctx context.Context, sc *scenario.Scenario) (f *linfit.Fitter, fresh bool, err error) {
	rec, err := a.store.Load(sc.Name)
	switch {
	case err == nil:
		loaded, loadErr := linfit.NewFromModel(rec.Model)
		if loadErr == nil {
			fmt.Fprintf(a.out, "Loaded model %q saved at %s\n", rec.Name, rec.SavedAt.Format(time.RFC3339))
			return loaded, false, nil
		}
		a.log.Warn(ctx, "stored model is unusable", logger.String("name", sc.Name), logger.Error(loadErr))
		fmt.Fprintf(a.out, "Stored model %q is unusable, training a new one.\n", sc.Name)
	case errors.Is(err, modelstore.ErrModelNotFound):
		fmt.Fprintf(a.out, "No stored model %q found, training a new one.\n", sc.Name)
	default:
		a.log.Warn(ctx, "unable to load model", logger.String("name", sc.Name), logger.Error(err))
		fmt.Fprintf(a.out, "Error loading model %q, training a new one.\n", sc.Name)
	}

	ps := sc.Example()
	fmt.Fprintln(a.out, "\nTraining data:")
	if err := a.printPoints(sc, ps); err != nil {
		return nil, false, err
	}
	f, err = a.fit(ctx, ps)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

func (a *app) printPoints(sc *scenario.Scenario, ps *pointset.PointSet) error {
	tbl := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "#\t%s\t%s\t\n", sc.XLabel, sc.YLabel)
	for i := 0; i < ps.Len(); i++ {
		x, y := ps.XY(i)
		fmt.Fprintf(tbl, "%d\t%.2f\t%.2f\t\n", i, x, y)
	}
	return tbl.Flush()
}

func (a *app) printSummary(sc *scenario.Scenario, ps *pointset.PointSet) error {
	summary, err := ps.Summarize()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nData Summary:\n")
	fmt.Fprintf(a.out, "  Mean %s: %.2f (std dev %.2f, min %.1f, max %.1f)\n",
		sc.XLabel, summary.X.Mean, summary.X.StdDev, summary.X.Min, summary.X.Max)
	fmt.Fprintf(a.out, "  Mean %s: %.2f (min %.1f, max %.1f)\n",
		sc.YLabel, summary.Y.Mean, summary.Y.Min, summary.Y.Max)
	fmt.Fprintf(a.out, "  Best: %.1f %s -> %.1f %s\n",
		summary.Best.X, strings.ToLower(sc.XLabel), summary.Best.Y, strings.ToLower(sc.YLabel))
	return nil
}

// writePlot renders a chart page into the plot directory
func (a *app) writePlot(ctx context.Context, name string, render func(io.Writer) error) error {
	if err := os.MkdirAll(a.cfg.PlotDir, 0o755); err != nil {
		return fmt.Errorf("unable to create plot directory, %w", err)
	}
	path := filepath.Join(a.cfg.PlotDir, name+".html")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create chart file, %w", err)
	}
	if err := render(file); err != nil {
		file.Close()
		return fmt.Errorf("unable to render chart, %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	a.log.Debug(ctx, "chart written", logger.String("path", path))
	fmt.Fprintf(a.out, "Chart written to %s\n", path)
	return nil
}

func (a *app) runScenario(ctx context.Context, sc *scenario.Scenario) error {
	fmt.Fprintf(a.out, "%s FROM %s\n%s\n", strings.ToUpper(sc.YLabel), strings.ToUpper(sc.XLabel), rule)

	f, fresh, err := a.loadOrFit(ctx, sc)
	if err != nil {
		return err
	}

	model, err := f.Model()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	if err := model.TablePrint(a.out, "", "  "); err != nil {
		return err
	}

	if fresh {
		if err := a.printSummary(sc, f.TrainingData()); err != nil {
			return err
		}
		title := fmt.Sprintf("%s vs %s", sc.YLabel, sc.XLabel)
		err := a.writePlot(ctx, sc.Name, func(w io.Writer) error {
			return f.PlotFit(w, &linfit.PlotOpts{
				Labels: plot.Labels{Title: title, XLabel: sc.XLabel, YLabel: sc.YLabel},
			})
		})
		if err != nil {
			return err
		}
		if _, err := a.store.Save(sc.Name, model); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Model saved as %q in %s\n", sc.Name, a.store.Dir())
	}

	predictor, err := f.Predictor()
	if err != nil {
		return err
	}
	for {
		fmt.Fprintf(a.out, "\n%s\n", rule)
		x, err := a.readFloat(fmt.Sprintf("Enter %s: ", strings.ToLower(sc.XLabel)))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := sc.ValidateInput(x); err != nil {
			fmt.Fprintf(a.out, "Error: %s must be between %g and %g.\n", sc.XLabel, sc.Input.Lo, sc.Input.Hi)
			continue
		}

		y, clamped := predictor.Clamped(x)
		a.metrics.RecordPrediction(clamped)
		a.log.Debug(ctx, "prediction", logger.Float64("x", x), logger.Float64("y", y), logger.Bool("clamped", clamped))

		fmt.Fprintf(a.out, "%s: %g\n", sc.XLabel, x)
		fmt.Fprintf(a.out, "Predicted %s: %.2f/%g\n", strings.ToLower(sc.YLabel), y, predictor.Range.Hi)
		for _, advice := range sc.Advice(x, y) {
			fmt.Fprintln(a.out, advice)
		}

		answer, err := a.readLine("\nAnother prediction? (y/n): ")
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if !confirmed(answer) {
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		}
	}
}

func (a *app) runExperiment(ctx context.Context) error {
	fmt.Fprintf(a.out, "SAMPLE SIZE EXPERIMENT\n%s\n", rule)
	res, err := experiment.SampleSizes(a.cfg.SampleSizes, a.cfg.Seed, scenario.Study, a.method)
	if err != nil {
		return err
	}
	for _, row := range res.Rows {
		a.metrics.RecordFit(metrics.FitObservation{
			Method:    a.method.String(),
			Slope:     row.Slope,
			Intercept: row.Intercept,
			RSquared:  row.R2,
			Points:    row.N,
		})
	}
	if err := res.TablePrint(a.out, "", "  "); err != nil {
		return err
	}
	return a.writePlot(ctx, "sample_sizes", res.Plot)
}

func (a *app) runCompare(ctx context.Context) error {
	fmt.Fprintf(a.out, "EXAMPLE VS RANDOM DATA\n%s\n", rule)
	cmp, err := experiment.Compare(a.cfg.Seed, a.method)
	if err != nil {
		return err
	}
	if err := cmp.TablePrint(a.out, "", "  "); err != nil {
		return err
	}
	return a.writePlot(ctx, "compare", cmp.Plot)
}

func (a *app) runModels() error {
	names, err := a.store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(a.out, "No models stored in %s\n", a.store.Dir())
		return nil
	}
	tbl := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tbl, "Name\tSaved At\tEquation\tR2\t\n")
	for _, name := range names {
		rec, err := a.store.Load(name)
		if err != nil {
			fmt.Fprintf(tbl, "%s\t-\t%v\t-\t\n", name, err)
			continue
		}
		r2 := "-"
		if rec.Model.Scores != nil {
			r2 = fmt.Sprintf("%.4f", rec.Model.Scores.R2)
		}
		fmt.Fprintf(tbl, "%s\t%s\t%s\t%s\t\n", name, rec.SavedAt.Format(time.RFC3339), rec.Model.Equation(), r2)
	}
	return tbl.Flush()
}
