// Package session holds an editable set of observations and keeps a line fitted through them.
// Every edit refits synchronously so the line always reflects the current points.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/go-linfit"
	"github.com/aouyang1/go-linfit/internal/logger"
	"github.com/aouyang1/go-linfit/internal/metrics"
	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/plot"
	"github.com/aouyang1/go-linfit/pointset"
	"github.com/aouyang1/go-linfit/scenario"
	"gonum.org/v1/gonum/floats"
)

// PickRadius is how close a drag must start to an observation to grab it
const PickRadius = 0.2

var ErrNoPointNearby = errors.New("no observation near the drag start")

// Session is an interactive point editor bound to a scenario
type Session struct {
	points   *pointset.PointSet
	opt      linfit.Options
	scenario *scenario.Scenario
	seed     uint64

	fitter *linfit.Fitter

	log     logger.Logger
	metrics *metrics.Manager
}

// Option configures a Session
type Option func(*Session)

func WithMethod(method linearmodel.Method) Option {
	return func(s *Session) {
		s.opt.Method = method
	}
}

// WithRange bounds both the dragged coordinates and the predictions
func WithRange(r linearmodel.Range) Option {
	return func(s *Session) {
		s.opt.Range = r
	}
}

func WithScenario(sc *scenario.Scenario) Option {
	return func(s *Session) {
		if sc != nil {
			s.scenario = sc
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.seed = seed
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// New starts a session on the scenario's example table and fits it
func New(ctx context.Context, opts ...Option) (*Session, error) {
	s := &Session{
		opt:      *linfit.NewDefaultOptions(),
		scenario: scenario.Interactive,
		seed:     pointset.DefaultSeed,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := s.opt.Validate(); err != nil {
		return nil, fmt.Errorf("unable to validate session options, %w", err)
	}

	s.points = s.scenario.Example()
	if err := s.refit(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// refit replaces the current fit with one over the current points. With too few points the
// session is left without a fit.
func (s *Session) refit(ctx context.Context) error {
	method := s.opt.Method.String()

	opt := s.opt
	f, err := linfit.New(&opt)
	if err != nil {
		return err
	}

	start := time.Now()
	err = f.Fit(s.points)
	elapsed := time.Since(start)
	if err != nil {
		s.fitter = nil
		s.metrics.RecordFitError(method)
		s.log.Warn(ctx, "no fit",
			logger.String("method", method),
			logger.Int("points", s.points.Len()),
			logger.Error(err),
		)
		return err
	}
	s.fitter = f

	line, _ := f.Line()
	degenerate := floats.Max(s.points.X) == floats.Min(s.points.X)
	s.metrics.RecordFit(metrics.FitObservation{
		Method:     method,
		Duration:   elapsed,
		Slope:      line.Slope,
		Intercept:  line.Intercept,
		RSquared:   f.Scores().R2,
		Points:     s.points.Len(),
		Degenerate: degenerate,
	})
	s.log.Debug(ctx, "fitted line",
		logger.String("method", method),
		logger.Int("points", s.points.Len()),
		logger.String("equation", line.Equation()),
		logger.Float64("r_squared", f.Scores().R2),
		logger.Bool("degenerate", degenerate),
	)
	return nil
}

// Add appends an observation and refits
func (s *Session) Add(ctx context.Context, x, y float64) error {
	s.points.Add(x, y)
	return s.refit(ctx)
}

// Move places observation i at (x, y) bounded to the session range and refits
func (s *Session) Move(ctx context.Context, i int, x, y float64) error {
	if err := s.points.Move(i, s.opt.Range.Clamp(x), s.opt.Range.Clamp(y)); err != nil {
		return err
	}
	return s.refit(ctx)
}

// Drag grabs the observation within PickRadius of (x0, y0) and moves it to (x, y) like Move.
// It returns the index of the moved observation.
func (s *Session) Drag(ctx context.Context, x0, y0, x, y float64) (int, error) {
	i := s.points.Nearest(x0, y0, PickRadius)
	if i < 0 {
		return -1, fmt.Errorf("at (%g, %g), %w", x0, y0, ErrNoPointNearby)
	}
	return i, s.Move(ctx, i, x, y)
}

// Remove deletes observation i and refits
func (s *Session) Remove(ctx context.Context, i int) error {
	if err := s.points.Remove(i); err != nil {
		return err
	}
	return s.refit(ctx)
}

// Reset restores the scenario's example table
func (s *Session) Reset(ctx context.Context) error {
	s.points = s.scenario.Example()
	return s.refit(ctx)
}

// Randomize replaces the points with a seeded random sample of the scenario. The session seed
// is fixed so repeated calls produce the same sample.
func (s *Session) Randomize(ctx context.Context) error {
	s.points = s.scenario.GenerateRandomSize(s.seed)
	s.log.Info(ctx, "generated random points",
		logger.Int("points", s.points.Len()),
		logger.Any("seed", s.seed),
	)
	return s.refit(ctx)
}

// SetMethod switches the estimator and refits
func (s *Session) SetMethod(ctx context.Context, method linearmodel.Method) error {
	if _, err := method.MarshalText(); err != nil {
		return err
	}
	s.opt.Method = method
	return s.refit(ctx)
}

// Method returns the estimator in use
func (s *Session) Method() linearmodel.Method {
	return s.opt.Method
}

// Range returns the bounds applied to dragged points and predictions
func (s *Session) Range() linearmodel.Range {
	return s.opt.Range
}

// Scenario returns the scenario the session was started with
func (s *Session) Scenario() *scenario.Scenario {
	return s.scenario
}

// Points returns a copy of the current observations
func (s *Session) Points() *pointset.PointSet {
	return s.points.Copy()
}

// Fitted reports whether the session currently holds a fit
func (s *Session) Fitted() bool {
	return s.fitter != nil
}

func (s *Session) current() (*linfit.Fitter, error) {
	if s.fitter == nil {
		return nil, fmt.Errorf("%d points, %w", s.points.Len(), errors.Join(linfit.ErrNotFitted, linearmodel.ErrInvalidInput))
	}
	return s.fitter, nil
}

// Predict evaluates the latest fit at x. It also reports whether the value was bounded.
func (s *Session) Predict(ctx context.Context, x float64) (float64, bool, error) {
	f, err := s.current()
	if err != nil {
		return 0, false, err
	}
	p, err := f.Predictor()
	if err != nil {
		return 0, false, err
	}
	y, clamped := p.Clamped(x)
	s.metrics.RecordPrediction(clamped)
	s.log.Info(ctx, "prediction",
		logger.Float64("x", x),
		logger.Float64("y", y),
		logger.Bool("clamped", clamped),
	)
	return y, clamped, nil
}

// Line returns the latest fitted line
func (s *Session) Line() (linearmodel.LinearModel, error) {
	f, err := s.current()
	if err != nil {
		return linearmodel.LinearModel{}, err
	}
	return f.Line()
}

// Scores returns the scores of the latest fit
func (s *Session) Scores() (*linearmodel.Scores, error) {
	f, err := s.current()
	if err != nil {
		return nil, err
	}
	return f.Scores(), nil
}

// Model returns the latest fit in its serializable form
func (s *Session) Model() (linfit.Model, error) {
	f, err := s.current()
	if err != nil {
		return linfit.Model{}, err
	}
	return f.Model()
}

// Summary describes the current observations
func (s *Session) Summary() (pointset.Summary, error) {
	return s.points.Summarize()
}

// Plot renders the current points and line, optionally marking a prediction at x
func (s *Session) Plot(w io.Writer, x *float64) error {
	f, err := s.current()
	if err != nil {
		return err
	}
	return f.PlotFit(w, &linfit.PlotOpts{
		Labels: plot.Labels{
			Title:  "Interactive Linear Regression",
			XLabel: s.scenario.XLabel,
			YLabel: s.scenario.YLabel,
		},
		Prediction: x,
	})
}
