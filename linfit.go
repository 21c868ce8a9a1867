// Package linfit fits a single variable linear model y = mx + b to a set of observations and
// predicts bounded values from it.
package linfit

import (
	"errors"
	"fmt"
	"io"

	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/plot"
	"github.com/aouyang1/go-linfit/pointset"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrNotFitted        = errors.New("model has not been fit")
	ErrNoTrainingData   = errors.New("no training data")
	ErrNoOptionsInModel = errors.New("no options set in model")
)

// Fitter fits a linear model and can be used to generate predictions
type Fitter struct {
	opt *Options

	line      *linearmodel.LinearModel
	predictor *linearmodel.Predictor
	scores    *linearmodel.Scores
	trainSize int

	fitTrainingData *pointset.PointSet
	fitResults      *Results
}

// New creates a new instance of a Fitter using the provided options. If no options are provided
// a default is used.
func New(opt *Options) (*Fitter, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate options, %w", err)
	}
	return &Fitter{
		opt: opt,
	}, nil
}

// NewFromModel creates a new instance of Fitter from a pre-existing model. This should be generated
// from a previous fitter call to Model().
func NewFromModel(model Model) (*Fitter, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	f, err := New(model.Options)
	if err != nil {
		return nil, fmt.Errorf("unable to load from model, %w", err)
	}
	if err := f.setLine(model.Line); err != nil {
		return nil, err
	}
	f.scores = model.Scores
	f.trainSize = model.TrainSize
	return f, nil
}

func (f *Fitter) setLine(line linearmodel.LinearModel) error {
	predictor, err := linearmodel.NewPredictor(line, &f.opt.Range)
	if err != nil {
		return fmt.Errorf("unable to initialize predictor, %w", err)
	}
	f.line = &line
	f.predictor = predictor
	return nil
}

// Fit estimates the line through the observations and scores it against the same observations
func (f *Fitter) Fit(ps *pointset.PointSet) error {
	if ps == nil {
		return ErrNoTrainingData
	}
	td := ps.Copy()

	line, err := linearmodel.Fit(td, f.opt.Method)
	if err != nil {
		return fmt.Errorf("unable to fit line, %w", err)
	}

	predicted := line.PredictAll(td.X)
	scores, err := linearmodel.NewScores(predicted, td.Y)
	if err != nil {
		return fmt.Errorf("unable to score fit, %w", err)
	}
	scores.R2, err = linearmodel.Score(td, line, f.opt.Method)
	if err != nil {
		return fmt.Errorf("unable to compute fit quality, %w", err)
	}

	if err := f.setLine(line); err != nil {
		return err
	}

	residual := make([]float64, len(predicted))
	floats.SubTo(residual, td.Y, predicted)

	f.scores = scores
	f.trainSize = td.Len()
	f.fitTrainingData = td
	f.fitResults = &Results{
		X:         td.X,
		Actual:    td.Y,
		Predicted: predicted,
		Residual:  residual,
	}
	return nil
}

// Predict returns the model value at x bounded to the configured range
func (f *Fitter) Predict(x float64) (float64, error) {
	if f.predictor == nil {
		return 0, ErrNotFitted
	}
	return f.predictor.Predict(x), nil
}

// PredictAll returns the bounded model value for every x
func (f *Fitter) PredictAll(x []float64) ([]float64, error) {
	if f.predictor == nil {
		return nil, ErrNotFitted
	}
	res := make([]float64, len(x))
	for i, v := range x {
		res[i] = f.predictor.Predict(v)
	}
	return res, nil
}

// Predictor returns the predictor bound to the fitted line
func (f *Fitter) Predictor() (*linearmodel.Predictor, error) {
	if f.predictor == nil {
		return nil, ErrNotFitted
	}
	return f.predictor, nil
}

// Line returns the fitted line
func (f *Fitter) Line() (linearmodel.LinearModel, error) {
	if f.line == nil {
		return linearmodel.LinearModel{}, ErrNotFitted
	}
	return *f.line, nil
}

// Scores returns the scores computed against the training data
func (f *Fitter) Scores() *linearmodel.Scores {
	return f.scores
}

// Options returns the options in use
func (f *Fitter) Options() *Options {
	return f.opt
}

// Model generates a serializeable representation of the fit options, line and scores. This
// can be used to initialize a new Fitter for immediate predictions skipping the training step.
func (f *Fitter) Model() (Model, error) {
	if f.line == nil {
		return Model{}, ErrNotFitted
	}
	return Model{
		Options:   f.opt,
		Line:      *f.line,
		Scores:    f.scores,
		TrainSize: f.trainSize,
	}, nil
}

// TrainingData returns the training data used to fit the current model
func (f *Fitter) TrainingData() *pointset.PointSet {
	return f.fitTrainingData
}

// FitResults returns the in-sample predictions and residuals of the fit
func (f *Fitter) FitResults() *Results {
	return f.fitResults
}

// PlotOpts labels the fit chart and optionally marks a prediction
type PlotOpts struct {
	Labels     plot.Labels
	Prediction *float64
}

// PlotFit uses the Apache Echarts library to generate an html page showing the observations and
// the fitted line, the x and y distributions and the residual against the predicted value.
func (f *Fitter) PlotFit(w io.Writer, opt *PlotOpts) error {
	td := f.TrainingData()
	if td == nil || f.line == nil {
		return ErrNotFitted
	}
	if opt == nil {
		opt = &PlotOpts{
			Labels: plot.Labels{Title: "Linear Fit", XLabel: "x", YLabel: "y"},
		}
	}

	var marker *plot.Marker
	if opt.Prediction != nil {
		marker = &plot.Marker{X: *opt.Prediction, Y: f.predictor.Predict(*opt.Prediction)}
	}

	return plot.Render(
		w,
		plot.ScatterFit(opt.Labels, td, *f.line, marker),
		plot.Histogram(
			plot.Labels{Title: "Distribution of " + opt.Labels.XLabel, XLabel: opt.Labels.XLabel, YLabel: "Frequency"},
			td.X,
			plot.HistogramBins,
		),
		plot.Histogram(
			plot.Labels{Title: "Distribution of " + opt.Labels.YLabel, XLabel: opt.Labels.YLabel, YLabel: "Frequency"},
			td.Y,
			plot.HistogramBins,
		),
		plot.Residuals(
			plot.Labels{Title: "Fit Residual", XLabel: "Predicted " + opt.Labels.YLabel, YLabel: "Residual"},
			f.fitResults.Predicted,
			f.fitResults.Residual,
		),
	)
}
