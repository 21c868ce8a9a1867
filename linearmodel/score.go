package linearmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scores tracks the fit scores
type Scores struct {
	R2   float64 `json:"r_squared"`
	MSE  float64 `json:"mean_squared_error"`
	MAPE float64 `json:"mean_average_percent_error"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean average percent error, %w", err)
	}

	return &Scores{
		R2:   rs,
		MSE:  mse,
		MAPE: mape,
	}, nil
}

// Score predicts every observation with the model and returns the coefficient of determination.
// MethodManual sums the squared residuals directly while the library methods use gonum.
func Score(data XYer, model LinearModel, method Method) (float64, error) {
	x, y := XYValues(data)
	predicted := model.PredictAll(x)

	switch method {
	case MethodManual:
		return RSquared(predicted, y)
	case MethodGonum, MethodQR:
		return rSquaredFrom(predicted, y)
	default:
		return 0.0, fmt.Errorf("%d, %w", int(method), ErrUnknownMethod)
	}
}

// RSquared computes 1 - ss_res/ss_tot between the predicted and actual values where 1.0 means a
// perfect fit. If the actual values have no variance the score is 1.0 by convention.
func RSquared(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 1.0, nil
	}

	var yMean float64
	for _, v := range actual {
		yMean += v
	}
	yMean /= float64(len(actual))

	var ssRes, ssTot float64
	for i := range actual {
		res := actual[i] - predicted[i]
		ssRes += res * res
		dev := actual[i] - yMean
		ssTot += dev * dev
	}
	if ssTot == 0 {
		return 1.0, nil
	}
	return 1 - ssRes/ssTot, nil
}

func rSquaredFrom(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 || isConstant(actual) {
		return 1.0, nil
	}
	r2 := stat.RSquaredFrom(predicted, actual, nil)
	if math.IsNaN(r2) {
		return 1.0, nil
	}
	return r2, nil
}

// MSE computes the mean squared error. This is the same as sum((y-yhat)^2)/n.
// A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 0, nil
	}

	mse := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		mse += math.Pow(actual[i]-predicted[i], 2.0)
	}
	mse /= float64(len(actual))
	return mse, nil
}

// MAPE calculates the mean average percent error. This is the same as sum(abs((y-yhat)/y))/n.
// Actual values of 0 are skipped. A score of 0 means a perfect match with no errors.
func MAPE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 0, nil
	}

	mape := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) || actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
	}
	mape /= float64(len(actual))
	return mape, nil
}
