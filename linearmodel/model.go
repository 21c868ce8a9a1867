package linearmodel

import (
	"fmt"
	"math"
)

// LinearModel is the fitted line y = Slope*x + Intercept
type LinearModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict returns the unbounded value of the line at x
func (l LinearModel) Predict(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// PredictAll evaluates the line at every x
func (l LinearModel) PredictAll(x []float64) []float64 {
	res := make([]float64, len(x))
	for i, v := range x {
		res[i] = l.Predict(v)
	}
	return res
}

// Equation returns a string representation of the line e.g. y = 0.850x + 1.750
func (l LinearModel) Equation() string {
	sign := "+"
	if math.Signbit(l.Intercept) {
		sign = "-"
	}
	return fmt.Sprintf("y = %.3fx %s %.3f", l.Slope, sign, math.Abs(l.Intercept))
}
