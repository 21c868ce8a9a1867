package linearmodel

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidInput      = errors.New("not enough observations to fit a line")
	ErrTargetLenMismatch = errors.New("target length does not match training length")
	ErrResLenMismatch    = errors.New("predicted and actual have different lengths")
	ErrUnknownMethod     = errors.New("unknown estimation method")
	ErrInvalidRange      = errors.New("invalid prediction range")
)

// MinObservations is the smallest number of points for which a line fit is defined
const MinObservations = 2

// XYer wraps the Len and XY methods to access an ordered set of observations
type XYer interface {
	Len() int
	XY(int) (x, y float64)
}

// XYValues copies the observations of an XYer into separate x and y slices
func XYValues(data XYer) (x, y []float64) {
	n := data.Len()
	x = make([]float64, n)
	y = make([]float64, n)
	for i := 0; i < n; i++ {
		x[i], y[i] = data.XY(i)
	}
	return x, y
}

// isConstant reports whether every value of a non-empty slice is identical
func isConstant(v []float64) bool {
	return floats.Max(v) == floats.Min(v)
}
