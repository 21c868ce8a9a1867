package linearmodel

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Fit estimates the ordinary least squares line through the observations using the selected method.
//
// When every x value is identical the line is undefined. The policy in that case is a horizontal
// line through the mean of y, i.e. a slope of 0 and an intercept of mean(y).
func Fit(data XYer, method Method) (LinearModel, error) {
	x, y := XYValues(data)
	return FitXY(x, y, method)
}

// FitXY is the slice based variant of Fit
func FitXY(x, y []float64, method Method) (LinearModel, error) {
	if len(x) != len(y) {
		return LinearModel{}, fmt.Errorf("training data has %d rows and target has %d rows, %w", len(x), len(y), ErrTargetLenMismatch)
	}
	if len(x) < MinObservations {
		return LinearModel{}, fmt.Errorf("got %d observations, need at least %d, %w", len(x), MinObservations, ErrInvalidInput)
	}

	switch method {
	case MethodManual:
		return fitManual(x, y), nil
	case MethodGonum:
		return fitGonum(x, y), nil
	case MethodQR:
		return fitQR(x, y), nil
	default:
		return LinearModel{}, fmt.Errorf("%d, %w", int(method), ErrUnknownMethod)
	}
}

func horizontalFit(y []float64) LinearModel {
	return LinearModel{
		Slope:     0.0,
		Intercept: stat.Mean(y, nil),
	}
}

// fitManual computes
//
//	slope = sum((x-xMean)(y-yMean)) / sum((x-xMean)^2)
//	intercept = yMean - slope*xMean
func fitManual(x, y []float64) LinearModel {
	n := float64(len(x))
	var xMean, yMean float64
	for i := range x {
		xMean += x[i]
		yMean += y[i]
	}
	xMean /= n
	yMean /= n

	var num, den float64
	for i := range x {
		dx := x[i] - xMean
		num += dx * (y[i] - yMean)
		den += dx * dx
	}

	if den == 0 || isConstant(x) {
		return LinearModel{Slope: 0.0, Intercept: yMean}
	}

	slope := num / den
	return LinearModel{
		Slope:     slope,
		Intercept: yMean - slope*xMean,
	}
}

func fitGonum(x, y []float64) LinearModel {
	if isConstant(x) {
		return horizontalFit(y)
	}
	intercept, slope := stat.LinearRegression(x, y, nil, false)
	return LinearModel{
		Slope:     slope,
		Intercept: intercept,
	}
}

func fitQR(x, y []float64) LinearModel {
	if isConstant(x) {
		return horizontalFit(y)
	}
	m := len(x)
	n := 2

	ones := make([]float64, m)
	floats.AddConst(1.0, ones)
	design := mat.NewDense(m, n, nil)
	design.SetCol(0, ones)
	design.SetCol(1, x)

	target := mat.NewDense(1, m, y)

	qr := new(mat.QR)
	qr.Factorize(design)

	q := new(mat.Dense)
	r := new(mat.Dense)

	qr.QTo(q)
	qr.RTo(r)
	yq := new(mat.Dense)
	yq.Mul(target, q)

	c := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		c[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}

	return LinearModel{
		Slope:     c[1],
		Intercept: c[0],
	}
}
