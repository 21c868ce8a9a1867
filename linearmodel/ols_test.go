package linearmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type xySlices struct {
	x []float64
	y []float64
}

func (d xySlices) Len() int {
	return len(d.x)
}

func (d xySlices) XY(i int) (float64, float64) {
	return d.x[i], d.y[i]
}

var allMethods = []Method{MethodManual, MethodGonum, MethodQR}

func sse(x, y []float64, model LinearModel) float64 {
	var s float64
	for i := range x {
		d := y[i] - model.Predict(x[i])
		s += d * d
	}
	return s
}

func TestFit(t *testing.T) {
	tol := 1e-9
	testData := map[string]struct {
		x         []float64
		y         []float64
		slope     float64
		intercept float64
		err       error
	}{
		"study hours example": {
			x:         []float64{1, 2, 3, 4, 5},
			y:         []float64{2.0, 4.0, 5.0, 4.5, 6.0},
			slope:     0.85,
			intercept: 1.75,
		},
		"exact line": {
			x:         []float64{0, 3, 9, 12},
			y:         []float64{2, 11, 29, 38},
			slope:     3.0,
			intercept: 2.0,
		},
		"negative slope": {
			x:         []float64{-1, 0, 1, 2},
			y:         []float64{3, 1, -1, -3},
			slope:     -2.0,
			intercept: 1.0,
		},
		"identical points": {
			x:         []float64{3, 3},
			y:         []float64{5.0, 5.0},
			slope:     0.0,
			intercept: 5.0,
		},
		"all x equal": {
			x:         []float64{2, 2, 2, 2},
			y:         []float64{1, 3, 5, 7},
			slope:     0.0,
			intercept: 4.0,
		},
		"all y equal": {
			x:         []float64{1, 4, 9},
			y:         []float64{6, 6, 6},
			slope:     0.0,
			intercept: 6.0,
		},
		"single observation": {
			x:   []float64{1},
			y:   []float64{2},
			err: ErrInvalidInput,
		},
		"no observations": {
			err: ErrInvalidInput,
		},
	}

	for name, td := range testData {
		for _, method := range allMethods {
			t.Run(name+"/"+method.String(), func(t *testing.T) {
				model, err := Fit(xySlices{td.x, td.y}, method)
				if td.err != nil {
					assert.ErrorIs(t, err, td.err)
					return
				}
				require.Nil(t, err)
				assert.InDelta(t, td.slope, model.Slope, tol, "slope")
				assert.InDelta(t, td.intercept, model.Intercept, tol, "intercept")
			})
		}
	}
}

func TestFitXYErrors(t *testing.T) {
	_, err := FitXY([]float64{1, 2}, []float64{1}, MethodManual)
	assert.ErrorIs(t, err, ErrTargetLenMismatch)

	_, err = FitXY([]float64{1, 2}, []float64{1, 2}, Method(99))
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

// Degenerate x policy: a horizontal line through mean(y). This is a convention, not a
// mathematically derived result.
func TestFitDegenerateXPolicy(t *testing.T) {
	x := []float64{0.1, 0.1, 0.1}
	y := []float64{1, 2, 6}
	for _, method := range allMethods {
		model, err := FitXY(x, y, method)
		require.Nil(t, err)
		assert.Equal(t, 0.0, model.Slope, method.String())
		assert.InDelta(t, 3.0, model.Intercept, 1e-12, method.String())
	}
}

func TestFitMinimizesSquaredResidual(t *testing.T) {
	x := []float64{0.7, 1.3, 2.2, 3.9, 4.1, 5.5, 7.8}
	y := []float64{1.9, 2.4, 3.6, 4.4, 5.3, 5.1, 7.9}

	perturbations := []float64{-1e-2, -1e-4, 1e-4, 1e-2}
	for _, method := range allMethods {
		model, err := FitXY(x, y, method)
		require.Nil(t, err)
		best := sse(x, y, model)

		for _, ds := range perturbations {
			for _, db := range perturbations {
				other := LinearModel{Slope: model.Slope + ds, Intercept: model.Intercept + db}
				assert.Greater(t, sse(x, y, other), best, "%s slope%+g intercept%+g", method, ds, db)
			}
		}
	}
}

func TestFitMethodsAgree(t *testing.T) {
	x := []float64{0.7, 1.3, 2.2, 3.9, 4.1, 5.5, 7.8}
	y := []float64{1.9, 2.4, 3.6, 4.4, 5.3, 5.1, 7.9}

	manual, err := FitXY(x, y, MethodManual)
	require.Nil(t, err)
	for _, method := range []Method{MethodGonum, MethodQR} {
		model, err := FitXY(x, y, method)
		require.Nil(t, err)
		assert.InDelta(t, manual.Slope, model.Slope, 1e-9, method.String())
		assert.InDelta(t, manual.Intercept, model.Intercept, 1e-9, method.String())
	}
}

func TestFitIdempotent(t *testing.T) {
	data := xySlices{
		x: []float64{1, 2, 3, 4, 5},
		y: []float64{2.0, 4.0, 5.0, 4.5, 6.0},
	}
	for _, method := range allMethods {
		first, err := Fit(data, method)
		require.Nil(t, err)
		firstScore, err := Score(data, first, method)
		require.Nil(t, err)

		second, err := Fit(data, method)
		require.Nil(t, err)
		secondScore, err := Score(data, second, method)
		require.Nil(t, err)

		assert.Equal(t, first, second, method.String())
		assert.Equal(t, firstScore, secondScore, method.String())
	}
}

func BenchmarkFit(b *testing.B) {
	n := 1000
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = 0.8*float64(i) + 1.5 + float64(i%7)/10.0
	}

	for _, method := range allMethods {
		b.Run(method.String(), func(b *testing.B) {
			for b.Loop() {
				if _, err := FitXY(x, y, method); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
