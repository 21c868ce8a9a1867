package experiment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/pointset"
	"github.com/aouyang1/go-linfit/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSizes(t *testing.T) {
	testData := map[string]struct {
		sizes []int
		sc    *scenario.Scenario
		err   error
	}{
		"default sizes":  {DefaultSampleSizes, scenario.Study, nil},
		"sleep":          {[]int{10, 30}, scenario.Sleep, nil},
		"single sample":  {[]int{5, 1}, scenario.Study, linearmodel.ErrInvalidInput},
		"zero samples":   {[]int{0}, scenario.Study, linearmodel.ErrInvalidInput},
		"no scenario":    {[]int{5}, nil, scenario.ErrUnknownScenario},
		"no sample size": {nil, scenario.Study, nil},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := SampleSizes(td.sizes, pointset.DefaultSeed, td.sc, linearmodel.MethodManual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			require.Len(t, res.Rows, len(td.sizes))
			for i, row := range res.Rows {
				assert.Equal(t, td.sizes[i], row.N)
				assert.LessOrEqual(t, row.R2, 1.0)
			}
		})
	}
}

func TestSampleSizesConverge(t *testing.T) {
	res, err := SampleSizes([]int{100}, pointset.DefaultSeed, scenario.Study, linearmodel.MethodGonum)
	require.Nil(t, err)
	require.Len(t, res.Rows, 1)

	// with 100 points of y = 0.8x + 1.5 + N(0, 0.5) the estimate sits close to the generating line
	row := res.Rows[0]
	assert.InDelta(t, 0.8, row.Slope, 0.15)
	assert.InDelta(t, 1.5, row.Intercept, 0.6)
	assert.Greater(t, row.R2, 0.7)
}

func TestSampleSizesReproducible(t *testing.T) {
	for _, method := range []linearmodel.Method{linearmodel.MethodManual, linearmodel.MethodGonum, linearmodel.MethodQR} {
		t.Run(method.String(), func(t *testing.T) {
			first, err := SampleSizes(DefaultSampleSizes, 7, scenario.Sleep, method)
			require.Nil(t, err)
			second, err := SampleSizes(DefaultSampleSizes, 7, scenario.Sleep, method)
			require.Nil(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestSampleSizesPrintAndPlot(t *testing.T) {
	res, err := SampleSizes([]int{5, 10}, pointset.DefaultSeed, scenario.Study, linearmodel.MethodQR)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, res.TablePrint(&buf, "", "  "))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Sample Sizes (study, qr):", lines[0])
	assert.Contains(t, lines[1], "Intercept")

	buf.Reset()
	require.Nil(t, res.Plot(&buf))
	assert.Contains(t, buf.String(), "R2 vs Sample Size")
	assert.Contains(t, buf.String(), "Slope vs Sample Size")
}

func TestCompare(t *testing.T) {
	cmp, err := Compare(pointset.DefaultSeed, linearmodel.MethodManual)
	require.Nil(t, err)

	assert.Equal(t, 5, cmp.Example.Row.N)
	assert.InDelta(t, 0.85, cmp.Example.Line.Slope, 1e-9)
	assert.InDelta(t, 1.75, cmp.Example.Line.Intercept, 1e-9)
	assert.InDelta(t, 1.0-1.575/8.8, cmp.Example.Row.R2, 1e-9)

	assert.Equal(t, RandomSamples, cmp.Random.Row.N)
	for i := 0; i < cmp.Random.Data.Len(); i++ {
		x, y := cmp.Random.Data.XY(i)
		assert.True(t, x >= RandomXLo && x < RandomXHi)
		assert.True(t, y >= RandomYLo && y < RandomYHi)
	}
	// independent x and y leave far less of the variance explained than the example table
	assert.Less(t, cmp.Random.Row.R2, cmp.Example.Row.R2)

	again, err := Compare(pointset.DefaultSeed, linearmodel.MethodManual)
	require.Nil(t, err)
	assert.Equal(t, cmp.Random.Row, again.Random.Row)

	var buf bytes.Buffer
	require.Nil(t, cmp.TablePrint(&buf, "", "  "))
	assert.Contains(t, buf.String(), "Example Data:\n  Equation: y = 0.850x + 1.750\n  R2: 0.8210\n  Samples: 5\n")
	assert.Contains(t, buf.String(), "Random Data:")

	buf.Reset()
	require.Nil(t, cmp.Plot(&buf))
	assert.Contains(t, buf.String(), "Model with Example Data")
	assert.Contains(t, buf.String(), "Model with Random Data")
}
