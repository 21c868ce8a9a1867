package plot

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistogramBins is the number of bins drawn by distribution charts
const HistogramBins = 10

// Bins counts the finite values into n equal width bins spanning their min and max. The last
// bin includes the max. When every value is identical a single unit wide span is used.
func Bins(values []float64, n int) (dividers, counts []float64) {
	if n <= 0 {
		return nil, nil
	}
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return nil, nil
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		hi = lo + 1
	}
	dividers = floats.Span(make([]float64, n+1), lo, hi)
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	return dividers, stat.Histogram(nil, dividers, sorted, nil)
}

// Histogram generates an echart bar chart of the value frequencies
func Histogram(labels Labels, values []float64, n int) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: labels.Title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: labels.XLabel,
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: labels.YLabel,
			},
		),
	)

	dividers, counts := Bins(values, n)
	binNames := make([]string, 0, len(counts))
	barData := make([]opts.BarData, 0, len(counts))
	for i, c := range counts {
		binNames = append(binNames, fmt.Sprintf("%.2f-%.2f", dividers[i], dividers[i+1]))
		barData = append(barData, opts.BarData{Value: c})
	}
	bar.SetXAxis(binNames).AddSeries("Frequency", barData)
	return bar
}

// Residuals generates an echart scatter plot of the fit residual against the predicted value
func Residuals(labels Labels, predicted, residual []float64) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: labels.Title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: labels.XLabel,
				Type: "value",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: labels.YLabel,
				Type: "value",
			},
		),
	)

	n := min(len(predicted), len(residual))
	data := make([]opts.ScatterData, 0, n)
	for i := 0; i < n; i++ {
		data = append(data, opts.ScatterData{Value: []float64{predicted[i], residual[i]}})
	}
	scatter.AddSeries(
		"Residual",
		data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}),
	)
	return scatter
}
