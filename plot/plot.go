// Package plot renders fits and experiments as Apache Echarts html pages
package plot

import (
	"fmt"
	"io"
	"math"

	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/pointset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
)

const (
	// LinePoints is the number of points used to draw a regression line
	LinePoints = 100
	// LinePad extends the regression line past the outermost observations
	LinePad = 0.5
)

// Labels names the chart and its axes
type Labels struct {
	Title  string
	XLabel string
	YLabel string
}

// Marker highlights a single prediction on a fit chart
type Marker struct {
	X float64
	Y float64
}

// ScatterFit generates an echart scatter plot of the observations overlaid with the regression
// line. An optional marker highlights a prediction.
func ScatterFit(labels Labels, ps *pointset.PointSet, line linearmodel.LinearModel, marker *Marker) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    labels.Title,
				Subtitle: line.Equation(),
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

	pointData := make([]opts.ScatterData, 0, ps.Len())
	for i := 0; i < ps.Len(); i++ {
		x, y := ps.XY(i)
		pointData = append(pointData, opts.ScatterData{Value: []float64{x, y}})
	}
	scatter.AddSeries("Observations", pointData)

	if marker != nil {
		scatter.AddSeries(
			"Prediction",
			[]opts.ScatterData{{Value: []float64{marker.X, marker.Y}, SymbolSize: 20}},
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "green"}),
		)
	}

	xLine := LineSpan(ps)
	lineData := make([]opts.LineData, 0, len(xLine))
	for _, x := range xLine {
		lineData = append(lineData, opts.LineData{Value: []float64{x, line.Predict(x)}})
	}

	regression := charts.NewLine()
	regression.AddSeries(
		fmt.Sprintf("Regression %s", line.Equation()),
		lineData,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}),
	)
	scatter.Overlap(regression)
	return scatter
}

// LineSpan returns evenly spaced x values covering the observations padded on both ends
func LineSpan(ps *pointset.PointSet) []float64 {
	lo, hi := 0.0, 1.0
	if ps.Len() > 0 {
		lo = floats.Min(ps.X)
		hi = floats.Max(ps.X)
	}
	return floats.Span(make([]float64, LinePoints), lo-LinePad, hi+LinePad)
}

// LineSeries generates an echart multi-line chart for values sharing a categorical x axis. Each
// series in y must have the same length as x. NaN values are rendered as gaps.
func LineSeries(labels Labels, seriesName []string, x []string, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
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

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		lineData[i] = make([]opts.LineData, 0, len(y[i]))
		for j := 0; j < len(y[i]); j++ {
			if math.IsNaN(y[i][j]) {
				lineData[i] = append(lineData[i], opts.LineData{Value: "-"})
				continue
			}
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(x)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}
	return line
}

// Render writes every chart onto a single html page
func Render(w io.Writer, c ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(c...)
	return page.Render(w)
}
