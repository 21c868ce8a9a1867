// Package experiment measures how the fitted line reacts to the amount and quality of the
// training data.
package experiment

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/plot"
	"github.com/aouyang1/go-linfit/pointset"
	"github.com/aouyang1/go-linfit/scenario"
)

// DefaultSampleSizes are the sample sizes swept when none are configured
var DefaultSampleSizes = []int{5, 10, 20, 50, 100}

const (
	RandomSamples = 20
	RandomXLo     = 0.5
	RandomXHi     = 8.0
	RandomYLo     = 2.0
	RandomYHi     = 8.0
)

// Row is the outcome of a single fit
type Row struct {
	N         int     `json:"n"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r_squared"`
}

func fitRow(ps *pointset.PointSet, method linearmodel.Method) (Row, linearmodel.LinearModel, error) {
	line, err := linearmodel.Fit(ps, method)
	if err != nil {
		return Row{}, linearmodel.LinearModel{}, err
	}
	r2, err := linearmodel.Score(ps, line, method)
	if err != nil {
		return Row{}, linearmodel.LinearModel{}, err
	}
	return Row{
		N:         ps.Len(),
		Slope:     line.Slope,
		Intercept: line.Intercept,
		R2:        r2,
	}, line, nil
}

// SampleSizeResults is a sweep over sample sizes
type SampleSizeResults struct {
	Scenario string
	Method   linearmodel.Method
	Rows     []Row
}

// SampleSizes fits a freshly seeded sample of the scenario for every size. Every size restarts
// the random source from seed so smaller samples are prefixes of larger ones in x.
func SampleSizes(sizes []int, seed uint64, sc *scenario.Scenario, method linearmodel.Method) (*SampleSizeResults, error) {
	if sc == nil {
		return nil, scenario.ErrUnknownScenario
	}
	res := &SampleSizeResults{
		Scenario: sc.Name,
		Method:   method,
		Rows:     make([]Row, 0, len(sizes)),
	}
	for _, n := range sizes {
		if n < linearmodel.MinObservations {
			return nil, fmt.Errorf("sample size %d, %w", n, linearmodel.ErrInvalidInput)
		}
		ps, err := sc.Generate(n, seed)
		if err != nil {
			return nil, fmt.Errorf("unable to generate %d samples, %w", n, err)
		}
		row, _, err := fitRow(ps, method)
		if err != nil {
			return nil, fmt.Errorf("unable to fit %d samples, %w", n, err)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// TablePrint writes one line per sample size
func (s *SampleSizeResults) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%sSample Sizes (%s, %s):\n", prefix, s.Scenario, s.Method); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sN\tSlope\tIntercept\tR2\t\n", prefix, indent); err != nil {
		return err
	}
	for _, r := range s.Rows {
		if _, err := fmt.Fprintf(tbl, "%s%s%d\t%.3f\t%.3f\t%.4f\t\n",
			prefix, indent, r.N, r.Slope, r.Intercept, r.R2); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

// Plot renders how R2 and the slope evolve with the sample size
func (s *SampleSizeResults) Plot(w io.Writer) error {
	sizes := make([]string, 0, len(s.Rows))
	r2 := make([]float64, 0, len(s.Rows))
	slope := make([]float64, 0, len(s.Rows))
	for _, r := range s.Rows {
		sizes = append(sizes, strconv.Itoa(r.N))
		r2 = append(r2, r.R2)
		slope = append(slope, r.Slope)
	}
	return plot.Render(
		w,
		plot.LineSeries(
			plot.Labels{Title: "R2 vs Sample Size", XLabel: "Sample Size", YLabel: "R2"},
			[]string{"R2"}, sizes, [][]float64{r2},
		),
		plot.LineSeries(
			plot.Labels{Title: "Slope vs Sample Size", XLabel: "Sample Size", YLabel: "Slope"},
			[]string{"Slope"}, sizes, [][]float64{slope},
		),
	)
}

// Fit is a labeled dataset with the line fitted through it
type Fit struct {
	Name string
	Data *pointset.PointSet
	Line linearmodel.LinearModel
	Row  Row
}

// Comparison holds the fit of the example table next to a fit of structureless data
type Comparison struct {
	Scenario string
	Method   linearmodel.Method
	Example  Fit
	Random   Fit
}

// RandomData draws x and y independently so no linear relation is expected
func RandomData(seed uint64) *pointset.PointSet {
	rng := pointset.NewRand(seed)
	x := pointset.GenerateUniform(rng, RandomSamples, RandomXLo, RandomXHi)
	y := pointset.GenerateUniform(rng, RandomSamples, RandomYLo, RandomYHi)
	ps, _ := pointset.New(x, y)
	return ps
}

func newFit(name string, ps *pointset.PointSet, method linearmodel.Method) (Fit, error) {
	row, line, err := fitRow(ps, method)
	if err != nil {
		return Fit{}, fmt.Errorf("unable to fit %s, %w", name, err)
	}
	return Fit{Name: name, Data: ps, Line: line, Row: row}, nil
}

// Compare fits the study example table and a random dataset with the same method
func Compare(seed uint64, method linearmodel.Method) (*Comparison, error) {
	example, err := newFit("Example Data", scenario.Study.Example(), method)
	if err != nil {
		return nil, err
	}
	random, err := newFit("Random Data", RandomData(seed), method)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Scenario: scenario.Study.Name,
		Method:   method,
		Example:  example,
		Random:   random,
	}, nil
}

// TablePrint writes the equation, R2 and size of both fits
func (c *Comparison) TablePrint(w io.Writer, prefix, indent string) error {
	for _, f := range []Fit{c.Example, c.Random} {
		if _, err := fmt.Fprintf(w, "%s%s:\n", prefix, f.Name); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sEquation: %s\n", prefix, indent, f.Line.Equation()); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sR2: %.4f\n", prefix, indent, f.Row.R2); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sSamples: %d\n", prefix, indent, f.Row.N); err != nil {
			return err
		}
	}
	return nil
}

// Plot renders both fits side by side on one page
func (c *Comparison) Plot(w io.Writer) error {
	xLabel, yLabel := scenario.Study.XLabel, scenario.Study.YLabel
	return plot.Render(
		w,
		plot.ScatterFit(plot.Labels{Title: "Model with " + c.Example.Name, XLabel: xLabel, YLabel: yLabel},
			c.Example.Data, c.Example.Line, nil),
		plot.ScatterFit(plot.Labels{Title: "Model with " + c.Random.Name, XLabel: xLabel, YLabel: yLabel},
			c.Random.Data, c.Random.Line, nil),
	)
}
