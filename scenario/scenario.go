// Package scenario provides the example datasets, seeded sample generators and prediction advice
// for the study hours and sleep hours demonstrations.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/pointset"
)

var (
	ErrUnknownScenario   = errors.New("unknown scenario")
	ErrInputOutOfRange   = errors.New("input is outside of the accepted range")
	ErrInvalidSampleSize = errors.New("sample size must be positive")
)

// Scenario describes one demonstration: what x and y mean, the fixed example table, how
// synthetic samples are generated and what to tell the user about a prediction.
type Scenario struct {
	Name   string
	XLabel string
	YLabel string

	// Input bounds the x values a user may ask a prediction for
	Input linearmodel.Range
	// MinSamples and MaxSamples bound the random sample size drawn by GenerateRandomSize.
	// MaxSamples is exclusive.
	MinSamples int
	MaxSamples int

	table    []pointset.Observation
	generate func(rng *rand.Rand, n int) *pointset.PointSet
	advice   func(x, y float64) []string
}

// Example returns a fresh copy of the fixed example table
func (s *Scenario) Example() *pointset.PointSet {
	return pointset.FromObservations(s.table)
}

// Generate returns n synthetic observations. The same seed always yields the same sample.
func (s *Scenario) Generate(n int, seed uint64) (*pointset.PointSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("got %d, %w", n, ErrInvalidSampleSize)
	}
	return s.generate(pointset.NewRand(seed), n), nil
}

// GenerateRandomSize draws the sample size from [MinSamples, MaxSamples) before generating the
// sample from the same seeded source.
func (s *Scenario) GenerateRandomSize(seed uint64) *pointset.PointSet {
	rng := pointset.NewRand(seed)
	n := s.MinSamples
	if s.MaxSamples > s.MinSamples {
		n += rng.IntN(s.MaxSamples - s.MinSamples)
	}
	return s.generate(rng, n)
}

// ValidateInput checks a user supplied x value before predicting
func (s *Scenario) ValidateInput(x float64) error {
	if math.IsNaN(x) || !s.Input.Contains(x) {
		return fmt.Errorf("%s must be between %g and %g, %w", s.XLabel, s.Input.Lo, s.Input.Hi, ErrInputOutOfRange)
	}
	return nil
}

// Advice returns human readable recommendations for a prediction y made at x
func (s *Scenario) Advice(x, y float64) []string {
	if s.advice == nil {
		return nil
	}
	return s.advice(x, y)
}

// linearSample draws x uniformly, evaluates y = slope*x + intercept + hinge + noise and clips y
// to the [0, 10] scale.
func linearSample(lo, hi, slope, intercept, knot, knotSlope, noise float64) func(*rand.Rand, int) *pointset.PointSet {
	return func(rng *rand.Rand, n int) *pointset.PointSet {
		x := pointset.GenerateUniform(rng, n, lo, hi)
		y := pointset.GenerateLine(x, slope, intercept)
		if knotSlope != 0 {
			y.Add(pointset.GenerateHinge(x, knot, knotSlope))
		}
		y.Add(pointset.GenerateNoise(rng, n, 0.0, noise)).
			Clip(linearmodel.DefaultRangeLo, linearmodel.DefaultRangeHi)

		ps, _ := pointset.New(x, y)
		return ps
	}
}

var (
	// Study relates hours of study to an exam grade
	Study = &Scenario{
		Name:       "study",
		XLabel:     "Study Hours",
		YLabel:     "Grade",
		Input:      linearmodel.Range{Lo: 0, Hi: math.Inf(1)},
		MinSamples: 20,
		MaxSamples: 20,
		table: []pointset.Observation{
			{X: 1, Y: 2.0},
			{X: 2, Y: 4.0},
			{X: 3, Y: 5.0},
			{X: 4, Y: 4.5},
			{X: 5, Y: 6.0},
		},
		generate: linearSample(0.5, 8.0, 0.8, 1.5, 0, 0, 0.5),
		advice:   studyAdvice,
	}

	// Sleep relates hours of sleep to a daily energy level. Energy drops slightly past 9 hours.
	Sleep = &Scenario{
		Name:       "sleep",
		XLabel:     "Sleep Hours",
		YLabel:     "Daily Energy",
		Input:      linearmodel.Range{Lo: 0, Hi: 24},
		MinSamples: 30,
		MaxSamples: 30,
		table: []pointset.Observation{
			{X: 5, Y: 3.0},
			{X: 6, Y: 4.5},
			{X: 7, Y: 6.0},
			{X: 8, Y: 7.5},
			{X: 9, Y: 8.0},
			{X: 10, Y: 7.0},
		},
		generate: linearSample(4.0, 12.0, 0.8, 1.0, 9.0, -0.3, 0.8),
		advice:   sleepAdvice,
	}

	// Interactive is the point editing playground. It shares the study table with noisier samples.
	Interactive = &Scenario{
		Name:       "interactive",
		XLabel:     "Study Hours",
		YLabel:     "Grade",
		Input:      linearmodel.DefaultRange(),
		MinSamples: 8,
		MaxSamples: 15,
		table:      Study.table,
		generate:   linearSample(1.0, 8.0, 0.8, 1.5, 0, 0, 0.8),
		advice:     studyAdvice,
	}

	registry = map[string]*Scenario{
		Study.Name:       Study,
		Sleep.Name:       Sleep,
		Interactive.Name: Interactive,
	}
)

// Lookup returns the scenario registered under name
func Lookup(name string) (*Scenario, error) {
	s, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownScenario)
	}
	return s, nil
}

// Names returns all registered scenario names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func studyAdvice(_, grade float64) []string {
	switch {
	case grade >= 7:
		return []string{"Excellent! With those hours you should get a good grade."}
	case grade >= 5:
		return []string{"You could pass with those hours, but consider studying more."}
	default:
		return []string{"You may struggle with those hours. Studying more is recommended."}
	}
}

func sleepAdvice(hours, energy float64) []string {
	advice := make([]string, 0, 2)
	switch {
	case hours < 6:
		advice = append(advice, "Little sleep detected. Sleeping more should improve your energy.")
	case hours > 10:
		advice = append(advice, "Many hours of sleep. You might feel drowsy during the day.")
	default:
		advice = append(advice, "Healthy amount of sleep. Keep up the routine!")
	}

	switch {
	case energy >= 7:
		advice = append(advice, "Excellent energy level. Expect a productive day.")
	case energy >= 5:
		advice = append(advice, "Moderate energy. Consider a short nap if needed.")
	default:
		advice = append(advice, "Low energy. Prioritize rest and hydration.")
	}
	return advice
}
