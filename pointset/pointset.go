// Package pointset holds the ordered (x, y) observations a linear fit is trained on
package pointset

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrDatasetLenMismatch = errors.New("x values have a different length than y values")
	ErrIndexOutOfRange    = errors.New("observation index out of range")
	ErrEmptyPointSet      = errors.New("no observations in point set")
)

// Observation is a single (x, y) pair. It has no identity beyond its position in a PointSet.
type Observation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointSet represents an ordered set of observations stored as parallel slices.
// Both slices must be of the same length.
type PointSet struct {
	X []float64
	Y []float64
}

// New returns a PointSet given an x and y slice. The input slices are copied.
func New(x, y []float64) (*PointSet, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf(
			"x has length of %d, but y has a length of %d, %w",
			len(x), len(y), ErrDatasetLenMismatch,
		)
	}

	xSeries := make([]float64, len(x))
	ySeries := make([]float64, len(y))
	copy(xSeries, x)
	copy(ySeries, y)
	return &PointSet{
		X: xSeries,
		Y: ySeries,
	}, nil
}

// FromObservations builds a PointSet preserving the order of the observations
func FromObservations(obs []Observation) *PointSet {
	ps := &PointSet{
		X: make([]float64, 0, len(obs)),
		Y: make([]float64, 0, len(obs)),
	}
	for _, o := range obs {
		ps.Add(o.X, o.Y)
	}
	return ps
}

// Len returns the number of observations
func (ps *PointSet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.X)
}

// XY returns the i-th observation as an x, y pair
func (ps *PointSet) XY(i int) (x, y float64) {
	return ps.X[i], ps.Y[i]
}

// At returns the i-th observation
func (ps *PointSet) At(i int) (Observation, error) {
	if i < 0 || i >= ps.Len() {
		return Observation{}, fmt.Errorf("index %d with %d observations, %w", i, ps.Len(), ErrIndexOutOfRange)
	}
	return Observation{X: ps.X[i], Y: ps.Y[i]}, nil
}

// Observations returns a copy of the points as a slice of pairs
func (ps *PointSet) Observations() []Observation {
	obs := make([]Observation, 0, ps.Len())
	for i := 0; i < ps.Len(); i++ {
		obs = append(obs, Observation{X: ps.X[i], Y: ps.Y[i]})
	}
	return obs
}

// Add appends a new observation to the end of the set
func (ps *PointSet) Add(x, y float64) {
	ps.X = append(ps.X, x)
	ps.Y = append(ps.Y, y)
}

// Move replaces the coordinates of the i-th observation
func (ps *PointSet) Move(i int, x, y float64) error {
	if i < 0 || i >= ps.Len() {
		return fmt.Errorf("unable to move %d with %d observations, %w", i, ps.Len(), ErrIndexOutOfRange)
	}
	ps.X[i] = x
	ps.Y[i] = y
	return nil
}

// Remove deletes the i-th observation keeping the order of the remaining ones
func (ps *PointSet) Remove(i int) error {
	if i < 0 || i >= ps.Len() {
		return fmt.Errorf("unable to remove %d with %d observations, %w", i, ps.Len(), ErrIndexOutOfRange)
	}
	ps.X = append(ps.X[:i], ps.X[i+1:]...)
	ps.Y = append(ps.Y[:i], ps.Y[i+1:]...)
	return nil
}

// Nearest returns the index of the observation closest to (x, y) within radius. Returns -1
// if no observation is close enough.
func (ps *PointSet) Nearest(x, y, radius float64) int {
	idx := -1
	best := math.Inf(1)
	for i := 0; i < ps.Len(); i++ {
		d := math.Hypot(ps.X[i]-x, ps.Y[i]-y)
		if d <= radius && d < best {
			best = d
			idx = i
		}
	}
	return idx
}

func (ps *PointSet) Copy() *PointSet {
	xSeries := make([]float64, ps.Len())
	ySeries := make([]float64, ps.Len())
	copy(xSeries, ps.X)
	copy(ySeries, ps.Y)
	return &PointSet{
		X: xSeries,
		Y: ySeries,
	}
}

// Axis summarizes the values along one dimension of a point set
type Axis struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func newAxis(v []float64) Axis {
	mean, std := stat.MeanStdDev(v, nil)
	if len(v) < 2 {
		std = 0
	}
	return Axis{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(v),
		Max:    floats.Max(v),
	}
}

// Summary captures descriptive statistics of a point set along with the observation having
// the largest y value.
type Summary struct {
	Count int         `json:"count"`
	X     Axis        `json:"x"`
	Y     Axis        `json:"y"`
	Best  Observation `json:"best"`
}

// Summarize computes the descriptive statistics of the point set. The standard deviation is the
// sample standard deviation.
func (ps *PointSet) Summarize() (Summary, error) {
	if ps.Len() == 0 {
		return Summary{}, ErrEmptyPointSet
	}
	bestIdx := floats.MaxIdx(ps.Y)
	return Summary{
		Count: ps.Len(),
		X:     newAxis(ps.X),
		Y:     newAxis(ps.Y),
		Best:  Observation{X: ps.X[bestIdx], Y: ps.Y[bestIdx]},
	}, nil
}
