package linearmodel

import (
	"fmt"
	"math"
)

const (
	DefaultRangeLo = 0.0
	DefaultRangeHi = 10.0
)

// Range bounds predictions to [Lo, Hi]
type Range struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// DefaultRange returns the [0, 10] scale used for grades and energy levels
func DefaultRange() Range {
	return Range{Lo: DefaultRangeLo, Hi: DefaultRangeHi}
}

// Validate checks that the bounds are ordered numbers
func (r Range) Validate() error {
	if math.IsNaN(r.Lo) || math.IsNaN(r.Hi) {
		return fmt.Errorf("range bounds must be numbers, %w", ErrInvalidRange)
	}
	if r.Lo > r.Hi {
		return fmt.Errorf("lower bound %.3f is greater than upper bound %.3f, %w", r.Lo, r.Hi, ErrInvalidRange)
	}
	return nil
}

// Clamp maps values below Lo to Lo and above Hi to Hi. NaN maps to Lo.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < r.Lo {
		return r.Lo
	}
	if v > r.Hi {
		return r.Hi
	}
	return v
}

// Contains reports whether v lies within the inclusive bounds
func (r Range) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// Predictor applies a fitted line and bounds the result to a valid output range
type Predictor struct {
	Model LinearModel
	Range Range
}

// NewPredictor returns a predictor for the model. The default range is used if rng is nil.
func NewPredictor(model LinearModel, rng *Range) (*Predictor, error) {
	r := DefaultRange()
	if rng != nil {
		r = *rng
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{
		Model: model,
		Range: r,
	}, nil
}

// Predict returns the clamped model value at x
func (p *Predictor) Predict(x float64) float64 {
	return p.Range.Clamp(p.Model.Predict(x))
}

// Clamped returns the clamped prediction along with whether the raw value fell outside the range
func (p *Predictor) Clamped(x float64) (float64, bool) {
	raw := p.Model.Predict(x)
	return p.Range.Clamp(raw), !p.Range.Contains(raw)
}
