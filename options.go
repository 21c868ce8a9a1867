package linfit

import (
	"fmt"

	"github.com/aouyang1/go-linfit/linearmodel"
)

// Options configures how a Fitter estimates the line and bounds its predictions
type Options struct {
	Method linearmodel.Method `json:"method"`
	Range  linearmodel.Range  `json:"range"`
}

// NewDefaultOptions returns the closed form estimator with predictions bounded to [0, 10]
func NewDefaultOptions() *Options {
	return &Options{
		Method: linearmodel.MethodManual,
		Range:  linearmodel.DefaultRange(),
	}
}

// Validate runs basic validation on the options returning defaults if nil
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if _, err := o.Method.MarshalText(); err != nil {
		return nil, err
	}
	if err := o.Range.Validate(); err != nil {
		return nil, fmt.Errorf("unable to validate prediction range, %w", err)
	}
	return o, nil
}
