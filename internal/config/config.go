// Package config defines the command line configuration and how it is loaded.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/aouyang1/go-linfit/internal/logger"
	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/pointset"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

const (
	EnvPrefix     = "LINFIT_"
	EnvConfigPath = "LINFIT_CONFIG"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ModelDir is where fitted models are saved and loaded by name.
	ModelDir string `koanf:"model_dir"`

	// Method selects the estimator: manual, gonum or qr.
	Method string `koanf:"method"`

	// RangeLo and RangeHi bound every prediction.
	RangeLo float64 `koanf:"range_lo"`
	RangeHi float64 `koanf:"range_hi"`

	// Seed drives every synthetic sample.
	Seed uint64 `koanf:"seed"`

	// SampleSizes lists the sizes swept by the sample size experiment.
	SampleSizes []int `koanf:"sample_sizes"`

	// PlotDir is where html charts are written.
	PlotDir string `koanf:"plot_dir"`

	// MetricsAddr serves /metrics when set, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:    "info",
		ModelDir:    "models",
		Method:      linearmodel.MethodManual.String(),
		RangeLo:     linearmodel.DefaultRangeLo,
		RangeHi:     linearmodel.DefaultRangeHi,
		Seed:        pointset.DefaultSeed,
		SampleSizes: []int{5, 10, 20, 50, 100},
		PlotDir:     "plots",
	}
}

// Validate checks every field that has a constrained set of values
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level %q, %w", c.LogLevel, ErrInvalidConfig)
	}
	if _, err := c.ParsedMethod(); err != nil {
		return fmt.Errorf("method %q, %w", c.Method, errors.Join(ErrInvalidConfig, err))
	}
	if err := c.Range().Validate(); err != nil {
		return fmt.Errorf("range [%g, %g], %w", c.RangeLo, c.RangeHi, errors.Join(ErrInvalidConfig, err))
	}
	for _, n := range c.SampleSizes {
		if n < linearmodel.MinObservations {
			return fmt.Errorf("sample size %d below %d, %w", n, linearmodel.MinObservations, ErrInvalidConfig)
		}
	}
	return nil
}

// ParsedMethod returns the configured estimator
func (c *Config) ParsedMethod() (linearmodel.Method, error) {
	return linearmodel.ParseMethod(c.Method)
}

// Range returns the configured prediction bounds
func (c *Config) Range() linearmodel.Range {
	return linearmodel.Range{Lo: c.RangeLo, Hi: c.RangeHi}
}
