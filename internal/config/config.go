// Package config loads and validates the simulator's per-run
// configuration, grounded on the codefang loader's viper+mapstructure
// shape (internal/config/loader.go, pkg/config/config.go in the example
// pack) adapted to the §6 configuration table.
package config

import (
	"errors"
	"fmt"
)

// Sentinel validation errors, mirroring the pack's ErrInvalid* naming.
var (
	ErrInvalidMaximumSize = errors.New("maximum_size must be positive")
	ErrInvalidPercent     = errors.New("percent_main and percent_main_protected must be in (0,1)")
	ErrInvalidMaxLists    = errors.New("max_lists must be at least 1")
	ErrInvalidStrategy    = errors.New("strategy must be one of simple, adam, nadam")
	ErrInvalidSketch      = errors.New("sketch must be one of cm4, bloomfreq, perfect")
)

// Default configuration values (§6).
const (
	DefaultPercentMain          = 0.99
	DefaultPercentMainProtected = 0.80
	DefaultMaxLists             = 4
	DefaultK                    = 1.0
	DefaultPercentPivot         = 0.0625
	DefaultPercentSample        = 0.0625
	DefaultBeta1                = 0.9
	DefaultBeta2                = 0.999
	DefaultEpsilon              = 1e-8
	DefaultTolerance            = 0.05
	DefaultStepDecayRate        = 0.98
	DefaultSampleDecayRate      = 0.98
	DefaultRestartThreshold     = 0.5
	DefaultSketch                = "cm4"
)

// Config mirrors the §6 configuration table: immutable once constructed,
// passed to a policy at construction.
type Config struct {
	MaximumSize          uint64  `mapstructure:"maximum_size"`
	PercentMain          float64 `mapstructure:"percent_main"`
	PercentMainProtected float64 `mapstructure:"percent_main_protected"`
	K                    float64 `mapstructure:"k_values"`
	MaxLists             int     `mapstructure:"max_lists"`

	// Strategy selects the AdaptiveCA climber: simple, adam, or nadam.
	// Empty means "use WindowCA with no climber".
	Strategy string `mapstructure:"strategy"`
	Sketch   string `mapstructure:"sketch"`

	PercentPivot  float64 `mapstructure:"percent_pivot"`
	PercentSample float64 `mapstructure:"percent_sample"`

	Beta1   float64 `mapstructure:"beta1"`
	Beta2   float64 `mapstructure:"beta2"`
	Epsilon float64 `mapstructure:"epsilon"`

	Tolerance        float64 `mapstructure:"tolerance"`
	StepDecayRate    float64 `mapstructure:"step_decay_rate"`
	SampleDecayRate  float64 `mapstructure:"sample_decay_rate"`
	RestartThreshold float64 `mapstructure:"restart_threshold"`

	TraceFormat string `mapstructure:"trace_format"`
	TracePath   string `mapstructure:"trace_path"`
}

// Default returns a Config populated with the §6 defaults, so a run only
// needs to override what matters (maximum_size, trace source, strategy).
func Default() Config {
	return Config{
		PercentMain:          DefaultPercentMain,
		PercentMainProtected: DefaultPercentMainProtected,
		MaxLists:             DefaultMaxLists,
		K:                    DefaultK,
		Sketch:               DefaultSketch,
		PercentPivot:         DefaultPercentPivot,
		PercentSample:        DefaultPercentSample,
		Beta1:                DefaultBeta1,
		Beta2:                DefaultBeta2,
		Epsilon:              DefaultEpsilon,
		Tolerance:            DefaultTolerance,
		StepDecayRate:        DefaultStepDecayRate,
		SampleDecayRate:      DefaultSampleDecayRate,
		RestartThreshold:     DefaultRestartThreshold,
	}
}

// Validate checks the invariants the §6 table implies: positive sizes,
// fractional percentages, and a recognized strategy/sketch name.
func (c Config) Validate() error {
	if c.MaximumSize == 0 {
		return ErrInvalidMaximumSize
	}
	if c.PercentMain <= 0 || c.PercentMain >= 1 || c.PercentMainProtected <= 0 || c.PercentMainProtected >= 1 {
		return ErrInvalidPercent
	}
	if c.MaxLists < 1 {
		return ErrInvalidMaxLists
	}
	switch c.Strategy {
	case "", "simple", "adam", "nadam":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidStrategy, c.Strategy)
	}
	switch c.Sketch {
	case "", "cm4", "bloomfreq", "perfect":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidSketch, c.Sketch)
	}
	return nil
}
