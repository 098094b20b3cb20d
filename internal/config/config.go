// Package config holds the caller-supplied detection parameters. The JSON
// schema uses pointer-typed optional fields so a partial config file only
// overrides what it names; Get* accessors supply the defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for a detection run.
type Config struct {
	SampleRateHz      *float64 `json:"sample_rate_hz,omitempty"`
	FilterOrder       *int     `json:"filter_order,omitempty"`
	PositionCutoffHz  *float64 `json:"position_cutoff_hz,omitempty"`
	ThresholdCutoffHz *float64 `json:"threshold_cutoff_hz,omitempty"`
	ShoulderRatio     *float64 `json:"shoulder_ratio,omitempty"`
	MaxAllowedGap     *int     `json:"max_allowed_gap,omitempty"`
	TooFast           *int     `json:"too_fast,omitempty"`
	TooSlow           *int     `json:"too_slow,omitempty"`
}

// Default returns a Config with all fields unset, so every accessor yields
// its default.
func Default() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. Fields omitted from the file retain
// their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that any values present are usable.
func (c *Config) Validate() error {
	if c.SampleRateHz != nil && *c.SampleRateHz <= 0 {
		return fmt.Errorf("sample_rate_hz must be positive, got %f", *c.SampleRateHz)
	}
	if c.FilterOrder != nil && *c.FilterOrder < 1 {
		return fmt.Errorf("filter_order must be >= 1, got %d", *c.FilterOrder)
	}
	if c.PositionCutoffHz != nil && *c.PositionCutoffHz <= 0 {
		return fmt.Errorf("position_cutoff_hz must be positive, got %f", *c.PositionCutoffHz)
	}
	if c.ThresholdCutoffHz != nil && *c.ThresholdCutoffHz <= 0 {
		return fmt.Errorf("threshold_cutoff_hz must be positive, got %f", *c.ThresholdCutoffHz)
	}
	if c.ShoulderRatio != nil {
		if *c.ShoulderRatio <= 0 || *c.ShoulderRatio > 1 {
			return fmt.Errorf("shoulder_ratio must be in (0, 1], got %f", *c.ShoulderRatio)
		}
	}
	if c.MaxAllowedGap != nil && *c.MaxAllowedGap < 1 {
		return fmt.Errorf("max_allowed_gap must be >= 1, got %d", *c.MaxAllowedGap)
	}
	if c.TooFast != nil && *c.TooFast < 0 {
		return fmt.Errorf("too_fast must be non-negative, got %d", *c.TooFast)
	}
	if c.TooSlow != nil && *c.TooSlow < 1 {
		return fmt.Errorf("too_slow must be >= 1, got %d", *c.TooSlow)
	}
	if c.TooFast != nil && c.TooSlow != nil && *c.TooFast >= *c.TooSlow {
		return fmt.Errorf("too_fast (%d) must be less than too_slow (%d)", *c.TooFast, *c.TooSlow)
	}
	return nil
}

// GetSampleRateHz returns the nominal camera sample rate or the default.
func (c *Config) GetSampleRateHz() float64 {
	if c.SampleRateHz == nil {
		return 30.0 // default
	}
	return *c.SampleRateHz
}

// GetFilterOrder returns the low-pass filter order or the default.
func (c *Config) GetFilterOrder() int {
	if c.FilterOrder == nil {
		return 2 // default
	}
	return *c.FilterOrder
}

// GetPositionCutoffHz returns the position-smoothing cutoff or the default.
func (c *Config) GetPositionCutoffHz() float64 {
	if c.PositionCutoffHz == nil {
		return 2.0 // default
	}
	return *c.PositionCutoffHz
}

// GetThresholdCutoffHz returns the threshold-trace cutoff or the default.
func (c *Config) GetThresholdCutoffHz() float64 {
	if c.ThresholdCutoffHz == nil {
		return 0.25 // default
	}
	return *c.ThresholdCutoffHz
}

// GetShoulderRatio returns the reversal-acceptance scale factor or the default.
func (c *Config) GetShoulderRatio() float64 {
	if c.ShoulderRatio == nil {
		return 0.3 // default
	}
	return *c.ShoulderRatio
}

// GetMaxAllowedGap returns, in samples, the longest tolerated missing run
// inside a segment, or the default.
func (c *Config) GetMaxAllowedGap() int {
	if c.MaxAllowedGap == nil {
		return 10 // default
	}
	return *c.MaxAllowedGap
}

// GetTooFast returns the lower duration bound in samples or the default.
func (c *Config) GetTooFast() int {
	if c.TooFast == nil {
		return 10 // default, a third of a second at 30 Hz
	}
	return *c.TooFast
}

// GetTooSlow returns the upper duration bound in samples or the default.
func (c *Config) GetTooSlow() int {
	if c.TooSlow == nil {
		return 900 // default, thirty seconds at 30 Hz
	}
	return *c.TooSlow
}
