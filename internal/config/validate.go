package config

import (
	"fmt"
	"math"

	"github.com/rileyhilliard/hoststat/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if cfg.Samples < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Number of samples must be at least 1, got %d", cfg.Samples),
			"Pass a positive sample count: hoststat --samples 5, or hoststat 5")
	}
	if math.IsNaN(cfg.Delay) || math.IsInf(cfg.Delay, 0) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Delay between samples must be a finite number of seconds, got %g", cfg.Delay),
			"Pass --tdelay 0 or more (seconds)")
	}
	if cfg.Delay < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Delay between samples can't be negative, got %g", cfg.Delay),
			"Pass --tdelay 0 or more (seconds)")
	}
	if cfg.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Cycle timeout can't be negative, got %s", cfg.Timeout),
			"Use --timeout 0 to wait without a bound")
	}
	if cfg.ShutdownGrace < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Shutdown grace period can't be negative, got %s", cfg.ShutdownGrace),
			"Use a positive duration such as 2s")
	}
	return nil
}
