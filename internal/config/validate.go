package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFPCalc(); err != nil {
		return err
	}
	if err := c.validateIntro(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFPCalc() error {
	if c.FPCalc.MaxSeconds <= 0 {
		return errors.New("fpcalc.max_seconds must be positive")
	}
	if c.FPCalc.TimeoutSeconds < 0 {
		return errors.New("fpcalc.timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateIntro() error {
	q := c.Intro.QuantumSeconds
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return errors.New("intro.quantum_seconds must be a positive number")
	}
	maxElements := int(float64(c.FPCalc.MaxSeconds) / q)
	if len(c.Intro.Reference) > maxElements {
		return fmt.Errorf("intro.reference has %d elements but fpcalc.max_seconds only yields about %d", len(c.Intro.Reference), maxElements)
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Workers <= 0 {
		return errors.New("scan.workers must be positive")
	}
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	for component, level := range c.Logging.ComponentOverrides {
		if !validLevel(level) {
			return fmt.Errorf("logging.component_overrides.%s: unsupported level %q", component, level)
		}
	}
	if !validLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported level %q", c.Logging.Level)
	}
	return nil
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
