// Package config handles pipeline configuration loading and management.
package config

import (
	"fmt"

	"github.com/meshforge/convdec/internal/solver"
)

// Config holds all pipeline settings.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Hulls   HullConfig    `yaml:"hulls"`
	Logging LoggingConfig `yaml:"logging"`
}

// SolverConfig selects the backend and holds per-backend binaries and
// tuning. Both parameter records are always present; only the one
// matching the selected backend is ever used.
type SolverConfig struct {
	Backend     solver.Backend     `yaml:"backend"`
	VHACDBinary string             `yaml:"vhacd_binary"`
	CoACDBinary string             `yaml:"coacd_binary"`
	VHACD       solver.VHACDParams `yaml:"vhacd"`
	CoACD       solver.CoACDParams `yaml:"coacd"`
}

// Binary returns the binary path for the selected backend.
func (c SolverConfig) Binary() string {
	if c.Backend == solver.CoACD {
		return c.CoACDBinary
	}
	return c.VHACDBinary
}

// HullConfig holds naming and display settings for generated hulls.
type HullConfig struct {
	// Collection is the scene collection that gathers all hulls.
	Collection string `yaml:"collection"`
	// TmpPrefix names hulls between import and their final rename.
	TmpPrefix string `yaml:"tmp_prefix"`
	// Alpha is the hull transparency in percent; 100 is invisible.
	Alpha int `yaml:"alpha"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Backend: solver.VHACD,
			VHACD:   solver.DefaultVHACDParams(),
			CoACD:   solver.DefaultCoACDParams(),
		},
		Hulls: HullConfig{
			Collection: "convex hulls",
			TmpPrefix:  "_tmphull_",
			Alpha:      90,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the configuration for values no run could succeed with.
func (c *Config) Validate() error {
	if !c.Solver.Backend.Valid() {
		return fmt.Errorf("config: unknown solver backend %q", c.Solver.Backend)
	}
	if err := c.Solver.VHACD.Validate(); err != nil {
		return err
	}
	if err := c.Solver.CoACD.Validate(); err != nil {
		return err
	}
	if c.Hulls.Alpha < 0 || c.Hulls.Alpha > 100 {
		return fmt.Errorf("config: hull alpha %d outside [0, 100]", c.Hulls.Alpha)
	}
	if c.Hulls.TmpPrefix == "" {
		return fmt.Errorf("config: temporary hull prefix must not be empty")
	}
	if c.Hulls.Collection == "" {
		return fmt.Errorf("config: hull collection name must not be empty")
	}
	return nil
}
