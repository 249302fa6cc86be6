package config

import (
	"flag"

	"github.com/meshforge/convdec/internal/solver"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagSolver      = flag.String("solver", "", "Solver backend (VHACD or CoACD)")
	flagVHACDBinary = flag.String("vhacd-binary", "", "Path to the VHACD binary")
	flagCoACDBinary = flag.String("coacd-binary", "", "Path to the CoACD binary")
	flagAlpha       = flag.Int("alpha", -1, "Hull transparency in percent (0-100)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSolver != "" {
		cfg.Solver.Backend = solver.Backend(*flagSolver)
	}
	if *flagVHACDBinary != "" {
		cfg.Solver.VHACDBinary = *flagVHACDBinary
	}
	if *flagCoACDBinary != "" {
		cfg.Solver.CoACDBinary = *flagCoACDBinary
	}
	if *flagAlpha >= 0 {
		cfg.Hulls.Alpha = *flagAlpha
	}
}
