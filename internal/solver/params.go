// Package solver builds and runs external convex decomposition commands.
// Two backends are supported, VHACD and CoACD. Each has its own parameter
// record and flag conventions; the two schemas never mix.
package solver

import "fmt"

// Backend selects the external decomposition program.
type Backend string

// Supported backends.
const (
	VHACD Backend = "VHACD"
	CoACD Backend = "CoACD"
)

// Valid reports whether b names a supported backend.
func (b Backend) Valid() bool {
	return b == VHACD || b == CoACD
}

func (b Backend) String() string {
	return string(b)
}

// FillMode is VHACD's voxel fill strategy.
type FillMode string

// VHACD fill modes.
const (
	FillFlood   FillMode = "flood"
	FillSurface FillMode = "surface"
	FillRaycast FillMode = "raycast"
)

// Valid reports whether m is a known fill mode.
func (m FillMode) Valid() bool {
	switch m {
	case FillFlood, FillSurface, FillRaycast:
		return true
	}
	return false
}

// VHACDParams mirrors the VHACD command line. Boolean options are passed
// as literal "true"/"false" values, which is VHACD's convention.
type VHACDParams struct {
	VoxelResolution   int      `yaml:"voxel_resolution"`
	MaxRecursionDepth int      `yaml:"max_recursion_depth"`
	MaxHullVertCount  int      `yaml:"max_hull_vert_count"`
	MinEdgeLength     int      `yaml:"min_edge_length"`
	VolumeErrorPct    float64  `yaml:"volume_error_percent"`
	Shrinkwrap        bool     `yaml:"shrinkwrap"`
	OptimalSplit      bool     `yaml:"optimal_split"`
	FillMode          FillMode `yaml:"fill_mode"`
}

// DefaultVHACDParams returns the stock VHACD tuning.
func DefaultVHACDParams() VHACDParams {
	return VHACDParams{
		VoxelResolution:   100000,
		MaxRecursionDepth: 10,
		MaxHullVertCount:  64,
		MinEdgeLength:     2,
		VolumeErrorPct:    10,
		Shrinkwrap:        true,
		OptimalSplit:      false,
		FillMode:          FillFlood,
	}
}

// Validate checks value ranges.
func (p VHACDParams) Validate() error {
	if p.VoxelResolution < 1 {
		return fmt.Errorf("solver: voxel resolution %d must be positive", p.VoxelResolution)
	}
	if p.MaxRecursionDepth < 1 {
		return fmt.Errorf("solver: max recursion depth %d must be positive", p.MaxRecursionDepth)
	}
	if p.MaxHullVertCount < 1 {
		return fmt.Errorf("solver: max hull vert count %d must be positive", p.MaxHullVertCount)
	}
	if p.MinEdgeLength < 1 {
		return fmt.Errorf("solver: min edge length %d must be positive", p.MinEdgeLength)
	}
	if !p.FillMode.Valid() {
		return fmt.Errorf("solver: unknown fill mode %q", p.FillMode)
	}
	return nil
}

// CoACDParams mirrors the CoACD command line. Boolean options are
// present/absent flags, which is CoACD's convention.
type CoACDParams struct {
	Threshold      float64 `yaml:"threshold"`
	K              float64 `yaml:"k"`
	MCTSIterations int     `yaml:"mcts_iterations"`
	MCTSDepth      int     `yaml:"mcts_depth"`
	MCTSNode       int     `yaml:"mcts_node"`
	PrepResolution int     `yaml:"prep_resolution"`
	Resolution     int     `yaml:"resolution"`
	PCA            bool    `yaml:"pca"`
	// Preprocess disabled means the input is already watertight.
	Preprocess bool `yaml:"preprocess"`
	Merge      bool `yaml:"merge"`
}

// DefaultCoACDParams returns the stock CoACD tuning.
func DefaultCoACDParams() CoACDParams {
	return CoACDParams{
		Threshold:      0.05,
		K:              0.3,
		MCTSIterations: 100,
		MCTSDepth:      3,
		MCTSNode:       20,
		PrepResolution: 10000,
		Resolution:     2000,
		PCA:            false,
		Preprocess:     false,
		Merge:          true,
	}
}

// Validate checks value ranges.
func (p CoACDParams) Validate() error {
	if p.Threshold <= 0 || p.Threshold > 1 {
		return fmt.Errorf("solver: concavity threshold %g outside (0, 1]", p.Threshold)
	}
	if p.K < 0 || p.K > 1 {
		return fmt.Errorf("solver: k value %g outside [0, 1]", p.K)
	}
	if p.MCTSIterations < 1 || p.MCTSDepth < 1 || p.MCTSNode < 1 {
		return fmt.Errorf("solver: MCTS limits must be positive")
	}
	if p.PrepResolution < 1 || p.Resolution < 1 {
		return fmt.Errorf("solver: resolutions must be positive")
	}
	return nil
}
