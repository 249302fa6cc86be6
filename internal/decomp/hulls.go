package decomp

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/meshforge/convdec/internal/logger"
	"github.com/meshforge/convdec/internal/scene"
)

// HullPrefix returns the name prefix that marks an object as a collision
// hull of the named source object. The trailing underscore is part of
// the ownership contract: "UCX_Cube_" must never match "UCX_CubeExtra_0".
func HullPrefix(sourceName string) string {
	return fmt.Sprintf("UCX_%s_", sourceName)
}

// HullName returns the final name of hull number index for a source.
// Unreal Engine and Godot recognise the UCX_ convention on import.
func HullName(sourceName string, index int) string {
	return fmt.Sprintf("%s%d", HullPrefix(sourceName), index)
}

// RemoveStaleHulls deletes the hull set of a previous run for the named
// source object. Name-prefix matching is the only ownership mechanism,
// so every object carrying the prefix goes.
func RemoveStaleHulls(host Host, sourceName string) []string {
	removed := host.RemoveByPrefix(HullPrefix(sourceName))
	if len(removed) > 0 {
		logger.Sugar.Infow("removed stale hulls", "source", sourceName, "hulls", removed)
	}
	return removed
}

// Clear removes the hull set of every selected object. The selection is
// restored afterwards, minus any hulls that were themselves selected.
func Clear(host Host) {
	guard := NewSelectionGuard(host, false)
	defer guard.Release()

	for _, o := range host.SelectedObjects() {
		RemoveStaleHulls(host, o.Name)
	}
}

// SelectHullChildren extends the selection with the collision hulls of
// each selected object.
func SelectHullChildren(host Host) {
	selected := host.SelectedObjects()
	for _, parent := range selected {
		prefix := HullPrefix(parent.Name)
		for _, child := range host.Children(parent) {
			if strings.HasPrefix(child.Name, prefix) {
				selected = append(selected, child)
			}
		}
	}
	host.SetSelection(selected)
}

// SetHullAlpha updates the transparency of every hull child of the
// selected objects. alpha is in percent; the stored material alpha is
// (100-alpha)/100, so 100 means invisible.
func SetHullAlpha(host Host, alpha int) {
	if host.Mode() != scene.ObjectMode {
		return
	}
	for _, parent := range host.SelectedObjects() {
		prefix := HullPrefix(parent.Name)
		for _, child := range host.Children(parent) {
			if !strings.HasPrefix(child.Name, prefix) || child.Material == nil {
				continue
			}
			mat := *child.Material
			mat.Alpha = float64(100-alpha) / 100.0
			host.SetMaterial(child, mat)
		}
	}
}

// randomHullMaterial picks a random colour with the configured
// transparency, purely for visual inspection of the hulls.
func randomHullMaterial(rng *rand.Rand, alpha int) scene.Material {
	return scene.Material{
		R:     rng.Float64(),
		G:     rng.Float64(),
		B:     rng.Float64(),
		Alpha: float64(100-alpha) / 100.0,
	}
}
