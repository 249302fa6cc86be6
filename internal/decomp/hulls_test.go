package decomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshforge/convdec/internal/scene"
)

func TestHullNaming(t *testing.T) {
	assert.Equal(t, "UCX_Cube_", HullPrefix("Cube"))
	assert.Equal(t, "UCX_Cube_12", HullName("Cube", 12))
}

func hostWithHulls(t *testing.T, source string, hullCount int) (*scene.Scene, *scene.Object, []*scene.Object) {
	t.Helper()
	s := scene.New()
	src := scene.NewObject(source, triangle(source))
	s.Add(src)

	hulls := make([]*scene.Object, hullCount)
	for i := range hulls {
		name := HullName(source, i)
		hull := scene.NewObject(name, triangle(name))
		s.Add(hull)
		s.ReparentKeepTransform(hull, src)
		s.SetMaterial(hull, scene.Material{R: 1, Alpha: 0.1})
		hulls[i] = hull
	}
	s.SetSelection([]*scene.Object{src})
	s.SetActiveObject(src)
	return s, src, hulls
}

func TestRemoveStaleHullsOwnershipByPrefix(t *testing.T) {
	s, _, _ := hostWithHulls(t, "Cube", 2)
	bystander := scene.NewObject("UCX_CubeExtra_0", triangle("UCX_CubeExtra_0"))
	s.Add(bystander)

	removed := RemoveStaleHulls(s, "Cube")
	assert.ElementsMatch(t, []string{"UCX_Cube_0", "UCX_Cube_1"}, removed)
	assert.NotNil(t, s.Lookup("UCX_CubeExtra_0"))
}

func TestClearRemovesHullsOfSelection(t *testing.T) {
	s, src, _ := hostWithHulls(t, "Cube", 3)

	Clear(s)

	for _, o := range s.Objects() {
		assert.Equal(t, "Cube", o.Name)
	}
	sel := s.SelectedObjects()
	require.Len(t, sel, 1)
	assert.Same(t, src, sel[0])
}

func TestSelectHullChildren(t *testing.T) {
	s, src, hulls := hostWithHulls(t, "Cube", 2)
	// A non-hull child must not join the selection.
	other := scene.NewObject("Handle", triangle("Handle"))
	s.Add(other)
	s.ReparentKeepTransform(other, src)

	SelectHullChildren(s)

	sel := s.SelectedObjects()
	require.Len(t, sel, 3)
	assert.Same(t, src, sel[0])
	assert.Same(t, hulls[0], sel[1])
	assert.Same(t, hulls[1], sel[2])
}

func TestSetHullAlpha(t *testing.T) {
	s, _, hulls := hostWithHulls(t, "Cube", 2)

	SetHullAlpha(s, 25)
	for _, hull := range hulls {
		require.NotNil(t, hull.Material)
		assert.InDelta(t, 0.75, hull.Material.Alpha, 1e-9)
	}

	// Outside object mode the operation is a no-op.
	s.SetMode(scene.EditMode)
	SetHullAlpha(s, 100)
	for _, hull := range hulls {
		assert.InDelta(t, 0.75, hull.Material.Alpha, 1e-9)
	}
}

func TestSelectionGuardRestoresOnRelease(t *testing.T) {
	s, src, hulls := hostWithHulls(t, "Cube", 1)

	func() {
		guard := NewSelectionGuard(s, true)
		defer guard.Release()

		assert.Empty(t, s.SelectedObjects())
		s.SetSelection([]*scene.Object{hulls[0]})
		s.SetActiveObject(hulls[0])
	}()

	sel := s.SelectedObjects()
	require.Len(t, sel, 1)
	assert.Same(t, src, sel[0])
	assert.Same(t, src, s.ActiveObject())
}

func TestSelectionGuardDropsRemovedObjects(t *testing.T) {
	s, src, hulls := hostWithHulls(t, "Cube", 1)
	s.SetSelection([]*scene.Object{src, hulls[0]})
	s.SetActiveObject(hulls[0])

	guard := NewSelectionGuard(s, false)
	s.Remove(hulls[0])
	guard.Release()

	sel := s.SelectedObjects()
	require.Len(t, sel, 1)
	assert.Same(t, src, sel[0])
	assert.Nil(t, s.ActiveObject())
}
