package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meshforge/convdec/pkg/math"
	"github.com/meshforge/convdec/pkg/obj"
)

func triangle(name string) obj.Mesh {
	return obj.Mesh{
		Name:     name,
		Vertices: []obj.Vertex{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Faces:    []obj.Face{{1, 2, 3}},
	}
}

func TestAddUniqueNames(t *testing.T) {
	s := New()
	s.Add(NewObject("Cube", triangle("Cube")))
	second := NewObject("Cube", triangle("Cube"))
	got := s.Add(second)
	if got != "Cube.001" {
		t.Errorf("expected suffixed name Cube.001, got %q", got)
	}
	if s.Lookup("Cube.001") != second {
		t.Error("lookup by suffixed name failed")
	}
}

func TestRemoveByPrefix(t *testing.T) {
	s := New()
	for _, name := range []string{"UCX_Cube_0", "UCX_Cube_1", "UCX_CubeExtra_0", "Cube"} {
		s.Add(NewObject(name, triangle(name)))
	}

	removed := s.RemoveByPrefix("UCX_Cube_")
	if len(removed) != 2 {
		t.Fatalf("expected 2 removals, got %v", removed)
	}
	if s.Lookup("UCX_CubeExtra_0") == nil {
		t.Error("UCX_CubeExtra_0 must survive removal for prefix UCX_Cube_")
	}
	if s.Lookup("Cube") == nil {
		t.Error("Cube must survive removal")
	}
}

func TestRemoveDeselectsAndUnparents(t *testing.T) {
	s := New()
	parent := NewObject("Parent", triangle("Parent"))
	parent.Local = math.Translate(5, 0, 0)
	child := NewObject("Child", triangle("Child"))
	s.Add(parent)
	s.Add(child)
	s.ReparentKeepTransform(child, parent)
	s.SetSelection([]*Object{parent})
	s.SetActiveObject(parent)

	before := child.WorldVertices()
	s.Remove(parent)

	if len(s.SelectedObjects()) != 0 {
		t.Error("removed object should leave the selection")
	}
	if s.ActiveObject() != nil {
		t.Error("removed object should no longer be active")
	}
	if child.Parent() != nil {
		t.Error("child should be unparented when its parent is removed")
	}
	after := child.WorldVertices()
	for i := range before {
		if before[i].Distance(after[i]) > 1e-9 {
			t.Fatalf("vertex %d moved from %v to %v when parent was removed", i, before[i], after[i])
		}
	}
}

func TestReparentKeepsWorldPositions(t *testing.T) {
	s := New()
	parent := NewObject("Parent", triangle("Parent"))
	parent.Local = math.Translate(3, -1, 2).Mul(math.RotateZ(0.5))
	child := NewObject("Child", triangle("Child"))
	child.Local = math.Translate(-2, 4, 1)
	s.Add(parent)
	s.Add(child)

	before := child.WorldVertices()
	s.ReparentKeepTransform(child, parent)
	after := child.WorldVertices()

	if child.Parent() != parent {
		t.Fatal("child not parented")
	}
	for i := range before {
		if before[i].Distance(after[i]) > 1e-9 {
			t.Fatalf("vertex %d moved from %v to %v during reparent", i, before[i], after[i])
		}
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hulls.obj")
	data := []byte(`o hull0
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
o hull1
v 0 0 1
v 1 0 1
v 0 1 1
f 4 5 6
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	s := New()
	existing := NewObject("Keep", triangle("Keep"))
	s.Add(existing)
	s.SetSelection([]*Object{existing})

	added, err := s.ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 imported objects, got %d", len(added))
	}
	if added[0].Name != "hull0" || added[1].Name != "hull1" {
		t.Errorf("unexpected imported names %q, %q", added[0].Name, added[1].Name)
	}

	sel := s.SelectedObjects()
	if len(sel) != 2 || sel[0] != added[0] || sel[1] != added[1] {
		t.Error("import should select exactly the new objects")
	}
	if added[0].Collection != DefaultCollection {
		t.Errorf("imported object in collection %q, want %q", added[0].Collection, DefaultCollection)
	}
}

func TestImportFileRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.obj")
	if err := os.WriteFile(path, []byte("o m\nv 0 0 0\nvt 0 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New()
	if _, err := s.ImportFile(path); err == nil {
		t.Error("expected error importing malformed file")
	}
	if len(s.Objects()) != 0 {
		t.Error("failed import must not leave objects behind")
	}
}

func TestWorldMeshAppliesTransform(t *testing.T) {
	o := NewObject("Cube", triangle("Cube"))
	o.Local = math.Translate(10, 0, 0)

	mesh := o.WorldMesh()
	if mesh.Vertices[0].X != 10 {
		t.Errorf("expected translated vertex x=10, got %v", mesh.Vertices[0])
	}
	// The snapshot is a copy; mutating it must not touch the object.
	mesh.Vertices[0].X = 99
	if o.Mesh.Vertices[0].X == 99 {
		t.Error("WorldMesh must return a copy")
	}
}

func TestMoveToCollection(t *testing.T) {
	s := New()
	o := NewObject("Hull", triangle("Hull"))
	s.Add(o)
	s.MoveToCollection(o, "convex hulls")

	if o.Collection != "convex hulls" {
		t.Errorf("object in collection %q, want %q", o.Collection, "convex hulls")
	}
	found := false
	for _, name := range s.Collections() {
		if name == "convex hulls" {
			found = true
		}
	}
	if !found {
		t.Error("collection was not created")
	}
}
