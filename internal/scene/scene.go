package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meshforge/convdec/pkg/math"
	"github.com/meshforge/convdec/pkg/obj"
)

// DefaultCollection is where imported objects land until they are moved.
const DefaultCollection = "Scene"

// Scene is an in-memory object table with selection state.
type Scene struct {
	mode        Mode
	objects     []*Object
	byName      map[string]*Object
	collections map[string]bool
	selected    []*Object
	active      *Object
}

// New returns an empty scene in object mode.
func New() *Scene {
	return &Scene{
		mode:        ObjectMode,
		byName:      make(map[string]*Object),
		collections: map[string]bool{DefaultCollection: true},
	}
}

// Mode returns the current interaction mode.
func (s *Scene) Mode() Mode {
	return s.mode
}

// SetMode switches the interaction mode.
func (s *Scene) SetMode(m Mode) {
	s.mode = m
}

// Objects returns all objects in scene order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// Lookup returns the object with the given name, or nil.
func (s *Scene) Lookup(name string) *Object {
	return s.byName[name]
}

// Add links a new object into the scene. The object's name is made
// unique with a numeric suffix if it collides, mirroring editor
// behaviour, and the final name is returned.
func (s *Scene) Add(o *Object) string {
	o.Name = s.uniqueName(o.Name)
	if o.Collection == "" {
		o.Collection = DefaultCollection
	}
	s.collections[o.Collection] = true
	s.objects = append(s.objects, o)
	s.byName[o.Name] = o
	return o.Name
}

func (s *Scene) uniqueName(name string) string {
	if name == "" {
		name = "Object"
	}
	if _, taken := s.byName[name]; !taken {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", name, i)
		if _, taken := s.byName[candidate]; !taken {
			return candidate
		}
	}
}

// Rename changes an object's name, keeping the name table consistent.
func (s *Scene) Rename(o *Object, name string) {
	if o.Name == name {
		return
	}
	delete(s.byName, o.Name)
	o.Name = s.uniqueName(name)
	s.byName[o.Name] = o
}

// Remove unlinks an object from the scene, its collection and the
// selection. Children of the removed object are unparented in place,
// keeping their world transform.
func (s *Scene) Remove(o *Object) {
	for _, child := range s.objects {
		if child.parent == o {
			child.Local = child.WorldMatrix()
			child.parent = nil
			child.ParentInverse = math.Identity()
		}
	}
	for i, obj := range s.objects {
		if obj == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
	delete(s.byName, o.Name)
	s.deselect(o)
	if s.active == o {
		s.active = nil
	}
}

// RemoveByPrefix removes every object whose name starts with prefix and
// returns the removed names in scene order.
func (s *Scene) RemoveByPrefix(prefix string) []string {
	var victims []*Object
	for _, o := range s.objects {
		if strings.HasPrefix(o.Name, prefix) {
			victims = append(victims, o)
		}
	}
	names := make([]string, 0, len(victims))
	for _, o := range victims {
		names = append(names, o.Name)
		s.Remove(o)
	}
	return names
}

// SelectedObjects returns the current selection in selection order.
func (s *Scene) SelectedObjects() []*Object {
	return append([]*Object(nil), s.selected...)
}

// SetSelection replaces the selection. Objects not in the scene are
// ignored.
func (s *Scene) SetSelection(objs []*Object) {
	s.selected = s.selected[:0]
	for _, o := range objs {
		if s.byName[o.Name] == o {
			s.selected = append(s.selected, o)
		}
	}
}

// Select adds an object to the selection if not already present.
func (s *Scene) Select(o *Object) {
	for _, cur := range s.selected {
		if cur == o {
			return
		}
	}
	s.selected = append(s.selected, o)
}

// DeselectAll clears the selection.
func (s *Scene) DeselectAll() {
	s.selected = s.selected[:0]
}

func (s *Scene) deselect(o *Object) {
	for i, cur := range s.selected {
		if cur == o {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
}

// ActiveObject returns the active object, or nil.
func (s *Scene) ActiveObject() *Object {
	return s.active
}

// SetActiveObject changes the active object. An object that is not in
// the scene clears the active object instead.
func (s *Scene) SetActiveObject(o *Object) {
	if o != nil && s.byName[o.Name] != o {
		s.active = nil
		return
	}
	s.active = o
}

// UpsertCollection creates the named collection if it does not exist.
func (s *Scene) UpsertCollection(name string) {
	s.collections[name] = true
}

// Collections returns all collection names, sorted.
func (s *Scene) Collections() []string {
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MoveToCollection unlinks the object from its current collection and
// links it to the named one, creating the collection if needed.
func (s *Scene) MoveToCollection(o *Object, name string) {
	s.collections[name] = true
	o.Collection = name
}

// Children returns the direct children of parent in scene order.
func (s *Scene) Children(parent *Object) []*Object {
	var out []*Object
	for _, o := range s.objects {
		if o.parent == parent {
			out = append(out, o)
		}
	}
	return out
}

// ReparentKeepTransform parents child to parent without moving it: the
// parent's current world transform is inverted and stored on the child,
// so the visual position is unchanged.
func (s *Scene) ReparentKeepTransform(child, parent *Object) {
	child.parent = parent
	child.ParentInverse = parent.WorldMatrix().Inverse()
}

// SetMaterial assigns a display material to the object.
func (s *Scene) SetMaterial(o *Object, m Material) {
	o.Material = &m
}

// ImportFile parses an interchange file and adds each segment as a new
// object with an identity transform. The new objects become the
// selection, mirroring editor import behaviour, and are returned in
// file order.
func (s *Scene) ImportFile(path string) ([]*Object, error) {
	doc, err := obj.ParseFile(path)
	if err != nil {
		return nil, err
	}
	added := make([]*Object, 0, len(doc.Segments))
	for i := range doc.Segments {
		mesh, err := doc.SegmentMesh(i)
		if err != nil {
			// Reject the whole file; a partial import would leave
			// orphaned objects behind.
			for _, o := range added {
				s.Remove(o)
			}
			return nil, err
		}
		o := NewObject(mesh.Name, mesh)
		s.Add(o)
		added = append(added, o)
	}
	s.SetSelection(added)
	return added, nil
}
