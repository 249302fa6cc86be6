// Package scene provides an in-memory host scene: a named object table
// with selection state, collections and parent-relative transforms. It
// implements the host operations the decomposition pipeline depends on,
// standing in for an editor's scene graph in the CLI and in tests.
package scene

import (
	"github.com/meshforge/convdec/pkg/math"
	"github.com/meshforge/convdec/pkg/obj"
)

// Mode is the host interaction mode.
type Mode int

const (
	// ObjectMode is the only mode in which the pipeline may run.
	ObjectMode Mode = iota
	// EditMode stands for any non-object interaction mode.
	EditMode
)

func (m Mode) String() string {
	if m == ObjectMode {
		return "OBJECT"
	}
	return "EDIT"
}

// Material is a simple display material. Alpha follows the host
// convention of 1 = opaque.
type Material struct {
	R, G, B, Alpha float64
}

// Object is one mesh object in the scene. Vertices are stored in local
// space; the world position follows from the transform chain.
type Object struct {
	Name       string
	Mesh       obj.Mesh
	Collection string
	Material   *Material

	// Local is the object's own transform (Blender's matrix_basis).
	Local math.Mat4
	// ParentInverse compensates the parent's world transform at the
	// time of parenting (Blender's matrix_parent_inverse).
	ParentInverse math.Mat4

	parent *Object
}

// NewObject creates an unparented object with identity transforms.
func NewObject(name string, mesh obj.Mesh) *Object {
	return &Object{
		Name:          name,
		Mesh:          mesh,
		Local:         math.Identity(),
		ParentInverse: math.Identity(),
	}
}

// Parent returns the object's parent, or nil.
func (o *Object) Parent() *Object {
	return o.parent
}

// WorldMatrix returns the object's world transform:
// parent world * parent inverse * local.
func (o *Object) WorldMatrix() math.Mat4 {
	if o.parent == nil {
		return o.Local
	}
	return o.parent.WorldMatrix().Mul(o.ParentInverse).Mul(o.Local)
}

// WorldVertices returns the object's vertex positions in world space.
func (o *Object) WorldVertices() []math.Vec3 {
	world := o.WorldMatrix()
	out := make([]math.Vec3, len(o.Mesh.Vertices))
	for i, v := range o.Mesh.Vertices {
		out[i] = world.TransformPoint(math.Vec3{X: v.X, Y: v.Y, Z: v.Z})
	}
	return out
}

// WorldMesh returns a mesh snapshot with the world transform applied,
// named after the object. This is what gets handed to a solver.
func (o *Object) WorldMesh() obj.Mesh {
	verts := o.WorldVertices()
	mesh := obj.Mesh{
		Name:     o.Name,
		Vertices: make([]obj.Vertex, len(verts)),
		Faces:    make([]obj.Face, len(o.Mesh.Faces)),
	}
	for i, v := range verts {
		mesh.Vertices[i] = obj.Vertex{X: v.X, Y: v.Y, Z: v.Z}
	}
	for i, f := range o.Mesh.Faces {
		mesh.Faces[i] = append(obj.Face(nil), f...)
	}
	return mesh
}
