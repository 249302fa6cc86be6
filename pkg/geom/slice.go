// Package geom provides plane-based mesh slicing, a pre-processing step
// for convex decomposition: cutting a mesh into axis-aligned slabs
// yields smaller volumes that are already somewhat convex along the
// cutting planes.
package geom

import (
	"fmt"
	stdmath "math"

	"github.com/meshforge/convdec/pkg/math"
	"github.com/meshforge/convdec/pkg/obj"
)

// Axis selects the slicing direction. Slicing along Z cuts with XY
// planes, and so on.
type Axis int

// Slicing axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Normal returns the unit normal of the cutting planes for this axis.
func (a Axis) Normal() math.Vec3 {
	switch a {
	case AxisX:
		return math.Vec3{X: 1}
	case AxisY:
		return math.Vec3{Y: 1}
	default:
		return math.Vec3{Z: 1}
	}
}

// Plane is the half-space boundary dot(Normal, p) = Offset. ClipMesh
// keeps the side where dot(Normal, p) <= Offset.
type Plane struct {
	Normal math.Vec3
	Offset float64
}

func (p Plane) distance(v math.Vec3) float64 {
	return p.Normal.Dot(v) - p.Offset
}

const weldEpsilon = 1e-9

// meshBuilder accumulates clipped polygons, welding coincident vertices
// so shared edges keep shared indices.
type meshBuilder struct {
	mesh  obj.Mesh
	index map[[3]int64]int
}

func newMeshBuilder(name string) *meshBuilder {
	return &meshBuilder{
		mesh:  obj.Mesh{Name: name},
		index: make(map[[3]int64]int),
	}
}

func (b *meshBuilder) vertex(v math.Vec3) int {
	key := [3]int64{
		int64(stdmath.Round(v.X / weldEpsilon)),
		int64(stdmath.Round(v.Y / weldEpsilon)),
		int64(stdmath.Round(v.Z / weldEpsilon)),
	}
	if idx, ok := b.index[key]; ok {
		return idx
	}
	b.mesh.Vertices = append(b.mesh.Vertices, obj.Vertex{X: v.X, Y: v.Y, Z: v.Z})
	idx := len(b.mesh.Vertices) // 1-based
	b.index[key] = idx
	return idx
}

func (b *meshBuilder) polygon(poly []math.Vec3) {
	if len(poly) < 3 {
		return
	}
	face := make(obj.Face, len(poly))
	for i, v := range poly {
		face[i] = b.vertex(v)
	}
	b.mesh.Faces = append(b.mesh.Faces, face)
}

// clipPolygon cuts a convex polygon against the plane's kept half-space
// (Sutherland-Hodgman). Crossing edges get an interpolated vertex on
// the plane.
func clipPolygon(poly []math.Vec3, plane Plane) []math.Vec3 {
	if len(poly) == 0 {
		return nil
	}
	var out []math.Vec3
	prev := poly[len(poly)-1]
	prevDist := plane.distance(prev)
	for _, cur := range poly {
		curDist := plane.distance(cur)
		if prevDist <= 0 {
			out = append(out, prev)
			if curDist > 0 {
				out = append(out, intersect(prev, cur, prevDist, curDist))
			}
		} else if curDist <= 0 {
			out = append(out, intersect(prev, cur, prevDist, curDist))
		}
		prev, prevDist = cur, curDist
	}
	return out
}

func intersect(a, b math.Vec3, da, db float64) math.Vec3 {
	t := da / (da - db)
	return a.Add(b.Sub(a).Scale(t))
}

// ClipMesh keeps the part of the mesh on the plane's negative side.
// Faces crossing the plane are clipped. The cut is left open; no cap
// faces are generated.
func ClipMesh(mesh obj.Mesh, plane Plane, name string) obj.Mesh {
	b := newMeshBuilder(name)
	for _, face := range mesh.Faces {
		poly := make([]math.Vec3, len(face))
		for i, idx := range face {
			v := mesh.Vertices[idx-1]
			poly[i] = math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
		}
		b.polygon(clipPolygon(poly, plane))
	}
	return b.mesh
}

// Slice cuts the mesh into slabs between consecutive offsets along the
// axis. Offsets must be strictly increasing. Empty slabs are dropped;
// the returned meshes are named "<source>_slice_<i>" in slab order.
func Slice(mesh obj.Mesh, axis Axis, offsets []float64) ([]obj.Mesh, error) {
	if len(offsets) < 2 {
		return nil, fmt.Errorf("geom: need at least 2 offsets, got %d", len(offsets))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			return nil, fmt.Errorf("geom: offsets must be strictly increasing, got %g after %g",
				offsets[i], offsets[i-1])
		}
	}

	normal := axis.Normal()
	var slabs []obj.Mesh
	for i := 0; i+1 < len(offsets); i++ {
		name := fmt.Sprintf("%s_slice_%d", mesh.Name, len(slabs))
		// Clip away everything above the top plane, then flip the
		// bottom plane to clip away everything below it.
		top := ClipMesh(mesh, Plane{Normal: normal, Offset: offsets[i+1]}, name)
		slab := ClipMesh(top, Plane{Normal: normal.Scale(-1), Offset: -offsets[i]}, name)
		if len(slab.Faces) > 0 {
			slabs = append(slabs, slab)
		}
	}
	return slabs, nil
}
