// Package obj reads and writes the Wavefront OBJ subset used as the mesh
// interchange format between the host scene and convex decomposition solvers.
//
// Only three line types are recognised: object names ("o <name>"), vertices
// ("v <x> <y> <z>") and faces ("f <i1> <i2> ... <in>", 1-based indices).
// Blank lines and "#" comments are tolerated because solver binaries emit
// them; any other line type is a format violation. The parser is strict on
// purpose: a silently skipped line could shift face indices and corrupt
// every mesh downstream.
package obj

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrEmptyDocument = errors.New("obj: document has no segments")
)

// FormatError reports a malformed line in an interchange file.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("obj: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("obj: %s", e.Msg)
}

// Vertex is a single vertex position.
type Vertex struct {
	X, Y, Z float64
}

// Face is an ordered list of 1-based vertex indices, global to the
// containing document.
type Face []int

// Segment is one named object within a document. Face indices are global
// to the document, following OBJ convention, so a multi-segment document
// keeps a single continuous vertex numbering.
type Segment struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
}

// Document is an ordered sequence of object segments.
type Document struct {
	Segments []Segment
}

// TotalVertices returns the number of vertices across all segments.
func (d *Document) TotalVertices() int {
	n := 0
	for i := range d.Segments {
		n += len(d.Segments[i].Vertices)
	}
	return n
}

// segmentOffset returns the number of vertices that precede segment i.
func (d *Document) segmentOffset(i int) int {
	n := 0
	for j := 0; j < i; j++ {
		n += len(d.Segments[j].Vertices)
	}
	return n
}

// Mesh is a standalone vertex/face snapshot with local 1-based indices.
// It is the exchange type between the codec and a host scene.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
}

// FromMesh builds a single-segment document from a mesh snapshot.
// Face indices must be 1-based and within the vertex count.
func FromMesh(m Mesh) (*Document, error) {
	for _, f := range m.Faces {
		for _, idx := range f {
			if idx < 1 || idx > len(m.Vertices) {
				return nil, fmt.Errorf("obj: mesh %q: face index %d out of range [1, %d]",
					m.Name, idx, len(m.Vertices))
			}
		}
	}
	faces := make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = append(Face(nil), f...)
	}
	return &Document{Segments: []Segment{{
		Name:     m.Name,
		Vertices: append([]Vertex(nil), m.Vertices...),
		Faces:    faces,
	}}}, nil
}

// BuildDocument concatenates mesh snapshots into one multi-segment
// document, shifting each mesh's local face indices into the shared
// global index space. This is the write-side counterpart of
// SegmentMesh.
func BuildDocument(meshes []Mesh) (*Document, error) {
	doc := &Document{}
	offset := 0
	for _, m := range meshes {
		seg := Segment{
			Name:     m.Name,
			Vertices: append([]Vertex(nil), m.Vertices...),
			Faces:    make([]Face, len(m.Faces)),
		}
		for fi, f := range m.Faces {
			shifted := make(Face, len(f))
			for vi, idx := range f {
				if idx < 1 || idx > len(m.Vertices) {
					return nil, fmt.Errorf("obj: mesh %q: face index %d out of range [1, %d]",
						m.Name, idx, len(m.Vertices))
				}
				shifted[vi] = idx + offset
			}
			seg.Faces[fi] = shifted
		}
		doc.Segments = append(doc.Segments, seg)
		offset += len(m.Vertices)
	}
	return doc, nil
}

// SegmentMesh extracts segment i as a standalone mesh with local indices.
// Fails if any face of the segment references a vertex outside it.
func (d *Document) SegmentMesh(i int) (Mesh, error) {
	if i < 0 || i >= len(d.Segments) {
		return Mesh{}, fmt.Errorf("obj: segment index %d out of range", i)
	}
	seg := d.Segments[i]
	offset := d.segmentOffset(i)

	faces := make([]Face, len(seg.Faces))
	for fi, f := range seg.Faces {
		local := make(Face, len(f))
		for vi, idx := range f {
			l := idx - offset
			if l < 1 || l > len(seg.Vertices) {
				return Mesh{}, fmt.Errorf("obj: segment %q: face index %d outside segment vertex range [%d, %d]",
					seg.Name, idx, offset+1, offset+len(seg.Vertices))
			}
			local[vi] = l
		}
		faces[fi] = local
	}
	return Mesh{
		Name:     seg.Name,
		Vertices: append([]Vertex(nil), seg.Vertices...),
		Faces:    faces,
	}, nil
}

// Parse parses interchange data into a document.
// A vertex or face line before the first "o" line opens an implicit
// segment named "default", matching common OBJ emitter behaviour.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "o":
			if len(fields) < 2 {
				return nil, &FormatError{Line: lineNo, Msg: "object line without a name"}
			}
			doc.Segments = append(doc.Segments, Segment{
				Name: strings.Join(fields[1:], " "),
			})

		case "v":
			if len(fields) != 4 {
				return nil, &FormatError{Line: lineNo, Msg: fmt.Sprintf("vertex line has %d coordinates, want 3", len(fields)-1)}
			}
			var vert Vertex
			for i, dst := range []*float64{&vert.X, &vert.Y, &vert.Z} {
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, &FormatError{Line: lineNo, Msg: fmt.Sprintf("invalid vertex coordinate %q", fields[i+1])}
				}
				*dst = val
			}
			seg := currentSegment(doc)
			seg.Vertices = append(seg.Vertices, vert)

		case "f":
			if len(fields) < 4 {
				return nil, &FormatError{Line: lineNo, Msg: fmt.Sprintf("face line has %d indices, want at least 3", len(fields)-1)}
			}
			face := make(Face, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				// Solver output may carry "v/vt/vn" style references.
				// Only the vertex index is meaningful here.
				if slash := strings.IndexByte(tok, '/'); slash >= 0 {
					tok = tok[:slash]
				}
				idx, err := strconv.Atoi(tok)
				if err != nil || idx < 1 {
					return nil, &FormatError{Line: lineNo, Msg: fmt.Sprintf("invalid face index %q", tok)}
				}
				face = append(face, idx)
			}
			seg := currentSegment(doc)
			seg.Faces = append(seg.Faces, face)

		default:
			return nil, &FormatError{Line: lineNo, Msg: fmt.Sprintf("unrecognised line type %q", fields[0])}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: reading input: %w", err)
	}

	// Every face index must resolve within the document.
	total := doc.TotalVertices()
	for si := range doc.Segments {
		for _, f := range doc.Segments[si].Faces {
			for _, idx := range f {
				if idx > total {
					return nil, &FormatError{Line: 0, Msg: fmt.Sprintf(
						"segment %q: face index %d exceeds vertex count %d",
						doc.Segments[si].Name, idx, total)}
				}
			}
		}
	}
	return doc, nil
}

func currentSegment(doc *Document) *Segment {
	if len(doc.Segments) == 0 {
		doc.Segments = append(doc.Segments, Segment{Name: "default"})
	}
	return &doc.Segments[len(doc.Segments)-1]
}

// ParseFile reads and parses an interchange file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("obj: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Encode serialises the document. Vertex coordinates are written with
// shortest-round-trip precision, never truncated to a fixed number of
// decimals.
func (d *Document) Encode() []byte {
	var buf bytes.Buffer
	for i := range d.Segments {
		seg := &d.Segments[i]
		fmt.Fprintf(&buf, "o %s\n", seg.Name)
		for _, v := range seg.Vertices {
			buf.WriteString("v ")
			buf.WriteString(strconv.FormatFloat(v.X, 'g', -1, 64))
			buf.WriteByte(' ')
			buf.WriteString(strconv.FormatFloat(v.Y, 'g', -1, 64))
			buf.WriteByte(' ')
			buf.WriteString(strconv.FormatFloat(v.Z, 'g', -1, 64))
			buf.WriteByte('\n')
		}
		for _, f := range seg.Faces {
			buf.WriteString("f")
			for _, idx := range f {
				buf.WriteByte(' ')
				buf.WriteString(strconv.Itoa(idx))
			}
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// WriteFile serialises the document to path. The parent directory must
// already exist.
func (d *Document) WriteFile(path string) error {
	if len(d.Segments) == 0 {
		return ErrEmptyDocument
	}
	if err := os.WriteFile(path, d.Encode(), 0644); err != nil {
		return fmt.Errorf("obj: writing %s: %w", path, err)
	}
	return nil
}
