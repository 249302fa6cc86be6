package obj

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseValid(t *testing.T) {
	data := []byte(`# exported by solver
o hull0
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
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(doc.Segments))
	}
	if doc.Segments[0].Name != "hull0" || doc.Segments[1].Name != "hull1" {
		t.Errorf("unexpected segment names %q, %q", doc.Segments[0].Name, doc.Segments[1].Name)
	}
	if doc.TotalVertices() != 6 {
		t.Errorf("expected 6 vertices, got %d", doc.TotalVertices())
	}
	if len(doc.Segments[1].Faces) != 1 {
		t.Fatalf("expected 1 face in second segment, got %d", len(doc.Segments[1].Faces))
	}
	want := Face{4, 5, 6}
	if diff := cmp.Diff(want, doc.Segments[1].Faces[0]); diff != "" {
		t.Errorf("second segment face mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImplicitSegment(t *testing.T) {
	doc, err := Parse([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Segments) != 1 || doc.Segments[0].Name != "default" {
		t.Errorf("expected one implicit segment named 'default', got %+v", doc.Segments)
	}
}

func TestParseSlashIndices(t *testing.T) {
	doc, err := Parse([]byte("o m\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1 2/2/2 3/3/3\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := Face{1, 2, 3}
	if diff := cmp.Diff(want, doc.Segments[0].Faces[0]); diff != "" {
		t.Errorf("face mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsUnknownLine(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"unknown prefix", "o m\nv 0 0 0\nvn 0 1 0\n"},
		{"bad coordinate", "o m\nv 0 zero 0\n"},
		{"short vertex", "o m\nv 1 2\n"},
		{"zero face index", "o m\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"negative face index", "o m\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf -1 2 3\n"},
		{"short face", "o m\nv 0 0 0\nf 1 1\n"},
		{"nameless object", "o\n"},
		{"index out of range", "o m\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	src := Mesh{
		Name: "Barrel",
		Vertices: []Vertex{
			{0.5, -1.25, 3.0000001},
			{1e-7, 2.5, -0.75},
			{100000.125, 0, 1},
			{-3, 4, 5},
		},
		Faces: []Face{{1, 2, 3}, {1, 3, 4}, {2, 3, 4, 1}},
	}

	doc, err := FromMesh(src)
	if err != nil {
		t.Fatalf("FromMesh failed: %v", err)
	}

	parsed, err := Parse(doc.Encode())
	if err != nil {
		t.Fatalf("Parse of encoded output failed: %v", err)
	}

	got, err := parsed.SegmentMesh(0)
	if err != nil {
		t.Fatalf("SegmentMesh failed: %v", err)
	}
	if diff := cmp.Diff(src, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripFile(t *testing.T) {
	src := Mesh{
		Name:     "Cube",
		Vertices: []Vertex{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:    []Face{{1, 2, 3}},
	}
	doc, err := FromMesh(src)
	if err != nil {
		t.Fatalf("FromMesh failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "cube.obj")
	if err := doc.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	got, err := parsed.SegmentMesh(0)
	if err != nil {
		t.Fatalf("SegmentMesh failed: %v", err)
	}
	if diff := cmp.Diff(src, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("file round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFileMissingDirectory(t *testing.T) {
	doc, err := FromMesh(Mesh{
		Name:     "m",
		Vertices: []Vertex{{0, 0, 0}},
	})
	if err != nil {
		t.Fatalf("FromMesh failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "missing", "m.obj")
	if err := doc.WriteFile(path); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

func TestWriteFileEmptyDocument(t *testing.T) {
	doc := &Document{}
	err := doc.WriteFile(filepath.Join(t.TempDir(), "empty.obj"))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestFromMeshRejectsBadIndices(t *testing.T) {
	_, err := FromMesh(Mesh{
		Name:     "m",
		Vertices: []Vertex{{0, 0, 0}},
		Faces:    []Face{{1, 2, 3}},
	})
	if err == nil {
		t.Error("expected error for face index beyond vertex count")
	}
}

func TestBuildDocumentRoundTrip(t *testing.T) {
	meshes := []Mesh{
		{
			Name:     "Cube",
			Vertices: []Vertex{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Faces:    []Face{{1, 2, 3}},
		},
		{
			Name:     "UCX_Cube_0",
			Vertices: []Vertex{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}},
			Faces:    []Face{{1, 2, 3}},
		},
	}

	doc, err := BuildDocument(meshes)
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}
	// Second segment's face shifts past the first segment's vertices.
	if diff := cmp.Diff(Face{4, 5, 6}, doc.Segments[1].Faces[0]); diff != "" {
		t.Errorf("shifted face mismatch (-want +got):\n%s", diff)
	}

	for i := range meshes {
		got, err := doc.SegmentMesh(i)
		if err != nil {
			t.Fatalf("SegmentMesh(%d) failed: %v", i, err)
		}
		if diff := cmp.Diff(meshes[i], got); diff != "" {
			t.Errorf("mesh %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestSegmentMeshRejectsCrossSegmentFace(t *testing.T) {
	// Second segment's face references a vertex of the first.
	doc, err := Parse([]byte(`o a
v 0 0 0
v 1 0 0
v 0 1 0
o b
v 0 0 1
v 1 0 1
v 0 1 1
f 1 4 5
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := doc.SegmentMesh(1); err == nil {
		t.Error("expected error for face crossing segment boundary")
	}
}
