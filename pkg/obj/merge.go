package obj

import "fmt"

// Merge concatenates documents into one, in input order. Each face index
// is shifted by the vertex count of all preceding documents so the merged
// document keeps a single valid global index space. Segment i of the
// flattened sequence is renamed "<namePrefix><i>", giving hulls a
// solver-independent name before import.
//
// Ordering is exactly input ordering. The later hull numbering depends on
// it, so the same solver output always merges to the same document.
func Merge(docs []*Document, namePrefix string) (*Document, error) {
	merged := &Document{}
	offset := 0
	for _, doc := range docs {
		for si := range doc.Segments {
			src := &doc.Segments[si]
			seg := Segment{
				Name:     fmt.Sprintf("%s%d", namePrefix, len(merged.Segments)),
				Vertices: append([]Vertex(nil), src.Vertices...),
				Faces:    make([]Face, len(src.Faces)),
			}
			for fi, f := range src.Faces {
				shifted := make(Face, len(f))
				for vi, idx := range f {
					shifted[vi] = idx + offset
				}
				seg.Faces[fi] = shifted
			}
			merged.Segments = append(merged.Segments, seg)
		}
		offset += doc.TotalVertices()
	}

	total := merged.TotalVertices()
	for si := range merged.Segments {
		for _, f := range merged.Segments[si].Faces {
			for _, idx := range f {
				if idx < 1 || idx > total {
					return nil, &FormatError{Msg: fmt.Sprintf(
						"merged segment %q: face index %d outside [1, %d]",
						merged.Segments[si].Name, idx, total)}
				}
			}
		}
	}
	return merged, nil
}

// RenameSegments renames every segment of doc to "<namePrefix><i>" in
// order. Used on single-file solver output, where the hulls are already
// in one document but still carry solver-chosen names.
func RenameSegments(doc *Document, namePrefix string) {
	for i := range doc.Segments {
		doc.Segments[i].Name = fmt.Sprintf("%s%d", namePrefix, i)
	}
}
