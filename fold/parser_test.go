package fold

import (
	"errors"
	"testing"
)

const minimalSquare = `{
	"file_spec": 1,
	"vertices_coords": [[0,0,0],[1,0,0],[1,1,0],[0,1,0]],
	"faces_vertices": [[0,1,2,3]]
}`

func TestParseMinimalDocument(t *testing.T) {
	doc, err := Parse([]byte(minimalSquare))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	coords := doc.KeyFrame.VerticesCoords()
	if len(coords) != 4 {
		t.Fatalf("len(VerticesCoords) = %d, want 4", len(coords))
	}
	if doc.FileSpec != 1 {
		t.Errorf("FileSpec = %d, want 1", doc.FileSpec)
	}
}

func TestParseMissingVerticesCoords(t *testing.T) {
	_, err := Parse([]byte(`{"faces_vertices": [[0,1,2]]}`))
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("Parse with no vertices_coords: got %v, want *MissingFieldError", err)
	}
	if mfe.Field != "vertices_coords" {
		t.Errorf("MissingFieldError.Field = %q, want vertices_coords", mfe.Field)
	}
}

func TestParseMissingFacesVertices(t *testing.T) {
	_, err := Parse([]byte(`{"vertices_coords": [[0,0,0]]}`))
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("Parse with no faces_vertices: got %v, want *MissingFieldError", err)
	}
	if mfe.Field != "faces_vertices" {
		t.Errorf("MissingFieldError.Field = %q, want faces_vertices", mfe.Field)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte(`{"vertices_coords": [[0,0,0],`))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse with truncated JSON: got %v, want *ParseError", err)
	}
}

func TestParseUnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte(`{"vertices_coords": [[0,0,0]], "faces_vertices": [[0]], "bogus_field": 1}`))
	if err == nil {
		t.Fatal("Parse with unknown top-level field: want error, got nil")
	}
}

func TestFrameInheritanceFallback(t *testing.T) {
	doc, err := Parse([]byte(`{
		"vertices_coords": [[0,0,0],[1,0,0],[1,1,0]],
		"faces_vertices": [[0,1,2]],
		"file_frames": [
			{"frame_inherit": true, "rtori:vertices_mass": [2,2,2]}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.FrameCount() != 2 {
		t.Fatalf("FrameCount() = %d, want 2", doc.FrameCount())
	}
	f, ok := doc.Frame(1)
	if !ok {
		t.Fatal("Frame(1) ok = false")
	}
	if !f.IsInheriting() {
		t.Error("file_frames[0] should be inheriting")
	}
	// vertices_coords not set locally: must fall back to the key frame.
	coords := f.VerticesCoords()
	if len(coords) != 3 {
		t.Errorf("inherited VerticesCoords len = %d, want 3", len(coords))
	}
	// rtori:vertices_mass is set locally: must not fall back.
	mass := f.VerticesMass()
	if len(mass) != 3 || mass[0] != 2 {
		t.Errorf("local VerticesMass = %v, want [2 2 2]", mass)
	}
}

func TestFrameIndexOutOfRange(t *testing.T) {
	doc, err := Parse([]byte(minimalSquare))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := doc.Frame(1); ok {
		t.Error("Frame(1) on a document with no file_frames should report ok = false")
	}
	if _, ok := doc.Frame(-1); ok {
		t.Error("Frame(-1) should report ok = false")
	}
}

func TestFrameZeroIsKeyFrame(t *testing.T) {
	doc, err := Parse([]byte(minimalSquare))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f, ok := doc.Frame(0)
	if !ok {
		t.Fatal("Frame(0) ok = false")
	}
	if len(f.VerticesCoords()) != len(doc.KeyFrame.VerticesCoords()) {
		t.Error("Frame(0) should be the key frame")
	}
}

func TestCloneRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(minimalSquare))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	clone, err := doc.KeyFrame.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	orig := doc.KeyFrame.Materialize()
	if len(clone.VerticesCoords) != len(orig.VerticesCoords) {
		t.Fatalf("clone VerticesCoords len = %d, want %d", len(clone.VerticesCoords), len(orig.VerticesCoords))
	}
	for i := range orig.VerticesCoords {
		for j := range orig.VerticesCoords[i] {
			if clone.VerticesCoords[i][j] != orig.VerticesCoords[i][j] {
				t.Errorf("clone.VerticesCoords[%d][%d] = %v, want %v", i, j, clone.VerticesCoords[i][j], orig.VerticesCoords[i][j])
			}
		}
	}
}
