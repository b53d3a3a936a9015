package importer

import "testing"

var unitSquareCoords = [][]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

func TestTriangulateKeepsTriangles(t *testing.T) {
	diff, err := Triangulate([][]uint32{{0, 1, 2}}, unitSquareCoords)
	if err != nil {
		t.Fatalf("Triangulate: %v", err)
	}
	if len(diff.FaceIndices) != 1 {
		t.Fatalf("len(FaceIndices) = %d, want 1", len(diff.FaceIndices))
	}
	if diff.FaceIndices[0] != ([3]uint32{0, 1, 2}) {
		t.Errorf("FaceIndices[0] = %v, want [0 1 2]", diff.FaceIndices[0])
	}
	if len(diff.AdditionalEdges) != 0 {
		t.Errorf("a triangle should add no diagonal, got %v", diff.AdditionalEdges)
	}
}

func TestTriangulateSplitsQuadOnShorterDiagonal(t *testing.T) {
	diff, err := Triangulate([][]uint32{{0, 1, 2, 3}}, unitSquareCoords)
	if err != nil {
		t.Fatalf("Triangulate: %v", err)
	}
	if len(diff.FaceIndices) != 2 {
		t.Fatalf("len(FaceIndices) = %d, want 2", len(diff.FaceIndices))
	}
	if len(diff.AdditionalEdges) != 1 {
		t.Fatalf("len(AdditionalEdges) = %d, want 1", len(diff.AdditionalEdges))
	}
	for _, fi := range diff.FaceToOriginal {
		if fi != 0 {
			t.Errorf("FaceToOriginal entry = %d, want 0 (single source quad)", fi)
		}
	}

	// A kite whose 1-3 diagonal (length 2) is shorter than its 0-2
	// diagonal (length 4) is split along 1-3.
	kite := [][]float32{{-2, 0, 0}, {0, -1, 0}, {2, 0, 0}, {0, 1, 0}}
	kiteDiff, err := Triangulate([][]uint32{{0, 1, 2, 3}}, kite)
	if err != nil {
		t.Fatalf("Triangulate(kite): %v", err)
	}
	if got, want := kiteDiff.AdditionalEdges[0], ([2]uint32{1, 3}); got != want {
		t.Errorf("kite diagonal = %v, want %v (the shorter one)", got, want)
	}
}

func TestTriangulateFanForPentagon(t *testing.T) {
	coords := [][]float32{{0, 0, 0}, {1, 0, 0}, {1.5, 1, 0}, {0.5, 1.5, 0}, {-0.5, 1, 0}}
	diff, err := Triangulate([][]uint32{{0, 1, 2, 3, 4}}, coords)
	if err != nil {
		t.Fatalf("Triangulate: %v", err)
	}
	// fan-from-vertex-0 of an n-gon yields n-2 triangles.
	if len(diff.FaceIndices) != 3 {
		t.Fatalf("len(FaceIndices) = %d, want 3", len(diff.FaceIndices))
	}
	for _, tri := range diff.FaceIndices {
		if tri[0] != 0 {
			t.Errorf("fan triangle %v does not include the fan vertex 0", tri)
		}
	}
	// n-3 diagonals for an n-gon (n=5 -> 2).
	if len(diff.AdditionalEdges) != 2 {
		t.Errorf("len(AdditionalEdges) = %d, want 2", len(diff.AdditionalEdges))
	}
}

func TestTriangulateRejectsNon3DVertex(t *testing.T) {
	coords := [][]float32{{0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	_, err := Triangulate([][]uint32{{0, 1, 2, 3}}, coords)
	if err == nil {
		t.Fatal("Triangulate with a 2D vertex in a quad: want error, got nil")
	}
	if _, ok := err.(*VertexNot3DError); !ok {
		t.Errorf("error type = %T, want *VertexNot3DError", err)
	}
}
