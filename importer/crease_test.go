package importer

import (
	"math"
	"testing"

	"rtori-go/fold"
)

func TestExtractCreasesKeepsOnlyFoldEdges(t *testing.T) {
	edgesVertices := [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {1, 3}}
	edgesAssignment := []fold.EdgeAssignment{
		fold.AssignmentBoundary, fold.AssignmentBoundary, fold.AssignmentBoundary,
		fold.AssignmentBoundary, fold.AssignmentMountain,
	}
	facesVertices := [][3]uint32{{0, 1, 3}, {1, 2, 3}}
	edgesFaces := [][]uint32{{0}, {1}, {1}, {0}, {0, 1}}

	creases, err := ExtractCreases(edgesVertices, edgesFaces, edgesAssignment, nil, facesVertices)
	if err != nil {
		t.Fatalf("ExtractCreases: %v", err)
	}
	if len(creases) != 1 {
		t.Fatalf("len(creases) = %d, want 1", len(creases))
	}
	c := creases[0]
	if c.EdgeIndex != 4 {
		t.Errorf("EdgeIndex = %d, want 4", c.EdgeIndex)
	}
	if math.Abs(float64(c.FoldAngle)-(-math.Pi)) > 1e-6 {
		t.Errorf("mountain default FoldAngle = %v, want -pi", c.FoldAngle)
	}
	if c.Faces[0].FaceIndex == c.Faces[1].FaceIndex {
		t.Error("a crease's two faces must be distinct")
	}
}

func TestExtractCreasesFoldAngleOverrideDegrees(t *testing.T) {
	edgesVertices := [][2]uint32{{0, 1}, {1, 2}, {2, 0}}
	edgesAssignment := []fold.EdgeAssignment{fold.AssignmentMountain, fold.AssignmentBoundary, fold.AssignmentBoundary}
	facesVertices := [][3]uint32{{0, 1, 2}, {0, 2, 1}}
	edgesFaces := [][]uint32{{0, 1}, {0}, {1}}

	ninety := float32(90)
	creases, err := ExtractCreases(edgesVertices, edgesFaces, edgesAssignment, []*float32{&ninety, nil, nil}, facesVertices)
	if err != nil {
		t.Fatalf("ExtractCreases: %v", err)
	}
	if len(creases) != 1 {
		t.Fatalf("len(creases) = %d, want 1", len(creases))
	}
	want := float32(math.Pi / 2)
	if math.Abs(float64(creases[0].FoldAngle-want)) > 1e-6 {
		t.Errorf("FoldAngle = %v, want %v (90 degrees in radians)", creases[0].FoldAngle, want)
	}
}

func TestExtractCreasesBoundaryEdgeIsNotACrease(t *testing.T) {
	edgesVertices := [][2]uint32{{0, 1}}
	edgesAssignment := []fold.EdgeAssignment{fold.AssignmentBoundary}
	facesVertices := [][3]uint32{{0, 1, 2}}
	edgesFaces := [][]uint32{{0}}

	creases, err := ExtractCreases(edgesVertices, edgesFaces, edgesAssignment, nil, facesVertices)
	if err != nil {
		t.Fatalf("ExtractCreases: %v", err)
	}
	if len(creases) != 0 {
		t.Errorf("len(creases) = %d, want 0 for a boundary-only edge set", len(creases))
	}
}

func TestExtractCreasesRejectsEdgeWithOneFace(t *testing.T) {
	edgesVertices := [][2]uint32{{0, 1}}
	edgesAssignment := []fold.EdgeAssignment{fold.AssignmentMountain}
	facesVertices := [][3]uint32{{0, 1, 2}}
	edgesFaces := [][]uint32{{0}}

	_, err := ExtractCreases(edgesVertices, edgesFaces, edgesAssignment, nil, facesVertices)
	if err == nil {
		t.Fatal("ExtractCreases on a mountain edge with only one adjacent face: want error, got nil")
	}
	ece, ok := err.(*ExtractCreasesError)
	if !ok || ece.Kind != EdgeHasInvalidNumberOfFaces {
		t.Errorf("error = %v, want ExtractCreasesError{Kind: EdgeHasInvalidNumberOfFaces}", err)
	}
}
