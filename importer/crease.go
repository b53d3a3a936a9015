package importer

import (
	"fmt"
	"math"

	"rtori-go/fold"
)

// CreaseFace names one of the two triangles adjacent to a crease and the
// vertex of that triangle not on the crease edge.
type CreaseFace struct {
	FaceIndex           uint32
	ComplementVertexIndex uint32
}

// Crease is one emitted fold line: its two adjacent faces (reoriented for
// consistent (a,b) semantics, see flip below), the originating edge, and
// its target fold angle in radians.
type Crease struct {
	Faces     [2]CreaseFace
	EdgeIndex uint32
	FoldAngle float32
}

// ExtractCreasesErrorKind enumerates why one edge failed crease
// extraction (spec.md §4.6).
type ExtractCreasesErrorKind int

const (
	EdgeHasInvalidNumberOfFaces ExtractCreasesErrorKind = iota
	NonTriangularFace
	InvalidFaceVertices
	FaceHasTwiceTheSameVertex
)

func (k ExtractCreasesErrorKind) String() string {
	switch k {
	case EdgeHasInvalidNumberOfFaces:
		return "EdgeHasInvalidNumberOfFaces"
	case NonTriangularFace:
		return "NonTriangularFace"
	case InvalidFaceVertices:
		return "InvalidFaceVertices"
	case FaceHasTwiceTheSameVertex:
		return "FaceHasTwiceTheSameVertex"
	default:
		return "Unknown"
	}
}

// ExtractCreasesError reports which edge failed and why.
type ExtractCreasesError struct {
	EdgeIndex uint32
	Kind      ExtractCreasesErrorKind
}

func (e *ExtractCreasesError) Error() string {
	return fmt.Sprintf("importer: edge %d: %s", e.EdgeIndex, e.Kind)
}

const (
	defaultMountainFoldAngle = -math.Pi
	defaultValleyFoldAngle   = math.Pi
)

// ExtractCreases walks every edge and keeps the M/V/F ones, computing
// each crease's face pair and complement vertices (spec.md §4.6).
// foldAngleDegrees, when non-nil at index i, overrides the per-assignment
// default (already expected in degrees, per the FOLD schema); it is
// converted to radians here.
func ExtractCreases(
	edgesVertices [][2]uint32,
	edgesFaces [][]uint32,
	edgesAssignment []fold.EdgeAssignment,
	foldAngleDegrees []*float32,
	facesVertices [][3]uint32,
) ([]Crease, error) {
	var creases []Crease

	for edgeIdx, assignment := range edgesAssignment {
		foldAngle, keep := defaultAngle(assignment)
		if keep && foldAngleDegrees != nil && edgeIdx < len(foldAngleDegrees) && foldAngleDegrees[edgeIdx] != nil {
			foldAngle = float32(*foldAngleDegrees[edgeIdx] * math.Pi / 180)
		}
		if !keep {
			continue
		}

		faces := edgesFaces[edgeIdx]
		if len(faces) < 2 {
			return nil, &ExtractCreasesError{EdgeIndex: uint32(edgeIdx), Kind: EdgeHasInvalidNumberOfFaces}
		}

		vertex := edgesVertices[edgeIdx]

		face0, _, err := creaseFaceOf(uint32(edgeIdx), faces[0], vertex, facesVertices)
		if err != nil {
			return nil, err
		}
		face1, flip, err := creaseFaceOf(uint32(edgeIdx), faces[1], vertex, facesVertices)
		if err != nil {
			return nil, err
		}

		pair := [2]CreaseFace{face0, face1}
		if flip {
			pair = [2]CreaseFace{face1, face0}
		}

		creases = append(creases, Crease{
			Faces:     pair,
			EdgeIndex: uint32(edgeIdx),
			FoldAngle: foldAngle,
		})
	}

	return creases, nil
}

func defaultAngle(a fold.EdgeAssignment) (angle float32, keep bool) {
	switch a {
	case fold.AssignmentMountain:
		return defaultMountainFoldAngle, true
	case fold.AssignmentValley:
		return defaultValleyFoldAngle, true
	case fold.AssignmentFlat:
		return 0, true
	default:
		return 0, false
	}
}

// creaseFaceOf locates the crease's two endpoints within faceIdx's three
// vertices, returning the complement vertex and whether this face's
// winding traverses the crease edge from a to b (b directly follows a in
// the face's cyclic vertex order).
func creaseFaceOf(edgeIdx, faceIdx uint32, vertex [2]uint32, facesVertices [][3]uint32) (CreaseFace, bool, error) {
	if int(faceIdx) >= len(facesVertices) {
		return CreaseFace{}, false, &ExtractCreasesError{EdgeIndex: edgeIdx, Kind: InvalidFaceVertices}
	}
	indices := facesVertices[faceIdx]

	v0idx, v1idx := -1, -1
	for i, fv := range indices {
		if fv == vertex[0] {
			v0idx = i
		}
		if fv == vertex[1] {
			v1idx = i
		}
	}
	if v0idx < 0 || v1idx < 0 {
		return CreaseFace{}, false, &ExtractCreasesError{EdgeIndex: edgeIdx, Kind: InvalidFaceVertices}
	}
	if v0idx == v1idx {
		return CreaseFace{}, false, &ExtractCreasesError{EdgeIndex: edgeIdx, Kind: FaceHasTwiceTheSameVertex}
	}

	complementIdx := -1
	for i := 0; i < 3; i++ {
		if i != v0idx && i != v1idx {
			complementIdx = i
			break
		}
	}

	flip := (v1idx == v0idx+1) || (v0idx == v1idx+2)

	return CreaseFace{
		FaceIndex:             faceIdx,
		ComplementVertexIndex: indices[complementIdx],
	}, flip, nil
}
