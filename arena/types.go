// Package arena implements the Arena State of spec.md §4.1: a single
// allocation carved into the 29 per-entity arrays §3 describes, with
// double buffering for the three R/W pairs and a dirty bit per parameter
// region for the GPU backend.
//
// Go has no portable compile-time SIMD facility comparable to the teacher
// corpus's target-feature dispatch, so the "AoSoA, lane-width L" memory
// layout of spec.md §4.1 is realized here as plain contiguous Go slices
// (the L=1 "scalar fallback" spec.md explicitly allows for both the
// fold-angle continuity kernel and the backend in general) carved out of
// one backing []byte with the same alignment/size discipline the spec
// requires of required_backing_size. See DESIGN.md for the tradeoff.
package arena

import "rtori-go/model"

// CreaseFaceIndices holds the two face indices adjacent to a crease, kept
// as its own array (split from CreaseNeighbourhood) because the fold-angle
// kernel (stage 1a) and the node-crease force kernel (stage 1c) read
// them, while the physics kernel (stage 1b) reads only the neighbourhood.
type CreaseFaceIndices struct {
	FaceIndex [2]model.FaceIndex
}

// CreaseNeighbourhood holds the two complement-vertex node indices for a
// crease (one per adjacent face) and the two nodes of the crease edge
// itself — stage 1a/1b read AdjacentNodeIndex to locate the crease line,
// ComplementNodeIndex to locate the two off-crease triangle apexes.
type CreaseNeighbourhood struct {
	ComplementNodeIndex [2]model.NodeIndex
	AdjacentNodeIndex   [2]model.NodeIndex
}

// CreasePhysics is the per-crease geometry coefficients computed by stage
// 1b: the perpendicular height and barycentric coefficient of each
// complement vertex relative to the crease line. AHeight <= 0 is the
// sentinel for a degenerate (near-zero-length) crease or a
// near-coincident complement vertex (spec.md §4.2 stage 1b).
type CreasePhysics struct {
	AHeight, ACoef float32
	BHeight, BCoef float32
}

// Invalid reports whether this is the degenerate-crease sentinel.
func (p CreasePhysics) Invalid() bool {
	return p.AHeight <= 0 || p.BHeight <= 0
}

// InvalidCreasePhysics is the sentinel value stage 1b writes for a
// degenerate crease: {-1,-1,-1,-1}.
var InvalidCreasePhysics = CreasePhysics{AHeight: -1, ACoef: -1, BHeight: -1, BCoef: -1}

// NodeBeamGeom holds one beam participation's two endpoint indices.
type NodeBeamGeom struct {
	NodeIndex, NeighbourIndex model.NodeIndex
}

// NodeFaceGeom holds one node-face participation record.
type NodeFaceGeom struct {
	NodeIndex model.NodeIndex
	FaceIndex model.FaceIndex
}

// Double is a front/back pair of equal-length slices. Swap exchanges the
// two slice headers — no bytes move — realizing spec.md §4.1's "logical
// swap flips the front/back designation without moving bytes".
type Double[T any] struct {
	Front, Back []T
}

// Swap exchanges Front and Back.
func (d *Double[T]) Swap() {
	d.Front, d.Back = d.Back, d.Front
}
