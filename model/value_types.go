package model

// Vec3F is a 3-component float32 vector with fixed memory layout, safe to
// copy byte-for-byte between the CPU and GPU backends.
type Vec3F [3]float32

// Add returns the component-wise sum of v and o.
func (v Vec3F) Add(o Vec3F) Vec3F {
	return Vec3F{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns the component-wise difference v - o.
func (v Vec3F) Sub(o Vec3F) Vec3F {
	return Vec3F{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v scaled by s.
func (v Vec3F) Scale(s float32) Vec3F {
	return Vec3F{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product of v and o.
func (v Vec3F) Dot(o Vec3F) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product v x o.
func (v Vec3F) Cross(o Vec3F) Vec3F {
	return Vec3F{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Vec3U is a 3-component uint32 vector, used for a face's three node
// indices.
type Vec3U [3]uint32

// Range is a contiguous {offset, count} slice descriptor into one of the
// per-node-* arrays.
type Range struct {
	Offset uint32
	Count  uint32
}

// NodeConfig is the immutable per-node physical configuration the loader
// writes once: mass 0 marks an inert node (no integration); Fixed pins a
// node so its position never moves.
type NodeConfig struct {
	Mass  float32
	Fixed uint8
}

// NodeGeometry holds the three {offset,count} ranges into the
// node_creases, node_beams, and node_faces arrays that belong to one node.
// Invariant: every Offset+Count stays within the owning array's length.
type NodeGeometry struct {
	Creases Range
	Beams   Range
	Faces   Range
}

// CreaseFace names, for one of a crease's two adjacent faces, the face
// index and the node index of that face's vertex not on the crease edge
// — the complement vertex.
type CreaseFace struct {
	FaceIndex             FaceIndex
	ComplementVertexIndex NodeIndex
}

// CreaseGeometry names the two faces sharing a crease, each one's
// complement vertex, and the two nodes of the crease edge itself (the
// edge's own vertices, read by stages 1a/1b to locate the crease line in
// space). Invariant: Faces[0].FaceIndex != Faces[1].FaceIndex; both faces
// contain both of AdjacentA/AdjacentB.
type CreaseGeometry struct {
	Faces      [2]CreaseFace
	AdjacentA  NodeIndex
	AdjacentB  NodeIndex
}

// CreaseParameters holds the per-crease spring stiffness, damping
// coefficient, and the fold angle targeted at crease_percentage = 1.
type CreaseParameters struct {
	K                 float32
	D                 float32
	TargetFoldAngle   float32
}

// Node-number roles a NodeCreaseSpec can take. 0 and 1 are the two
// complement (off-crease) participants, one per adjacent face; 2 and 3 are
// the two adjacent (on-crease) nodes themselves.
const (
	NodeCreaseRoleComplementA uint32 = 0
	NodeCreaseRoleComplementB uint32 = 1
	NodeCreaseRoleAdjacentA   uint32 = 2
	NodeCreaseRoleAdjacentB   uint32 = 3
)

// NodeCreaseSpec records one (crease, role) pair: which crease a
// node_creases record refers to, and which of the crease's four
// participant nodes (NodeCreaseRole*) it is.
type NodeCreaseSpec struct {
	CreaseIndex CreaseIndex
	NodeNumber  uint32
}

// NodeBeamSpec records one endpoint of an axial spring (a "beam") running
// along an edge. Beams are stored twice, once per endpoint, with matching
// K, D, and Length; NeighbourIndex must never equal NodeIndex.
type NodeBeamSpec struct {
	NodeIndex      NodeIndex
	NeighbourIndex NodeIndex
	K              float32
	D              float32
	Length         float32
}

// NodeFaceSpec records one vertex's participation in a triangular face's
// bending-resistance constraint.
type NodeFaceSpec struct {
	NodeIndex NodeIndex
	FaceIndex FaceIndex
}

// Size sizes every per-entity array in the Arena State (spec.md §3).
type Size struct {
	Nodes       uint32
	Creases     uint32
	Faces       uint32
	NodeCreases uint32
	NodeBeams   uint32
	NodeFaces   uint32
}

// IsEmpty reports whether every count in the size is zero — the degenerate
// "empty model" of spec.md §8 property 13.
func (s Size) IsEmpty() bool {
	return s.Nodes == 0 && s.Creases == 0 && s.Faces == 0 &&
		s.NodeCreases == 0 && s.NodeBeams == 0 && s.NodeFaces == 0
}
