// Package model defines the data model shared across the importer, arena,
// kernel pipeline, and both backends: typed indices, fixed-layout value
// types, and the ModelSize that sizes every per-entity array (spec.md §3).
package model

// NodeIndex identifies a node (a simulated vertex) within a model. Dense
// from 0.
type NodeIndex = uint32

// CreaseIndex identifies a crease (a mountain/valley/flat edge) within a
// model. Dense from 0.
type CreaseIndex = uint32

// FaceIndex identifies a triangular face within a model. Dense from 0.
type FaceIndex = uint32

// NodeCreaseIndex identifies one (crease, role) participation record in the
// node_creases array. Dense from 0.
type NodeCreaseIndex = uint32

// NodeBeamIndex identifies one axial-spring participation record in the
// node_beams array. Dense from 0.
type NodeBeamIndex = uint32

// NodeFaceIndex identifies one bending-constraint participation record in
// the node_faces array. Dense from 0.
type NodeFaceIndex = uint32

// FrameIndex identifies a frame within a FOLD file. 16-bit per spec.md §3.
type FrameIndex = uint16
