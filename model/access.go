package model

// Loader is the write-access surface the importer's Loader stage (spec.md
// §4.7) uses to populate an Arena State, without the importer needing to
// know anything about AoSoA packing or lane widths. arena.Arena
// implements it; the GPU backend uploads the arena's backing bytes.
type Loader interface {
	// Size returns the ModelSize this loader was allocated for. Every
	// Set* call below indexes arrays sized by it.
	Size() Size

	SetNodePositionUnchanging(idx NodeIndex, v Vec3F)
	SetNodeExternalForce(idx NodeIndex, v Vec3F)
	SetNodeConfig(idx NodeIndex, cfg NodeConfig)
	SetNodeGeometry(idx NodeIndex, g NodeGeometry)

	SetCreaseGeometry(idx CreaseIndex, g CreaseGeometry)
	SetCreaseParameters(idx CreaseIndex, p CreaseParameters)

	SetFaceIndices(idx FaceIndex, v Vec3U)
	SetFaceNominalAngles(idx FaceIndex, v Vec3F)

	SetNodeCrease(idx NodeCreaseIndex, s NodeCreaseSpec)
	SetNodeBeam(idx NodeBeamIndex, s NodeBeamSpec)
	SetNodeFace(idx NodeFaceIndex, s NodeFaceSpec)

	// SetGlobals writes the three global scalars: fold ratio, timestep,
	// and face bending stiffness.
	SetGlobals(creasePercentage, dt, faceStiffness float32)
}

// Extractor is the read-only façade over the post-step front buffers
// (spec.md §4.10). Implementations never allocate on Copy* calls and
// return the number of entries actually written, which is
// min(len(dst), Size().Nodes-offset).
type Extractor interface {
	Size() Size

	// CopyNodePosition writes up to len(dst) node positions (unchanging +
	// offset) starting at the given node offset into dst, returning the
	// count written.
	CopyNodePosition(dst []Vec3F, offset uint32) int

	// CopyNodeVelocity writes up to len(dst) node velocities starting at
	// offset into dst, returning the count written.
	CopyNodeVelocity(dst []Vec3F, offset uint32) int

	// CopyNodeError writes up to len(dst) per-node error scalars starting
	// at offset into dst, returning the count written.
	CopyNodeError(dst []float32, offset uint32) int

	// CreaseFoldAngle returns the current fold angle of the given crease.
	CreaseFoldAngle(idx CreaseIndex) float32
}
