package arena

import (
	"fmt"
	"unsafe"

	"rtori-go/model"
)

// Arena is the single-allocation backing store for one loaded model. It
// owns its backing []byte and never reallocates for the lifetime of a
// load; New allocates fresh storage sized exactly to ModelSize.
type Arena struct {
	backing []byte
	size    model.Size

	NodeGeometry             []model.NodeGeometry
	NodePositionsUnchanging  []model.Vec3F
	NodeExternalForces       []model.Vec3F
	NodeMass                 []float32
	NodeFixed                []uint8
	NodePositionOffset       Double[model.Vec3F]
	NodeVelocity             Double[model.Vec3F]
	NodeError                []float32

	CreaseFaceIndices     []CreaseFaceIndices
	CreaseNeighbourhoods  []CreaseNeighbourhood
	CreaseK               []float32
	CreaseTargetFoldAngle []float32
	CreaseFoldAngleBuf    Double[float32]
	CreasePhysics         []CreasePhysics

	FaceIndices        []model.Vec3U
	FaceNominalAngles  []model.Vec3F
	FaceNormals        []model.Vec3F

	NodeCreaseCreaseIndices []uint32
	NodeCreaseNodeNumber    []uint32
	NodeCreaseForces        []model.Vec3F

	NodeBeamSpec   []NodeBeamGeom
	NodeBeamLength []float32
	NodeBeamK      []float32
	NodeBeamD      []float32
	NodeBeamForces []model.Vec3F
	NodeBeamError  []float32

	NodeFaceSpec   []NodeFaceGeom
	NodeFaceForces []model.Vec3F
	NodeFaceError  []float32

	CreasePercentage float32
	Dt               float32
	FaceStiffness    float32

	// Dirty marks parameter regions the GPU backend must re-upload; the
	// CPU backend ignores it (spec.md §4.1 "Dirty parameter bit").
	Dirty ParamsDirty
}

// ParamsDirty tracks, per parameter region, whether a Set* call has
// written to it since the last GPU upload.
type ParamsDirty struct {
	NodeConfig   bool
	NodeForces   bool
	NodeUnchanging bool
	CreaseParams bool
	NodeBeamParams bool
}

// ClearDirty resets every dirty flag; called by the GPU backend after it
// has re-uploaded every flagged region.
func (a *Arena) ClearDirty() {
	a.Dirty = ParamsDirty{}
}

// carveCursor tracks the current byte offset into an Arena's backing
// slice while New lays out the 29 arrays.
type carveCursor struct {
	buf    []byte
	offset uintptr
}

func carve[T any](c *carveCursor, count int) []T {
	var zero T
	align := unsafe.Alignof(zero)
	size := unsafe.Sizeof(zero)

	c.offset = nextMultipleOf(c.offset, align)
	needed := uintptr(count) * size
	if c.offset+needed > uintptr(len(c.buf)) {
		panic(fmt.Sprintf("arena: backing buffer too small carving %d bytes at offset %d (cap %d)", needed, c.offset, len(c.buf)))
	}

	var out []T
	if count > 0 {
		ptr := unsafe.Pointer(&c.buf[c.offset])
		out = unsafe.Slice((*T)(ptr), count)
	}
	c.offset += needed
	return out
}

func carveDouble[T any](c *carveCursor, count int) Double[T] {
	return Double[T]{
		Front: carve[T](c, count),
		Back:  carve[T](c, count),
	}
}

// New allocates a fresh backing buffer sized exactly to size (via
// RequiredBackingSize, aligned to MaxAlignment) and carves it into the 29
// arrays. R/W regions (position_offset, velocity, fold_angle, error,
// scratch) are zero-initialized by Go's allocator; geometry and parameter
// regions are left zeroed until the Loader populates them.
func New(size model.Size) *Arena {
	required := RequiredBackingSize(size)
	align := MaxAlignment()

	// over-allocate by (align-1) bytes so we can find an aligned start
	// inside a plain []byte, whose backing array Go does not otherwise
	// let us align explicitly.
	raw := make([]byte, required+align-1)
	startOffset := uintptr(0)
	if align > 1 && len(raw) > 0 {
		ptr := uintptr(unsafe.Pointer(&raw[0]))
		if rem := ptr % align; rem != 0 {
			startOffset = align - rem
		}
	}
	backing := raw[startOffset : startOffset+required : startOffset+required]

	a := &Arena{backing: backing, size: size, CreasePercentage: 0.66, Dt: 0.001, FaceStiffness: 1.0}

	cur := &carveCursor{buf: backing}
	n := int(size.Nodes)
	cr := int(size.Creases)
	f := int(size.Faces)
	ncr := int(size.NodeCreases)
	nb := int(size.NodeBeams)
	nf := int(size.NodeFaces)

	a.NodeGeometry = carve[model.NodeGeometry](cur, n)
	a.NodePositionsUnchanging = carve[model.Vec3F](cur, n)
	a.NodeExternalForces = carve[model.Vec3F](cur, n)
	a.NodeMass = carve[float32](cur, n)
	a.NodeFixed = carve[uint8](cur, n)
	a.NodePositionOffset = carveDouble[model.Vec3F](cur, n)
	a.NodeVelocity = carveDouble[model.Vec3F](cur, n)
	a.NodeError = carve[float32](cur, n)

	a.CreaseFaceIndices = carve[CreaseFaceIndices](cur, cr)
	a.CreaseNeighbourhoods = carve[CreaseNeighbourhood](cur, cr)
	a.CreaseK = carve[float32](cur, cr)
	a.CreaseTargetFoldAngle = carve[float32](cur, cr)
	a.CreaseFoldAngleBuf = carveDouble[float32](cur, cr)
	a.CreasePhysics = carve[CreasePhysics](cur, cr)

	a.FaceIndices = carve[model.Vec3U](cur, f)
	a.FaceNominalAngles = carve[model.Vec3F](cur, f)
	a.FaceNormals = carve[model.Vec3F](cur, f)

	a.NodeCreaseCreaseIndices = carve[uint32](cur, ncr)
	a.NodeCreaseNodeNumber = carve[uint32](cur, ncr)
	a.NodeCreaseForces = carve[model.Vec3F](cur, ncr)

	a.NodeBeamSpec = carve[NodeBeamGeom](cur, nb)
	a.NodeBeamLength = carve[float32](cur, nb)
	a.NodeBeamK = carve[float32](cur, nb)
	a.NodeBeamD = carve[float32](cur, nb)
	a.NodeBeamForces = carve[model.Vec3F](cur, nb)
	a.NodeBeamError = carve[float32](cur, nb)

	a.NodeFaceSpec = carve[NodeFaceGeom](cur, nf)
	a.NodeFaceForces = carve[model.Vec3F](cur, nf)
	a.NodeFaceError = carve[float32](cur, nf)

	return a
}

// Size returns the ModelSize this arena was allocated for.
func (a *Arena) Size() model.Size { return a.size }

// Backing exposes the arena's single allocation for backends that mirror
// it somewhere other than Go slices — the GPU backend uploads this exact
// byte range into one storage buffer rather than re-deriving per-array
// offsets (spec.md §9 "never duplicate offset math").
func (a *Arena) Backing() []byte { return a.backing }

// Swap performs the logical front/back exchange of the three
// double-buffered pairs after stage 2 writes the back buffers (spec.md
// §4.2 stage 3). Two consecutive calls are an involution (spec.md §8
// property 7).
func (a *Arena) Swap() {
	a.NodePositionOffset.Swap()
	a.NodeVelocity.Swap()
	a.CreaseFoldAngleBuf.Swap()
}
