package fold

// Frame is the resolved, read-only view over one FOLD frame. Per spec.md
// §9 "Inheriting frames", a frame with frame_inherit == true reads its
// parent for any field it does not itself carry; Frame models the three
// arms (key / non-inheriting / inheriting) as one type with a parent
// pointer rather than a Go interface, since every accessor's fallback
// logic is identical: try the local raw frame, then recurse to parent.
// This keeps resolution lazy — no merged array is ever allocated unless a
// caller calls Materialize.
type Frame struct {
	raw    *rawFrame
	parent *Frame
}

// IsInheriting reports whether this frame patches a parent frame.
func (f Frame) IsInheriting() bool {
	return f.raw.FrameInherit && f.parent != nil
}

// VerticesCoords returns this frame's vertex coordinates, falling back to
// the parent chain if this frame doesn't carry its own.
func (f Frame) VerticesCoords() [][]float32 {
	if f.raw.VerticesCoords != nil {
		return f.raw.VerticesCoords
	}
	if f.parent != nil {
		return f.parent.VerticesCoords()
	}
	return nil
}

// EdgesVertices returns this frame's edge endpoint pairs, with fallback.
func (f Frame) EdgesVertices() [][2]int {
	if f.raw.EdgesVertices != nil {
		return f.raw.EdgesVertices
	}
	if f.parent != nil {
		return f.parent.EdgesVertices()
	}
	return nil
}

// EdgesAssignment returns this frame's per-edge M/V/F/... tags, with
// fallback.
func (f Frame) EdgesAssignment() []EdgeAssignment {
	if f.raw.EdgesAssignment != nil {
		return f.raw.EdgesAssignment
	}
	if f.parent != nil {
		return f.parent.EdgesAssignment()
	}
	return nil
}

// EdgesFoldAngle returns this frame's per-edge fold angle in degrees (nil
// entries mean "use the assignment default"), with fallback.
func (f Frame) EdgesFoldAngle() []*float32 {
	if f.raw.EdgesFoldAngle != nil {
		return f.raw.EdgesFoldAngle
	}
	if f.parent != nil {
		return f.parent.EdgesFoldAngle()
	}
	return nil
}

// EdgesCreaseStiffness returns this frame's per-edge crease stiffness
// override, with fallback.
func (f Frame) EdgesCreaseStiffness() []*float32 {
	if f.raw.EdgesCreaseStiffness != nil {
		return f.raw.EdgesCreaseStiffness
	}
	if f.parent != nil {
		return f.parent.EdgesCreaseStiffness()
	}
	return nil
}

// EdgesAxialStiffness returns this frame's per-edge axial stiffness
// override, with fallback.
func (f Frame) EdgesAxialStiffness() []*float32 {
	if f.raw.EdgesAxialStiffness != nil {
		return f.raw.EdgesAxialStiffness
	}
	if f.parent != nil {
		return f.parent.EdgesAxialStiffness()
	}
	return nil
}

// EdgesFaces returns this frame's precomputed per-edge adjacent faces, if
// supplied, with fallback.
func (f Frame) EdgesFaces() [][]int {
	if f.raw.EdgesFaces != nil {
		return f.raw.EdgesFaces
	}
	if f.parent != nil {
		return f.parent.EdgesFaces()
	}
	return nil
}

// FacesVertices returns this frame's per-face vertex index lists
// (variable polygon size), with fallback.
func (f Frame) FacesVertices() [][]int {
	if f.raw.FacesVertices != nil {
		return f.raw.FacesVertices
	}
	if f.parent != nil {
		return f.parent.FacesVertices()
	}
	return nil
}

// VerticesEdges returns this frame's precomputed per-vertex incident edge
// lists, if supplied, with fallback.
func (f Frame) VerticesEdges() [][]int {
	if f.raw.VerticesEdges != nil {
		return f.raw.VerticesEdges
	}
	if f.parent != nil {
		return f.parent.VerticesEdges()
	}
	return nil
}

// VerticesFaces returns this frame's precomputed per-vertex incident face
// lists, if supplied, with fallback.
func (f Frame) VerticesFaces() [][]int {
	if f.raw.VerticesFaces != nil {
		return f.raw.VerticesFaces
	}
	if f.parent != nil {
		return f.parent.VerticesFaces()
	}
	return nil
}

// VerticesMass returns this frame's per-vertex mass override, with
// fallback.
func (f Frame) VerticesMass() []float32 {
	if f.raw.VerticesMass != nil {
		return f.raw.VerticesMass
	}
	if f.parent != nil {
		return f.parent.VerticesMass()
	}
	return nil
}

// Materialized is a frame with every field resolved into its own owned
// arrays — the eager form a caller reaches for when it needs to hold a
// frame beyond the Document's lifetime, or to Clone it over the wire.
type Materialized struct {
	VerticesCoords       [][]float32
	VerticesEdges        [][]int
	VerticesFaces        [][]int
	VerticesMass         []float32
	EdgesVertices        [][2]int
	EdgesAssignment      []EdgeAssignment
	EdgesFoldAngle       []*float32
	EdgesCreaseStiffness []*float32
	EdgesAxialStiffness  []*float32
	EdgesFaces           [][]int
	FacesVertices        [][]int
}

// Materialize resolves every inheritable field through the parent chain
// once and returns an owned copy, per spec.md §9's "Materializing an
// inheriting frame into a concrete frame requires allocating merged
// arrays; the spec permits lazy per-field fallback" — Frame's accessors
// are the lazy path, Materialize is the eager one.
func (f Frame) Materialize() Materialized {
	return Materialized{
		VerticesCoords:       f.VerticesCoords(),
		VerticesEdges:        f.VerticesEdges(),
		VerticesFaces:        f.VerticesFaces(),
		VerticesMass:         f.VerticesMass(),
		EdgesVertices:        f.EdgesVertices(),
		EdgesAssignment:      f.EdgesAssignment(),
		EdgesFoldAngle:       f.EdgesFoldAngle(),
		EdgesCreaseStiffness: f.EdgesCreaseStiffness(),
		EdgesAxialStiffness:  f.EdgesAxialStiffness(),
		EdgesFaces:           f.EdgesFaces(),
		FacesVertices:        f.FacesVertices(),
	}
}

// Clone returns a deep, independent copy of this frame's materialized
// form. Since the pack carries no postcard-equivalent binary codec, this
// plays postcard's role (spec.md §9's "self-referential parsed frame")
// over the JSON codec the solver already speaks: marshal then unmarshal.
// Property 10 (round-trip) holds over this pair.
func (f Frame) Clone() (Materialized, error) {
	m := f.Materialize()
	return cloneMaterialized(m)
}
