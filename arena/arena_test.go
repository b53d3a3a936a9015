package arena

import (
	"testing"

	"rtori-go/model"
)

func testSize() model.Size {
	return model.Size{Nodes: 4, Creases: 2, Faces: 2, NodeCreases: 8, NodeBeams: 4, NodeFaces: 6}
}

func TestNewCarvesExpectedLengths(t *testing.T) {
	size := testSize()
	a := New(size)

	if got := len(a.NodeMass); got != int(size.Nodes) {
		t.Errorf("len(NodeMass) = %d, want %d", got, size.Nodes)
	}
	if got := len(a.NodePositionOffset.Front); got != int(size.Nodes) {
		t.Errorf("len(NodePositionOffset.Front) = %d, want %d", got, size.Nodes)
	}
	if got := len(a.NodePositionOffset.Back); got != int(size.Nodes) {
		t.Errorf("len(NodePositionOffset.Back) = %d, want %d", got, size.Nodes)
	}
	if got := len(a.CreaseK); got != int(size.Creases) {
		t.Errorf("len(CreaseK) = %d, want %d", got, size.Creases)
	}
	if got := len(a.FaceIndices); got != int(size.Faces) {
		t.Errorf("len(FaceIndices) = %d, want %d", got, size.Faces)
	}
	if got := len(a.NodeBeamSpec); got != int(size.NodeBeams) {
		t.Errorf("len(NodeBeamSpec) = %d, want %d", got, size.NodeBeams)
	}
}

func TestNewEmptySizeProducesNoPanic(t *testing.T) {
	a := New(model.Size{})
	if len(a.NodeMass) != 0 {
		t.Errorf("len(NodeMass) for empty size = %d, want 0", len(a.NodeMass))
	}
	if len(a.Backing()) != 0 {
		t.Errorf("len(Backing()) for empty size = %d, want 0", len(a.Backing()))
	}
}

// TestSwapExchangesBuffers verifies writing to Back, then Swap, surfaces
// the write through Front — and that two Swaps are an involution (spec.md
// §8 property 7).
func TestSwapExchangesBuffers(t *testing.T) {
	a := New(testSize())

	a.NodeVelocity.Back[0] = model.Vec3F{1, 2, 3}
	a.Swap()

	if got, want := a.NodeVelocity.Front[0], (model.Vec3F{1, 2, 3}); got != want {
		t.Errorf("after Swap, Front[0] = %v, want %v", got, want)
	}

	frontBefore := a.NodeVelocity.Front
	backBefore := a.NodeVelocity.Back
	a.Swap()
	a.Swap()
	if &a.NodeVelocity.Front[0] != &frontBefore[0] || &a.NodeVelocity.Back[0] != &backBefore[0] {
		t.Error("two Swaps should be an involution (return to original front/back)")
	}
}

func TestClearDirtyResetsAllFlags(t *testing.T) {
	a := New(testSize())
	a.Dirty = ParamsDirty{NodeConfig: true, CreaseParams: true}
	a.ClearDirty()
	if a.Dirty != (ParamsDirty{}) {
		t.Errorf("ClearDirty left %+v, want zero value", a.Dirty)
	}
}

func TestBackingLengthMatchesRequiredBackingSize(t *testing.T) {
	size := testSize()
	a := New(size)
	if got, want := len(a.Backing()), int(RequiredBackingSize(size)); got != want {
		t.Errorf("len(Backing()) = %d, want %d", got, want)
	}
}

func TestCreasePhysicsInvalidSentinel(t *testing.T) {
	if !InvalidCreasePhysics.Invalid() {
		t.Error("InvalidCreasePhysics.Invalid() = false, want true")
	}
	valid := CreasePhysics{AHeight: 1, ACoef: 0.5, BHeight: 1, BCoef: 0.5}
	if valid.Invalid() {
		t.Error("plausible CreasePhysics reported Invalid")
	}
}
