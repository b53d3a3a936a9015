package model

import "testing"

func TestVec3FArithmetic(t *testing.T) {
	a := Vec3F{1, 2, 3}
	b := Vec3F{4, 5, 6}

	if got, want := a.Add(b), (Vec3F{5, 7, 9}); got != want {
		t.Errorf("Add = %v, want %v", got, want)
	}
	if got, want := b.Sub(a), (Vec3F{3, 3, 3}); got != want {
		t.Errorf("Sub = %v, want %v", got, want)
	}
	if got, want := a.Scale(2), (Vec3F{2, 4, 6}); got != want {
		t.Errorf("Scale = %v, want %v", got, want)
	}
	if got, want := a.Dot(b), float32(32); got != want {
		t.Errorf("Dot = %v, want %v", got, want)
	}
}

func TestVec3FCross(t *testing.T) {
	x := Vec3F{1, 0, 0}
	y := Vec3F{0, 1, 0}

	got := x.Cross(y)
	want := Vec3F{0, 0, 1}
	if got != want {
		t.Errorf("Cross(x,y) = %v, want %v", got, want)
	}

	// Anticommutativity: a x b == -(b x a)
	ab := x.Cross(y)
	ba := y.Cross(x)
	neg := Vec3F{-ba[0], -ba[1], -ba[2]}
	if ab != neg {
		t.Errorf("Cross not anticommutative: x.Cross(y)=%v, -(y.Cross(x))=%v", ab, neg)
	}
}

func TestSizeIsEmpty(t *testing.T) {
	if !(Size{}).IsEmpty() {
		t.Error("zero-value Size should be empty")
	}
	nonEmpty := Size{Nodes: 1}
	if nonEmpty.IsEmpty() {
		t.Error("Size with Nodes=1 should not be empty")
	}
}
