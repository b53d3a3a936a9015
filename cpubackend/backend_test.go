package cpubackend

import (
	"math"
	"testing"

	"rtori-go/arena"
	"rtori-go/fold"
	"rtori-go/importer"
)

const twoTriangleSquare = `{
	"vertices_coords": [[0,0,0],[1,0,0],[1,1,0],[0,1,0]],
	"edges_vertices": [[0,1],[1,2],[2,3],[3,0],[1,3]],
	"edges_assignment": ["B","B","B","B","M"],
	"faces_vertices": [[0,1,3],[1,2,3]]
}`

func buildArena(t *testing.T) *arena.Arena {
	t.Helper()
	doc, err := fold.Parse([]byte(twoTriangleSquare))
	if err != nil {
		t.Fatalf("fold.Parse: %v", err)
	}
	p, err := importer.Prepare(doc.KeyFrame, importer.DefaultConfig())
	if err != nil {
		t.Fatalf("importer.Prepare: %v", err)
	}
	a := arena.New(p.Size())
	if err := p.WriteInto(a); err != nil {
		t.Fatalf("WriteInto: %v", err)
	}
	return a
}

func TestScalarBackendStepsWithoutPanicking(t *testing.T) {
	a := buildArena(t)
	b := New()
	defer b.Close()
	b.Step(a, 10)
}

// TestMultithreadedMatchesScalar verifies partitioning each stage across
// workers produces the same result as the single-threaded scalar backend,
// since both run the identical per-entity kernel math (spec.md §4.8: the
// two backends must agree bit-for-bit on the same input, modulo floating
// point summation order across worker chunk boundaries, which this model
// is too small to exercise).
func TestMultithreadedMatchesScalar(t *testing.T) {
	scalarArena := buildArena(t)
	mtArena := buildArena(t)

	scalarBackend := New()
	defer scalarBackend.Close()
	mtBackend := NewMultithreaded(4)
	defer mtBackend.Close()

	const steps = 20
	scalarBackend.Step(scalarArena, steps)
	mtBackend.Step(mtArena, steps)

	for i := range scalarArena.NodePositionOffset.Front {
		sp := scalarArena.NodePositionOffset.Front[i]
		mp := mtArena.NodePositionOffset.Front[i]
		for c := 0; c < 3; c++ {
			if math.Abs(float64(sp[c]-mp[c])) > 1e-4 {
				t.Errorf("node %d position component %d diverged: scalar=%v mt=%v", i, c, sp[c], mp[c])
			}
		}
	}
}

func TestNewMultithreadedClampsWorkerCount(t *testing.T) {
	b := NewMultithreaded(0)
	defer b.Close()
	// Should not panic with zero requested workers; exercised indirectly
	// via a Step call succeeding.
	b.Step(buildArena(t), 1)
}
