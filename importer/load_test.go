package importer

import (
	"testing"

	"rtori-go/arena"
	"rtori-go/fold"
)

// twoTriangleSquare is a unit square split by one mountain diagonal: two
// triangular faces sharing edge (1,3), which importer.ExtractCreases
// should recognize as a single crease.
const twoTriangleSquare = `{
	"vertices_coords": [[0,0,0],[1,0,0],[1,1,0],[0,1,0]],
	"edges_vertices": [[0,1],[1,2],[2,3],[3,0],[1,3]],
	"edges_assignment": ["B","B","B","B","M"],
	"faces_vertices": [[0,1,3],[1,2,3]]
}`

func parseFrame(t *testing.T, doc string) fold.Frame {
	t.Helper()
	d, err := fold.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("fold.Parse: %v", err)
	}
	return d.KeyFrame
}

func TestPrepareComputesExpectedSize(t *testing.T) {
	frame := parseFrame(t, twoTriangleSquare)
	p, err := Prepare(frame, DefaultConfig())
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	size := p.Size()
	if size.Nodes != 4 {
		t.Errorf("Nodes = %d, want 4", size.Nodes)
	}
	if size.Faces != 2 {
		t.Errorf("Faces = %d, want 2", size.Faces)
	}
	if size.Creases != 1 {
		t.Errorf("Creases = %d, want 1 (single mountain diagonal)", size.Creases)
	}
	if size.NodeBeams != uint32(len(frame.EdgesVertices())*2) {
		t.Errorf("NodeBeams = %d, want %d", size.NodeBeams, len(frame.EdgesVertices())*2)
	}
}

func TestLoadWritesIntoArena(t *testing.T) {
	frame := parseFrame(t, twoTriangleSquare)
	p, err := Prepare(frame, DefaultConfig())
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	a := arena.New(p.Size())
	if err := p.WriteInto(a); err != nil {
		t.Fatalf("WriteInto: %v", err)
	}

	for i, mass := range a.NodeMass {
		if mass != 1.0 {
			t.Errorf("NodeMass[%d] = %v, want 1.0 (default)", i, mass)
		}
	}
	if len(a.CreaseK) != 1 {
		t.Fatalf("len(CreaseK) = %d, want 1", len(a.CreaseK))
	}
	if a.CreaseK[0] != DefaultConfig().DefaultCreaseStiffness {
		t.Errorf("CreaseK[0] = %v, want default %v", a.CreaseK[0], DefaultConfig().DefaultCreaseStiffness)
	}
	adj := a.CreaseNeighbourhoods[0].AdjacentNodeIndex
	if adj[0] == adj[1] {
		t.Error("crease's two adjacent nodes must differ")
	}
}

func TestPrepareMissingRequiredField(t *testing.T) {
	d, err := fold.Parse([]byte(`{"vertices_coords":[[0,0,0]],"faces_vertices":[[0]]}`))
	if err != nil {
		t.Fatalf("fold.Parse: %v", err)
	}
	_, err = Prepare(d.KeyFrame, DefaultConfig())
	if err == nil {
		t.Fatal("Prepare with no edges_vertices: want error, got nil")
	}
	mfe, ok := err.(*MissingFieldError)
	if !ok || mfe.Field != "edges_vertices" {
		t.Errorf("Prepare error = %v, want MissingFieldError{edges_vertices}", err)
	}
}

func TestLoadConvenienceWrapperMatchesPrepareWriteInto(t *testing.T) {
	frame := parseFrame(t, twoTriangleSquare)

	p, err := Prepare(frame, DefaultConfig())
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	size, err := Load(frame, DefaultConfig(), arena.New(p.Size()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if size != p.Size() {
		t.Errorf("Load size = %+v, want %+v", size, p.Size())
	}
}
