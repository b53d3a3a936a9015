package importer

// Topology is the derived cross-indexing spec.md §4.5 asks for: per
// vertex, the incident edges and faces; per edge, the adjacent faces.
type Topology struct {
	VerticesEdges [][]uint32
	VerticesFaces [][]uint32
	EdgesFaces    [][]uint32
}

type edgeKey [2]uint32

func makeEdgeKey(a, b uint32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Supplement derives vertices_edges, vertices_faces and edges_faces from
// edgesVertices and the (already-triangulated) facesVertices, per
// spec.md §4.5. vertexCount bounds the per-vertex slices.
func Supplement(vertexCount int, edgesVertices [][2]uint32, facesVertices [][3]uint32) Topology {
	t := Topology{
		VerticesEdges: make([][]uint32, vertexCount),
		VerticesFaces: make([][]uint32, vertexCount),
		EdgesFaces:    make([][]uint32, len(edgesVertices)),
	}

	for e, ev := range edgesVertices {
		t.VerticesEdges[ev[0]] = append(t.VerticesEdges[ev[0]], uint32(e))
		t.VerticesEdges[ev[1]] = append(t.VerticesEdges[ev[1]], uint32(e))
	}

	// sorted-key pair map (min(u,v), max(u,v)) -> faces, built from the
	// triangulated face list, per spec.md §4.5.
	faceByEdge := make(map[edgeKey][]uint32, len(facesVertices)*3)
	addFace := func(a, b uint32, face uint32) {
		key := makeEdgeKey(a, b)
		existing := faceByEdge[key]
		if len(existing) >= 2 {
			// manifold violation tolerated: keep the existing ordering,
			// drop the excess per spec.md §4.5's "flag" allowance —
			// there's no side channel for a warning in this shape, so
			// the first two adjacent faces win.
			return
		}
		faceByEdge[key] = append(existing, face)
	}

	for f, face := range facesVertices {
		fi := uint32(f)
		t.VerticesFaces[face[0]] = append(t.VerticesFaces[face[0]], fi)
		t.VerticesFaces[face[1]] = append(t.VerticesFaces[face[1]], fi)
		t.VerticesFaces[face[2]] = append(t.VerticesFaces[face[2]], fi)

		addFace(face[0], face[1], fi)
		addFace(face[1], face[2], fi)
		addFace(face[2], face[0], fi)
	}

	for e, ev := range edgesVertices {
		key := makeEdgeKey(ev[0], ev[1])
		// absent from the map yields an empty face list — boundary
		// edges without a face, allowed but unusual per spec.md §4.5.
		t.EdgesFaces[e] = faceByEdge[key]
	}

	return t
}
