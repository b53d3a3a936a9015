// Package importer turns one supplemented FOLD frame into the packed,
// triangulated, cross-indexed form the Arena's Loader can walk in a
// single pass (spec.md §4.4–§4.7), in the manner of
// engine/loader/gltf_loader.go's "decode, then normalize, then write
// into the engine" pipeline.
package importer

import "fmt"

// VertexNot3DError is returned when a quad-split needs 3D coordinates
// (to compare diagonal lengths) but a vertex carries fewer than 3
// components.
type VertexNot3DError struct {
	VertexIndex uint32
}

func (e *VertexNot3DError) Error() string {
	return fmt.Sprintf("importer: vertex %d is not 3D", e.VertexIndex)
}

// TriangulatedDiff is the Triangulator's output: the triangulated face
// list, a map back to each triangle's originating face (for UV/attribute
// transfer downstream), and the diagonal edges it had to invent.
type TriangulatedDiff struct {
	FaceIndices     [][3]uint32
	FaceToOriginal  []uint32
	AdditionalEdges [][2]uint32
}

// Triangulate reduces every face in facesVertices (arbitrary polygon
// size) to one or more triangles (spec.md §4.4). vertexCoords is indexed
// by the vertex indices facesVertices references; each row must have at
// least 3 components.
func Triangulate(facesVertices [][]uint32, vertexCoords [][]float32) (*TriangulatedDiff, error) {
	diff := &TriangulatedDiff{}

	for faceIdx, face := range facesVertices {
		switch n := len(face); {
		case n == 3:
			diff.FaceIndices = append(diff.FaceIndices, [3]uint32{face[0], face[1], face[2]})
			diff.FaceToOriginal = append(diff.FaceToOriginal, uint32(faceIdx))

		case n == 4:
			v, err := vec3Of(vertexCoords, face)
			if err != nil {
				return nil, err
			}
			d0 := distSq(v[0], v[2])
			d1 := distSq(v[1], v[3])

			var tri1, tri2 [3]uint32
			var diag [2]uint32
			if d1 < d0 {
				tri1 = [3]uint32{face[0], face[1], face[3]}
				tri2 = [3]uint32{face[1], face[2], face[3]}
				diag = [2]uint32{face[1], face[3]}
			} else {
				tri1 = [3]uint32{face[0], face[1], face[2]}
				tri2 = [3]uint32{face[0], face[2], face[3]}
				diag = [2]uint32{face[0], face[2]}
			}
			diff.AdditionalEdges = append(diff.AdditionalEdges, diag)
			diff.FaceIndices = append(diff.FaceIndices, tri1, tri2)
			diff.FaceToOriginal = append(diff.FaceToOriginal, uint32(faceIdx), uint32(faceIdx))

		default:
			// fan-from-vertex-0: acceptable for convex polygons per
			// spec.md §4.4; this importer does not attempt a best-fit
			// plane projection + earcut for concave n-gons.
			for i := 1; i < n-1; i++ {
				diff.FaceIndices = append(diff.FaceIndices, [3]uint32{face[0], face[i], face[i+1]})
				diff.FaceToOriginal = append(diff.FaceToOriginal, uint32(faceIdx))
				diff.AdditionalEdges = append(diff.AdditionalEdges, [2]uint32{face[0], face[i+1]})
			}
			// n-2 edges emitted above; the last one, (0, n-1), is the
			// polygon's own closing edge, leaving n-3 diagonals.
			if n >= 5 {
				diff.AdditionalEdges = diff.AdditionalEdges[:len(diff.AdditionalEdges)-1]
			}
		}
	}

	return diff, nil
}

func vec3Of(coords [][]float32, idxs []uint32) ([4][3]float32, error) {
	var out [4][3]float32
	for i, vi := range idxs {
		row := coords[vi]
		if len(row) < 3 {
			return out, &VertexNot3DError{VertexIndex: vi}
		}
		out[i] = [3]float32{row[0], row[1], row[2]}
	}
	return out, nil
}

func distSq(a, b [3]float32) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}
