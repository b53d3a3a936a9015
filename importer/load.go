package importer

import (
	"fmt"
	"math"

	"rtori-go/fold"
	"rtori-go/model"
)

// Config carries the Loader's fallback stiffness/damping parameters —
// spec.md §4.7 "the loader falls back to config.default_*" — plus the
// global scalars written once at load time.
type Config struct {
	DefaultCreaseStiffness float32
	DefaultAxialStiffness  float32
	DampingPercentage      float32
	CreasePercentage       float32
	Dt                     float32
	FaceStiffness          float32
}

// DefaultConfig's global scalars match the defaults arena.New sets
// (spec.md §4.1's scalar defaults), letting a caller override only what
// it needs.
func DefaultConfig() Config {
	return Config{
		DefaultCreaseStiffness: 0.7,
		DefaultAxialStiffness:  20.0,
		DampingPercentage:      0.1,
		CreasePercentage:       0.66,
		Dt:                     0.001,
		FaceStiffness:          1.0,
	}
}

// MissingFieldError reports an importer-level required field absent from
// the frame after inheritance resolution.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("importer: missing required field %q", e.Field)
}

// Prepared is the result of triangulating, supplementing and
// crease-extracting a frame: everything Load needs to know in order to
// size an Arena before it writes a single array into it. Splitting this
// out of Load lets a caller compute ModelSize once — to allocate the
// right-sized Arena — without triangulating and crease-extracting a
// second time just to fill it (spec.md §4.7's loader walk runs exactly
// once per load).
type Prepared struct {
	cfg  Config
	size model.Size

	verticesCoords       [][]float32
	verticesMass         []float32
	edgesVertices        [][2]uint32
	edgesAxialStiffness  []*float32
	edgesCreaseStiffness []*float32
	diff                 *TriangulatedDiff
	creases              []Crease
}

// Size returns the ModelSize an Arena must have for WriteInto to succeed.
func (p *Prepared) Size() model.Size { return p.size }

// Prepare triangulates, supplements and crease-extracts frame and
// returns the resulting ModelSize without writing to any Loader (spec.md
// §6 "load_from_fold" needs the size before it can allocate the Arena
// WriteInto will populate).
func Prepare(frame fold.Frame, cfg Config) (*Prepared, error) {
	verticesCoords := frame.VerticesCoords()
	if verticesCoords == nil {
		return nil, &MissingFieldError{Field: "vertices_coords"}
	}
	rawFacesVertices := frame.FacesVertices()
	if rawFacesVertices == nil {
		return nil, &MissingFieldError{Field: "faces_vertices"}
	}
	edgesVerticesRaw := frame.EdgesVertices()
	if edgesVerticesRaw == nil {
		return nil, &MissingFieldError{Field: "edges_vertices"}
	}
	edgesAssignment := frame.EdgesAssignment()
	if edgesAssignment == nil {
		return nil, &MissingFieldError{Field: "edges_assignment"}
	}

	facesVerticesU32 := make([][]uint32, len(rawFacesVertices))
	for i, f := range rawFacesVertices {
		row := make([]uint32, len(f))
		for j, v := range f {
			row[j] = uint32(v)
		}
		facesVerticesU32[i] = row
	}

	diff, err := Triangulate(facesVerticesU32, verticesCoords)
	if err != nil {
		return nil, err
	}

	edgesVertices := make([][2]uint32, len(edgesVerticesRaw))
	for i, e := range edgesVerticesRaw {
		edgesVertices[i] = [2]uint32{uint32(e[0]), uint32(e[1])}
	}

	topo := Supplement(len(verticesCoords), edgesVertices, diff.FaceIndices)

	creases, err := ExtractCreases(edgesVertices, topo.EdgesFaces, edgesAssignment, frame.EdgesFoldAngle(), diff.FaceIndices)
	if err != nil {
		return nil, err
	}

	size := model.Size{
		Nodes:       uint32(len(verticesCoords)),
		Creases:     uint32(len(creases)),
		Faces:       uint32(len(diff.FaceIndices)),
		NodeCreases: uint32(len(creases) * 4),
		NodeBeams:   uint32(len(edgesVertices) * 2),
		NodeFaces:   uint32(len(diff.FaceIndices) * 3),
	}

	return &Prepared{
		cfg:                  cfg,
		size:                 size,
		verticesCoords:       verticesCoords,
		verticesMass:         frame.VerticesMass(),
		edgesVertices:        edgesVertices,
		edgesAxialStiffness:  frame.EdgesAxialStiffness(),
		edgesCreaseStiffness: frame.EdgesCreaseStiffness(),
		diff:                 diff,
		creases:              creases,
	}, nil
}

// Load is Prepare followed by WriteInto against a Loader already sized
// to the frame — the common case where a caller doesn't need the
// ModelSize split out as its own step (e.g. a fixed-size Loader in a
// test). It returns the ModelSize it wrote.
func Load(frame fold.Frame, cfg Config, loader model.Loader) (model.Size, error) {
	p, err := Prepare(frame, cfg)
	if err != nil {
		return model.Size{}, err
	}
	if err := p.WriteInto(loader); err != nil {
		return model.Size{}, err
	}
	return p.size, nil
}

// WriteInto walks the prepared frame once and writes every array into
// loader (spec.md §4.7). loader must already be sized to p.Size().
func (p *Prepared) WriteInto(loader model.Loader) error {
	cfg := p.cfg
	verticesCoords := p.verticesCoords
	verticesMass := p.verticesMass
	edgesVertices := p.edgesVertices
	edgesAxialStiffness := p.edgesAxialStiffness
	edgesCreaseStiffness := p.edgesCreaseStiffness
	diff := p.diff
	creases := p.creases
	size := p.size

	loader.SetGlobals(cfg.CreasePercentage, cfg.Dt, cfg.FaceStiffness)

	// per-node arrays, one pass over vertices.
	for v, coord := range verticesCoords {
		pos := model.Vec3F{}
		for i := 0; i < 3 && i < len(coord); i++ {
			pos[i] = coord[i]
		}
		loader.SetNodePositionUnchanging(model.NodeIndex(v), pos)
		loader.SetNodeExternalForce(model.NodeIndex(v), model.Vec3F{})

		mass := float32(1.0)
		if verticesMass != nil && v < len(verticesMass) {
			mass = verticesMass[v]
		}
		loader.SetNodeConfig(model.NodeIndex(v), model.NodeConfig{Mass: mass, Fixed: 0})
	}

	// per-crease geometry/parameters.
	type nodeCreaseRecord struct {
		nodeIdx    uint32
		creaseIdx  uint32
		nodeNumber uint32
	}
	var nodeCreaseRecords []nodeCreaseRecord

	for ci, c := range creases {
		edge := edgesVertices[c.EdgeIndex]
		loader.SetCreaseGeometry(model.CreaseIndex(ci), model.CreaseGeometry{
			Faces: [2]model.CreaseFace{
				{FaceIndex: model.FaceIndex(c.Faces[0].FaceIndex), ComplementVertexIndex: model.NodeIndex(c.Faces[0].ComplementVertexIndex)},
				{FaceIndex: model.FaceIndex(c.Faces[1].FaceIndex), ComplementVertexIndex: model.NodeIndex(c.Faces[1].ComplementVertexIndex)},
			},
			AdjacentA: model.NodeIndex(edge[0]),
			AdjacentB: model.NodeIndex(edge[1]),
		})

		k := cfg.DefaultCreaseStiffness
		if edgesCreaseStiffness != nil && int(c.EdgeIndex) < len(edgesCreaseStiffness) && edgesCreaseStiffness[c.EdgeIndex] != nil {
			k = *edgesCreaseStiffness[c.EdgeIndex]
		}

		massA, massB := float32(1.0), float32(1.0)
		if verticesMass != nil {
			if int(edge[0]) < len(verticesMass) {
				massA = verticesMass[edge[0]]
			}
			if int(edge[1]) < len(verticesMass) {
				massB = verticesMass[edge[1]]
			}
		}
		avgMass := (massA + massB) / 2
		d := cfg.DampingPercentage * 2 * float32(math.Sqrt(float64(k*avgMass)))

		loader.SetCreaseParameters(model.CreaseIndex(ci), model.CreaseParameters{
			K:               k,
			D:               d,
			TargetFoldAngle: c.FoldAngle,
		})
		nodeCreaseRecords = append(nodeCreaseRecords,
			nodeCreaseRecord{nodeIdx: c.Faces[0].ComplementVertexIndex, creaseIdx: uint32(ci), nodeNumber: model.NodeCreaseRoleComplementA},
			nodeCreaseRecord{nodeIdx: c.Faces[1].ComplementVertexIndex, creaseIdx: uint32(ci), nodeNumber: model.NodeCreaseRoleComplementB},
			nodeCreaseRecord{nodeIdx: edge[0], creaseIdx: uint32(ci), nodeNumber: model.NodeCreaseRoleAdjacentA},
			nodeCreaseRecord{nodeIdx: edge[1], creaseIdx: uint32(ci), nodeNumber: model.NodeCreaseRoleAdjacentB},
		)
	}

	// per-face geometry.
	type nodeFaceRecord struct {
		nodeIdx uint32
		faceIdx uint32
	}
	var nodeFaceRecords []nodeFaceRecord

	for fi, face := range diff.FaceIndices {
		loader.SetFaceIndices(model.FaceIndex(fi), model.Vec3U{face[0], face[1], face[2]})
		loader.SetFaceNominalAngles(model.FaceIndex(fi), nominalAngles(verticesCoords, face))
		for _, n := range face {
			nodeFaceRecords = append(nodeFaceRecords, nodeFaceRecord{nodeIdx: n, faceIdx: uint32(fi)})
		}
	}

	// per-edge beams, two records per edge (one per endpoint).
	type nodeBeamRecord struct {
		nodeIdx uint32
		spec    model.NodeBeamSpec
	}
	var nodeBeamRecords []nodeBeamRecord

	for ei, edge := range edgesVertices {
		j, nb := edge[0], edge[1]
		length := vecDist(verticesCoords, j, nb)

		k := cfg.DefaultAxialStiffness
		if edgesAxialStiffness != nil && ei < len(edgesAxialStiffness) && edgesAxialStiffness[ei] != nil {
			k = *edgesAxialStiffness[ei]
		}
		massJ, massNb := float32(1.0), float32(1.0)
		if verticesMass != nil {
			if int(j) < len(verticesMass) {
				massJ = verticesMass[j]
			}
			if int(nb) < len(verticesMass) {
				massNb = verticesMass[nb]
			}
		}
		d := cfg.DampingPercentage * 2 * float32(math.Sqrt(float64(k*massJ)))
		dNb := cfg.DampingPercentage * 2 * float32(math.Sqrt(float64(k*massNb)))

		nodeBeamRecords = append(nodeBeamRecords,
			nodeBeamRecord{nodeIdx: j, spec: model.NodeBeamSpec{NodeIndex: model.NodeIndex(j), NeighbourIndex: model.NodeIndex(nb), K: k, D: d, Length: length}},
			nodeBeamRecord{nodeIdx: nb, spec: model.NodeBeamSpec{NodeIndex: model.NodeIndex(nb), NeighbourIndex: model.NodeIndex(j), K: k, D: dNb, Length: length}},
		)
	}

	// Group each reverse-index kind by node, write contiguous runs, and
	// record the resulting {offset,count} range per node (spec.md §4.7).
	creaseRanges := groupByNode(size.Nodes, nodeCreaseRecords, func(r nodeCreaseRecord) uint32 { return r.nodeIdx })
	for idx, ord := range creaseRanges.order {
		r := nodeCreaseRecords[ord]
		loader.SetNodeCrease(model.NodeCreaseIndex(idx), model.NodeCreaseSpec{CreaseIndex: model.CreaseIndex(r.creaseIdx), NodeNumber: r.nodeNumber})
	}

	beamRanges := groupByNode(size.Nodes, nodeBeamRecords, func(r nodeBeamRecord) uint32 { return r.nodeIdx })
	for idx, ord := range beamRanges.order {
		loader.SetNodeBeam(model.NodeBeamIndex(idx), nodeBeamRecords[ord].spec)
	}

	faceRanges := groupByNode(size.Nodes, nodeFaceRecords, func(r nodeFaceRecord) uint32 { return r.nodeIdx })
	for idx, ord := range faceRanges.order {
		r := nodeFaceRecords[ord]
		loader.SetNodeFace(model.NodeFaceIndex(idx), model.NodeFaceSpec{NodeIndex: model.NodeIndex(r.nodeIdx), FaceIndex: model.FaceIndex(r.faceIdx)})
	}

	for v := uint32(0); v < size.Nodes; v++ {
		loader.SetNodeGeometry(model.NodeIndex(v), model.NodeGeometry{
			Creases: creaseRanges.ranges[v],
			Beams:   beamRanges.ranges[v],
			Faces:   faceRanges.ranges[v],
		})
	}

	return nil
}

// groupedRanges is groupByNode's result: order is the permutation that
// sorts the original records by node index (stable within each node, so
// each node's records stay in original relative order), and ranges[v] is
// node v's {offset,count} window into that permutation.
type groupedRanges struct {
	order  []int
	ranges []model.Range
}

func groupByNode[T any](nodeCount uint32, records []T, nodeOf func(T) uint32) groupedRanges {
	buckets := make([][]int, nodeCount)
	for i, r := range records {
		n := nodeOf(r)
		buckets[n] = append(buckets[n], i)
	}
	out := groupedRanges{ranges: make([]model.Range, nodeCount)}
	var cursor uint32
	for v := uint32(0); v < nodeCount; v++ {
		b := buckets[v]
		out.ranges[v] = model.Range{Offset: cursor, Count: uint32(len(b))}
		out.order = append(out.order, b...)
		cursor += uint32(len(b))
	}
	return out
}

func nominalAngles(coords [][]float32, face [3]uint32) model.Vec3F {
	a := vec3At(coords, face[0])
	b := vec3At(coords, face[1])
	c := vec3At(coords, face[2])

	angleAt := func(p, q, r model.Vec3F) float32 {
		u := q.Sub(p)
		v := r.Sub(p)
		lu := float32(math.Sqrt(float64(u.Dot(u))))
		lv := float32(math.Sqrt(float64(v.Dot(v))))
		if lu == 0 || lv == 0 {
			return 0
		}
		cos := u.Dot(v) / (lu * lv)
		if cos > 1 {
			cos = 1
		} else if cos < -1 {
			cos = -1
		}
		return float32(math.Acos(float64(cos)))
	}

	return model.Vec3F{angleAt(a, b, c), angleAt(b, c, a), angleAt(c, a, b)}
}

func vec3At(coords [][]float32, idx uint32) model.Vec3F {
	row := coords[idx]
	var v model.Vec3F
	for i := 0; i < 3 && i < len(row); i++ {
		v[i] = row[i]
	}
	return v
}

func vecDist(coords [][]float32, a, b uint32) float32 {
	va, vb := vec3At(coords, a), vec3At(coords, b)
	d := va.Sub(vb)
	return float32(math.Sqrt(float64(d.Dot(d))))
}
