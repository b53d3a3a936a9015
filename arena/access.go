package arena

import "rtori-go/model"

var _ model.Loader = (*Arena)(nil)
var _ model.Extractor = (*Arena)(nil)

func (a *Arena) SetNodePositionUnchanging(idx model.NodeIndex, v model.Vec3F) {
	a.NodePositionsUnchanging[idx] = v
	a.Dirty.NodeUnchanging = true
}

func (a *Arena) SetNodeExternalForce(idx model.NodeIndex, v model.Vec3F) {
	a.NodeExternalForces[idx] = v
	a.Dirty.NodeForces = true
}

func (a *Arena) SetNodeConfig(idx model.NodeIndex, cfg model.NodeConfig) {
	a.NodeMass[idx] = cfg.Mass
	a.NodeFixed[idx] = cfg.Fixed
	a.Dirty.NodeConfig = true
}

func (a *Arena) SetNodeGeometry(idx model.NodeIndex, g model.NodeGeometry) {
	a.NodeGeometry[idx] = g
}

func (a *Arena) SetCreaseGeometry(idx model.CreaseIndex, g model.CreaseGeometry) {
	a.CreaseFaceIndices[idx] = CreaseFaceIndices{
		FaceIndex: [2]model.FaceIndex{g.Faces[0].FaceIndex, g.Faces[1].FaceIndex},
	}
	a.CreaseNeighbourhoods[idx] = CreaseNeighbourhood{
		ComplementNodeIndex: [2]model.NodeIndex{g.Faces[0].ComplementVertexIndex, g.Faces[1].ComplementVertexIndex},
		AdjacentNodeIndex:   [2]model.NodeIndex{g.AdjacentA, g.AdjacentB},
	}
}

func (a *Arena) SetCreaseParameters(idx model.CreaseIndex, p model.CreaseParameters) {
	a.CreaseK[idx] = p.K
	a.CreaseTargetFoldAngle[idx] = p.TargetFoldAngle
	a.Dirty.CreaseParams = true
}

func (a *Arena) SetFaceIndices(idx model.FaceIndex, v model.Vec3U) {
	a.FaceIndices[idx] = v
}

func (a *Arena) SetFaceNominalAngles(idx model.FaceIndex, v model.Vec3F) {
	a.FaceNominalAngles[idx] = v
}

func (a *Arena) SetNodeCrease(idx model.NodeCreaseIndex, s model.NodeCreaseSpec) {
	a.NodeCreaseCreaseIndices[idx] = s.CreaseIndex
	a.NodeCreaseNodeNumber[idx] = s.NodeNumber
}

func (a *Arena) SetNodeBeam(idx model.NodeBeamIndex, s model.NodeBeamSpec) {
	a.NodeBeamSpec[idx] = NodeBeamGeom{NodeIndex: s.NodeIndex, NeighbourIndex: s.NeighbourIndex}
	a.NodeBeamLength[idx] = s.Length
	a.NodeBeamK[idx] = s.K
	a.NodeBeamD[idx] = s.D
	a.Dirty.NodeBeamParams = true
}

func (a *Arena) SetNodeFace(idx model.NodeFaceIndex, s model.NodeFaceSpec) {
	a.NodeFaceSpec[idx] = NodeFaceGeom{NodeIndex: s.NodeIndex, FaceIndex: s.FaceIndex}
}

func (a *Arena) SetGlobals(creasePercentage, dt, faceStiffness float32) {
	a.CreasePercentage = creasePercentage
	a.Dt = dt
	a.FaceStiffness = faceStiffness
}

func (a *Arena) CopyNodePosition(dst []model.Vec3F, offset uint32) int {
	return copyVec3(dst, a.NodePositionAbsolute, offset, a.size.Nodes)
}

// NodePositionAbsolute returns node idx's absolute position (unchanging +
// offset), used by both the extractor and tests asserting round-trip
// property 9.
func (a *Arena) NodePositionAbsolute(idx uint32) model.Vec3F {
	return a.NodePositionsUnchanging[idx].Add(a.NodePositionOffset.Front[idx])
}

func (a *Arena) CopyNodeVelocity(dst []model.Vec3F, offset uint32) int {
	return copyVec3(dst, func(i uint32) model.Vec3F { return a.NodeVelocity.Front[i] }, offset, a.size.Nodes)
}

func (a *Arena) CopyNodeError(dst []float32, offset uint32) int {
	n := int(a.size.Nodes) - int(offset)
	if n < 0 {
		n = 0
	}
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = a.NodeError[offset+uint32(i)]
	}
	return n
}

func (a *Arena) CreaseFoldAngle(idx model.CreaseIndex) float32 {
	return a.CreaseFoldAngleBuf.Front[idx]
}

func copyVec3(dst []model.Vec3F, get func(uint32) model.Vec3F, offset, total uint32) int {
	n := int(total) - int(offset)
	if n < 0 {
		n = 0
	}
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = get(offset + uint32(i))
	}
	return n
}
