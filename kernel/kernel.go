// Package kernel implements the six-stage per-step physics pipeline of
// spec.md §4.2 as plain Go functions over an *arena.Arena, the way
// engine/physics' fixed-step integrator walked engine/scene component
// slices directly rather than through a scheduler abstraction. Backends
// (cpubackend, gpubackend) choose how each stage's per-entity loop is
// dispatched; this package defines what each stage computes.
package kernel

import (
	"math"

	"rtori-go/arena"
	"rtori-go/model"
)

const degenerateTolerance = 1e-6

// position returns node idx's absolute position: unchanging + the
// current front offset.
func position(a *arena.Arena, idx model.NodeIndex) model.Vec3F {
	return a.NodePositionsUnchanging[idx].Add(a.NodePositionOffset.Front[idx])
}

// FaceNormals is stage 0: for every face, the normalized cross product
// of its two edge vectors from vertex 0.
func FaceNormals(a *arena.Arena) { FaceNormalsRange(a, 0, len(a.FaceIndices)) }

// FaceNormalsRange runs stage 0 over faces [lo, hi) only — the unit of
// work a CPU_MT backend hands to one worker.
func FaceNormalsRange(a *arena.Arena, lo, hi int) {
	for f := lo; f < hi; f++ {
		idx := a.FaceIndices[f]
		p0 := position(a, model.NodeIndex(idx[0]))
		p1 := position(a, model.NodeIndex(idx[1]))
		p2 := position(a, model.NodeIndex(idx[2]))

		n := p1.Sub(p0).Cross(p2.Sub(p0))
		a.FaceNormals[f] = normalize(n)
	}
}

// CreaseFoldAngles is stage 1a: the dihedral angle between a crease's two
// adjacent face normals, continuity-corrected against the previous
// step's angle so the winding number is preserved across the atan2
// branch cut (spec.md §4.2 stage 1a).
func CreaseFoldAngles(a *arena.Arena) { CreaseFoldAnglesRange(a, 0, len(a.CreaseFaceIndices)) }

// CreaseFoldAnglesRange runs stage 1a over creases [lo, hi) only.
func CreaseFoldAnglesRange(a *arena.Arena, lo, hi int) {
	for c := lo; c < hi; c++ {
		faceA := a.CreaseFaceIndices[c].FaceIndex[0]
		faceB := a.CreaseFaceIndices[c].FaceIndex[1]
		nA := a.FaceNormals[faceA]
		nB := a.FaceNormals[faceB]

		va := position(a, a.CreaseNeighbourhoods[c].AdjacentNodeIndex[0])
		vb := position(a, a.CreaseNeighbourhoods[c].AdjacentNodeIndex[1])

		d := clamp(nA.Dot(nB), -1, 1)
		e := normalize(vb.Sub(va))
		y := nA.Cross(e).Dot(nB)

		thetaRaw := float32(math.Atan2(float64(y), float64(d)))

		prev := a.CreaseFoldAngleBuf.Front[c]
		delta := thetaRaw - prev
		switch {
		case delta <= -5:
			delta += 2 * math.Pi
		case delta >= 5:
			delta -= 2 * math.Pi
		}
		a.CreaseFoldAngleBuf.Back[c] = prev + delta
	}
}

// CreasePhysics is stage 1b: per crease, the perpendicular height and
// barycentric coefficient of each complement vertex relative to the
// crease line, or the degenerate sentinel when the crease or a
// complement's projection collapses (spec.md §4.2 stage 1b).
func CreasePhysics(a *arena.Arena) { CreasePhysicsRange(a, 0, len(a.CreaseNeighbourhoods)) }

// CreasePhysicsRange runs stage 1b over creases [lo, hi) only.
func CreasePhysicsRange(a *arena.Arena, lo, hi int) {
	for c := lo; c < hi; c++ {
		nb := a.CreaseNeighbourhoods[c]

		ea := position(a, nb.AdjacentNodeIndex[0])
		eb := position(a, nb.AdjacentNodeIndex[1])
		fa := position(a, nb.ComplementNodeIndex[0])
		fb := position(a, nb.ComplementNodeIndex[1])

		cv := eb.Sub(ea)
		length := vecLen(cv)
		if length < degenerateTolerance {
			a.CreasePhysics[c] = arena.InvalidCreasePhysics
			continue
		}
		cvHat := cv.Scale(1 / length)

		project := func(f model.Vec3F) (height, coef float32, ok bool) {
			v := f.Sub(ea)
			proj := cvHat.Dot(v)
			distSq := v.Dot(v) - proj*proj
			if distSq < 0 {
				distSq = -distSq
			}
			dist := float32(math.Sqrt(float64(distSq)))
			if dist <= degenerateTolerance {
				return 0, 0, false
			}
			return dist, proj / length, true
		}

		aHeight, aCoef, okA := project(fa)
		bHeight, bCoef, okB := project(fb)
		if !okA || !okB {
			a.CreasePhysics[c] = arena.InvalidCreasePhysics
			continue
		}
		a.CreasePhysics[c] = arena.CreasePhysics{AHeight: aHeight, ACoef: aCoef, BHeight: bHeight, BCoef: bCoef}
	}
}

// NodeCreaseForces is stage 1c: the per-node-crease reaction force, zero
// for a degenerate crease (spec.md §4.2 stage 1c).
func NodeCreaseForces(a *arena.Arena) { NodeCreaseForcesRange(a, 0, len(a.NodeCreaseCreaseIndices)) }

// NodeCreaseForcesRange runs stage 1c over node_creases [lo, hi) only.
func NodeCreaseForcesRange(a *arena.Arena, lo, hi int) {
	for i := lo; i < hi; i++ {
		c := a.NodeCreaseCreaseIndices[i]
		phys := a.CreasePhysics[c]
		if phys.Invalid() {
			a.NodeCreaseForces[i] = model.Vec3F{}
			continue
		}

		nodeNumber := a.NodeCreaseNodeNumber[i]
		target := a.CreaseTargetFoldAngle[c] * a.CreasePercentage
		foldAngle := a.CreaseFoldAngleBuf.Front[c]
		fMag := a.CreaseK[c] * (target - foldAngle)

		faceA := a.CreaseFaceIndices[c].FaceIndex[0]
		faceB := a.CreaseFaceIndices[c].FaceIndex[1]
		nA := a.FaceNormals[faceA]
		nB := a.FaceNormals[faceB]

		var force model.Vec3F
		if nodeNumber >= 2 {
			coefA, coefB := phys.ACoef, phys.BCoef
			if nodeNumber == 3 {
				coefA, coefB = 1-phys.ACoef, 1-phys.BCoef
			}
			sum := nA.Scale(coefA / phys.AHeight).Add(nB.Scale(coefB / phys.BHeight))
			force = sum.Scale(-fMag)
		} else {
			n := nA
			h := phys.AHeight
			if nodeNumber == 1 {
				n = nB
				h = phys.BHeight
			}
			force = n.Scale(fMag / h)
		}
		a.NodeCreaseForces[i] = force
	}
}

// NodeBeamForces is stage 1d: the axial spring force along each beam
// (spec.md §4.2 stage 1d).
func NodeBeamForces(a *arena.Arena) { NodeBeamForcesRange(a, 0, len(a.NodeBeamSpec)) }

// NodeBeamForcesRange runs stage 1d over node_beams [lo, hi) only.
func NodeBeamForcesRange(a *arena.Arena, lo, hi int) {
	for i := lo; i < hi; i++ {
		spec := a.NodeBeamSpec[i]
		j, nb := spec.NodeIndex, spec.NeighbourIndex

		deltaPNom := a.NodePositionsUnchanging[nb].Sub(a.NodePositionsUnchanging[j])
		deltaP := a.NodePositionOffset.Front[nb].Sub(a.NodePositionOffset.Front[j]).Add(deltaPNom)
		length := vecLen(deltaP)

		targetLen := a.NodeBeamLength[i]
		var deltaPAdj model.Vec3F
		var errVal float32
		if length > 0 {
			deltaPAdj = deltaP.Scale(targetLen / length)
			errVal = absF(targetLen/length - 1)
		}

		deltaV := a.NodeVelocity.Front[nb].Sub(a.NodeVelocity.Front[j])
		force := deltaPAdj.Scale(a.NodeBeamK[i]).Add(deltaV.Scale(a.NodeBeamD[i]))

		a.NodeBeamForces[i] = force
		a.NodeBeamError[i] = errVal
	}
}

// NodeFaceForces is stage 1e: each face's bending-resistance moment,
// distributed to its three vertices (spec.md §4.2 stage 1e).
func NodeFaceForces(a *arena.Arena) { NodeFaceForcesRange(a, 0, len(a.NodeFaceSpec)) }

// NodeFaceForcesRange runs stage 1e over node_faces [lo, hi) only.
func NodeFaceForcesRange(a *arena.Arena, lo, hi int) {
	for i := lo; i < hi; i++ {
		spec := a.NodeFaceSpec[i]
		faceIdx := a.FaceIndices[spec.FaceIndex]
		vA, vB, vC := model.NodeIndex(faceIdx[0]), model.NodeIndex(faceIdx[1]), model.NodeIndex(faceIdx[2])

		A, B, C := position(a, vA), position(a, vB), position(a, vC)
		abVec, acVec, bcVec := B.Sub(A), C.Sub(A), C.Sub(B)
		abLen, acLen, bcLen := vecLen(abVec), vecLen(acVec), vecLen(bcVec)

		ab := scaleSafe(abVec, abLen)
		ac := scaleSafe(acVec, acLen)
		bc := scaleSafe(bcVec, bcLen)

		cosA := clamp(ab.Dot(ac), -1, 1)
		angleA := float32(math.Acos(float64(cosA)))
		angleB := -ab.Dot(bc)
		angleC := ac.Dot(bc)

		nominal := a.FaceNominalAngles[spec.FaceIndex]
		stiffness := a.FaceStiffness
		dA := (nominal[0] - angleA) * stiffness
		dB := (nominal[1] - angleB) * stiffness
		dC := (nominal[2] - angleC) * stiffness

		normal := a.FaceNormals[spec.FaceIndex]

		isA := spec.NodeIndex == vA
		isB := spec.NodeIndex == vB
		isC := spec.NodeIndex == vC

		left, leftLen := ab, abLen
		if isB {
			left, leftLen = ac, acLen
		}
		right, rightLen := ab, abLen
		if isA {
			right, rightLen = bc, bcLen
		}

		crossLeft := scaleSafe(normal.Cross(left), leftLen)
		crossRight := scaleSafe(normal.Cross(right), rightLen)

		var force model.Vec3F
		switch {
		case isA:
			force = force.Sub(crossLeft.Sub(crossRight).Scale(dA))
			force = force.Sub(crossRight.Scale(dB))
			force = force.Add(crossLeft.Scale(dC))
		case isB:
			force = force.Sub(left.Scale(dA))
			force = force.Add(left.Add(right).Scale(dB))
			force = force.Sub(right.Scale(dC))
		case isC:
			force = force.Add(left.Scale(dA))
			force = force.Sub(right.Scale(dB))
			force = force.Add(right.Sub(left).Scale(dC))
		}

		a.NodeFaceForces[i] = force
	}
}

// IntegrateNodes is stage 2: the segmented reduction of each node's
// constraint forces into a velocity and position update, written to the
// back buffer (spec.md §4.2 stage 2).
func IntegrateNodes(a *arena.Arena) { IntegrateNodesRange(a, 0, len(a.NodeGeometry)) }

// IntegrateNodesRange runs stage 2 over nodes [lo, hi) only.
func IntegrateNodesRange(a *arena.Arena, lo, hi int) {
	for j := lo; j < hi; j++ {
		geom := a.NodeGeometry[j]

		fCrease := sumVec3Range(a.NodeCreaseForces, geom.Creases)
		fBeam := sumVec3Range(a.NodeBeamForces, geom.Beams)
		fFace := sumVec3Range(a.NodeFaceForces, geom.Faces)
		fTotal := a.NodeExternalForces[j].Add(fCrease).Add(fBeam).Add(fFace)

		mass := a.NodeMass[j]
		velocity := a.NodeVelocity.Front[j]
		if mass != 0 {
			deltaV := fTotal.Scale(a.Dt / mass)
			velocity = velocity.Add(deltaV)
		}

		var deltaP model.Vec3F
		if a.NodeFixed[j] == 0 {
			deltaP = velocity.Scale(a.Dt)
		}

		a.NodePositionOffset.Back[j] = a.NodePositionOffset.Front[j].Add(deltaP)
		a.NodeVelocity.Back[j] = velocity
		a.NodeError[j] = sumErrorRange(a.NodeBeamError, geom.Beams)
	}
}

// Step runs the full six-stage pipeline once, then swaps the three
// double buffers (spec.md §4.2, §5 "strictly sequential per step").
// Stages 1a and 1b are independent of each other; stage 1c reads the
// crease physics 1b writes in the same step, so it runs after 1b. All
// stages run sequentially here.
func Step(a *arena.Arena) {
	FaceNormals(a)
	CreaseFoldAngles(a)
	CreasePhysics(a)
	NodeCreaseForces(a)
	NodeBeamForces(a)
	NodeFaceForces(a)
	IntegrateNodes(a)
	a.Swap()
}

func sumVec3Range(values []model.Vec3F, r model.Range) model.Vec3F {
	var sum model.Vec3F
	for i := r.Offset; i < r.Offset+r.Count; i++ {
		sum = sum.Add(values[i])
	}
	return sum
}

func sumErrorRange(values []float32, r model.Range) float32 {
	var sum float32
	for i := r.Offset; i < r.Offset+r.Count; i++ {
		sum += values[i]
	}
	return sum
}

func normalize(v model.Vec3F) model.Vec3F {
	l := vecLen(v)
	return scaleSafe(v, l)
}

func scaleSafe(v model.Vec3F, length float32) model.Vec3F {
	if length == 0 {
		return model.Vec3F{}
	}
	return v.Scale(1 / length)
}

func vecLen(v model.Vec3F) float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
