package gpubackend

import _ "embed"

//go:embed shaders/face_normals.wgsl
var shaderFaceNormals string

//go:embed shaders/crease_fold_angles.wgsl
var shaderCreaseFoldAngles string

//go:embed shaders/crease_physics.wgsl
var shaderCreasePhysics string

//go:embed shaders/node_crease_forces.wgsl
var shaderNodeCreaseForces string

//go:embed shaders/node_beam_forces.wgsl
var shaderNodeBeamForces string

//go:embed shaders/node_face_forces.wgsl
var shaderNodeFaceForces string

//go:embed shaders/integrate_nodes.wgsl
var shaderIntegrateNodes string
