package gpubackend

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"rtori-go/arena"
	"rtori-go/model"
)

const workgroupSize = 64

// uniforms mirrors the WGSL Uniforms struct byte-for-byte: three live
// scalars plus one padding word out to the 16-byte minimum uniform buffer
// size.
type uniforms struct {
	CreasePercentage float32
	Dt               float32
	FaceStiffness    float32
	_pad             float32
}

// compiledPass holds the GPU objects built once per passSpec for a given
// ModelSize: a compute pipeline and the one bind group it dispatches
// against every step (spec.md §4.9 "bind-group layouts are fixed").
type compiledPass struct {
	spec     passSpec
	pipeline *wgpu.ComputePipeline
	layout   *wgpu.BindGroupLayout
	group    *wgpu.BindGroup
	dispatch uint32 // workgroup count for this ModelSize
}

// State is the GPU-resident mirror of one *arena.Arena: a single storage
// buffer holding the same bytes as Arena.Backing(), a small uniform
// buffer, and the seven compiled compute passes (spec.md §4.9). The
// runtime allocates one State per ModelSize and recreates it only on
// resize, the way Arena.New allocates fresh backing storage per load.
type State struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	size    model.Size
	storage *wgpu.Buffer
	uniform *wgpu.Buffer
	staging *wgpu.Buffer // readback staging buffer, CopySrc-mapped

	passes []compiledPass
}

// NewState requests an adapter and device and compiles the fixed pass
// pipeline for size. Adapter/device request is the one asynchronous
// operation spec.md §4.9 calls out ("only the asynchronous GPU
// initialization... suspends"); this blocks the caller on it synchronously,
// same as newWGPURendererBackend's RequestAdapter/RequestDevice calls.
func NewState(size model.Size) (*State, error) {
	instance := wgpu.CreateInstance(nil)

	// Compute-only: no CompatibleSurface requirement the way the
	// teacher's render backend needs one for swapchain presentation.
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil {
		return nil, fmt.Errorf("gpubackend: request adapter: %w", err)
	}

	// The integrate_nodes pass alone binds 13 storage buffers (plus the
	// uniform buffer); raise the default limit the way newWGPURendererBackend
	// raises MaxBindGroups for the teacher's 6-bind-group lit shader.
	limits := wgpu.DefaultLimits()
	limits.MaxStorageBuffersPerShaderStage = 16
	limits.MaxBindingsPerBindGroup = 16

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "rtori compute device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		return nil, fmt.Errorf("gpubackend: request device: %w", err)
	}

	s := &State{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}
	if err := s.resize(size); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

// resize (re)allocates the storage/uniform/staging buffers and recompiles
// every pass's bind group for the new ModelSize. Pipelines — which depend
// only on shader source and bind group *layout*, not buffer contents — are
// created once and reused across resizes.
func (s *State) resize(size model.Size) error {
	s.size = size
	byteLen := uint64(arena.RequiredBackingSize(size))
	if byteLen == 0 {
		byteLen = 16 // WebGPU disallows zero-size buffers; empty models still need a valid handle.
	}

	storage, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "rtori arena storage",
		Size:  byteLen,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpubackend: create storage buffer: %w", err)
	}

	uniformBuf, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "rtori globals uniform",
		Size:  16,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpubackend: create uniform buffer: %w", err)
	}

	staging, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "rtori arena readback",
		Size:  byteLen,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return fmt.Errorf("gpubackend: create staging buffer: %w", err)
	}

	if s.storage != nil {
		s.storage.Release()
	}
	if s.uniform != nil {
		s.uniform.Release()
	}
	if s.staging != nil {
		s.staging.Release()
	}
	s.storage, s.uniform, s.staging = storage, uniformBuf, staging

	rs := regionsOf(size)
	compiled := make([]compiledPass, 0, len(passes))
	for _, p := range passes {
		cp, err := s.compile(p, rs)
		if err != nil {
			return err
		}
		compiled = append(compiled, cp)
	}
	for _, old := range s.passes {
		old.group.Release()
		old.layout.Release()
		old.pipeline.Release()
	}
	s.passes = compiled
	return nil
}

func (s *State) compile(p passSpec, rs regionSet) (compiledPass, error) {
	module, err := s.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          p.label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: p.source},
	})
	if err != nil {
		return compiledPass{}, fmt.Errorf("gpubackend: compile %s: %w", p.label, err)
	}

	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(p.bindings)+1)
	entries = append(entries, wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageCompute,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
	})
	for i, name := range p.bindings {
		bufType := wgpu.BufferBindingTypeStorage
		if isReadOnlyBinding(p.label, name) {
			bufType = wgpu.BufferBindingTypeReadOnlyStorage
		}
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i + 1),
			Visibility: wgpu.ShaderStageCompute,
			Buffer:     wgpu.BufferBindingLayout{Type: bufType},
		})
	}

	layout, err := s.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   p.label + " layout",
		Entries: entries,
	})
	if err != nil {
		return compiledPass{}, fmt.Errorf("gpubackend: bind group layout %s: %w", p.label, err)
	}

	pipelineLayout, err := s.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.label + " pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return compiledPass{}, fmt.Errorf("gpubackend: pipeline layout %s: %w", p.label, err)
	}

	pipeline, err := s.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   p.label + " pipeline",
		Layout:  pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{Module: module, EntryPoint: "main"},
	})
	if err != nil {
		return compiledPass{}, fmt.Errorf("gpubackend: compute pipeline %s: %w", p.label, err)
	}

	groupEntries := make([]wgpu.BindGroupEntry, 0, len(p.bindings)+1)
	groupEntries = append(groupEntries, wgpu.BindGroupEntry{Binding: 0, Buffer: s.uniform, Offset: 0, Size: 16})
	for i, name := range p.bindings {
		r := rs.resolve(name)
		offset, size := uint64(r.Offset), uint64(r.Size)
		if size == 0 {
			// A region with no elements (e.g. a model with zero creases)
			// still needs a valid in-bounds binding even though the pass
			// that owns it is never dispatched; 0 is always valid since
			// resize guarantees the storage buffer is at least 16 bytes.
			offset, size = 0, 16
		}
		groupEntries = append(groupEntries, wgpu.BindGroupEntry{
			Binding: uint32(i + 1),
			Buffer:  s.storage,
			Offset:  offset,
			Size:    size,
		})
	}

	group, err := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.label + " bind group",
		Layout:  layout,
		Entries: groupEntries,
	})
	if err != nil {
		return compiledPass{}, fmt.Errorf("gpubackend: bind group %s: %w", p.label, err)
	}

	count := p.count(s.size)
	dispatch := (count + workgroupSize - 1) / workgroupSize

	return compiledPass{spec: p, pipeline: pipeline, layout: layout, group: group, dispatch: dispatch}, nil
}

// isReadOnlyBinding reports whether a pass's named binding is written —
// every binding is read-only except the handful each pass produces.
func isReadOnlyBinding(passLabel, name string) bool {
	switch passLabel + "/" + name {
	case "face_normals/face_normals",
		"crease_fold_angles/crease_fold_angle:back",
		"crease_physics/crease_physics",
		"node_crease_forces/node_crease_forces",
		"node_beam_forces/node_beam_forces",
		"node_beam_forces/node_beam_error",
		"node_face_forces/node_face_forces",
		"integrate_nodes/node_position_offset:back",
		"integrate_nodes/node_velocity:back",
		"integrate_nodes/node_error":
		return false
	default:
		return true
	}
}

// Release frees every GPU resource owned by this State.
func (s *State) Release() {
	for _, p := range s.passes {
		p.group.Release()
		p.layout.Release()
		p.pipeline.Release()
	}
	s.passes = nil
	if s.storage != nil {
		s.storage.Release()
	}
	if s.uniform != nil {
		s.uniform.Release()
	}
	if s.staging != nil {
		s.staging.Release()
	}
	if s.device != nil {
		s.device.Release()
	}
	if s.adapter != nil {
		s.adapter.Release()
	}
	if s.instance != nil {
		s.instance.Release()
	}
}
