package gpubackend

import (
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"rtori-go/arena"
)

// Backend runs the kernel pipeline on the GPU, mirroring cpubackend.Backend's
// shape so solver can dispatch to either uniformly (spec.md §4.9, §6
// "SolverKind ∈ {CPU, GPU}").
type Backend struct {
	state *State
}

// New requests a GPU adapter/device and compiles the fixed pass pipeline
// for the backing arena's current size. Backend flag is one of
// GPU_METAL/GPU_VULKAN/GPU_DX12/GPU_WEBGPU depending on the adapter wgpu
// selects; this package does not force a particular one.
func New(a *arena.Arena) (*Backend, error) {
	state, err := NewState(a.Size())
	if err != nil {
		return nil, err
	}
	return &Backend{state: state}, nil
}

// Step uploads a's whole backing buffer on every call, runs the seven
// compute passes count times with a buffer-copy
// swap between iterations, then reads the results back into a's backing
// bytes so CopyNodePosition/CopyNodeVelocity/CopyNodeError/CreaseFoldAngle
// see the same data an Extractor would see from the CPU backend.
func (b *Backend) Step(a *arena.Arena, count int) error {
	s := b.state
	if a.Size() != s.size {
		if err := s.resize(a.Size()); err != nil {
			return err
		}
	}

	backing := a.Backing()
	if len(backing) > 0 {
		s.queue.WriteBuffer(s.storage, 0, backing)
	}
	a.ClearDirty()

	u := uniforms{CreasePercentage: a.CreasePercentage, Dt: a.Dt, FaceStiffness: a.FaceStiffness}
	s.queue.WriteBuffer(s.uniform, 0, uniformBytes(u))

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpubackend: create command encoder: %w", err)
	}

	rs := regionsOf(s.size)
	for i := 0; i < count; i++ {
		for _, p := range s.passes {
			if p.dispatch == 0 {
				continue
			}
			pass := encoder.BeginComputePass(nil)
			pass.SetPipeline(p.pipeline)
			pass.SetBindGroup(0, p.group, nil)
			pass.DispatchWorkgroups(p.dispatch, 1, 1)
			pass.End()
		}
		// The eighth pass: copy each double-buffered region's back half
		// over its front half, the "or by a copy" swap spec.md §4.9 allows.
		for _, name := range doubleBufferedRegions {
			full := rs.front(name)
			if full.Size == 0 {
				continue
			}
			frontHalf := half(full, 0)
			backHalf := half(full, 1)
			encoder.CopyBufferToBuffer(s.storage, uint64(backHalf.Offset), s.storage, uint64(frontHalf.Offset), uint64(frontHalf.Size))
		}
	}

	if len(backing) > 0 {
		encoder.CopyBufferToBuffer(s.storage, 0, s.staging, 0, uint64(len(backing)))
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return fmt.Errorf("gpubackend: finish command buffer: %w", err)
	}
	s.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()

	if len(backing) == 0 {
		return nil
	}
	return b.readback(backing)
}

// readback maps the staging buffer and copies its bytes into dst (a's
// backing slice), blocking on the device's work queue the way spec.md
// §4.9's "callers may block... via a local executor" allows outside of
// the one truly async operation (adapter/device init).
func (b *Backend) readback(dst []byte) error {
	s := b.state
	done := make(chan wgpu.BufferMapAsyncStatus, 1)
	s.staging.MapAsync(wgpu.MapModeRead, 0, uint64(len(dst)), func(status wgpu.BufferMapAsyncStatus) {
		done <- status
	})

	var status wgpu.BufferMapAsyncStatus
poll:
	for {
		s.device.Poll(true, nil)
		select {
		case status = <-done:
			break poll
		default:
		}
	}
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return fmt.Errorf("gpubackend: map staging buffer: status %v", status)
	}

	mapped := s.staging.GetMappedRange(0, uint64(len(dst)))
	copy(dst, mapped)
	s.staging.Unmap()
	return nil
}

// Close releases every GPU resource held by this backend.
func (b *Backend) Close() {
	b.state.Release()
}

func uniformBytes(u uniforms) []byte {
	out := make([]byte, 16)
	putFloat32(out[0:4], u.CreasePercentage)
	putFloat32(out[4:8], u.Dt)
	putFloat32(out[8:12], u.FaceStiffness)
	putFloat32(out[12:16], 0)
	return out
}

func putFloat32(dst []byte, v float32) {
	bits := math.Float32bits(v)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}
