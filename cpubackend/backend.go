// Package cpubackend implements the CPU and CPU_MT backends of spec.md
// §4.8: the scalar "lane-width L=1" fallback, optionally spreading each
// stage's per-entity loop across a reusable worker pool the way
// engine/scene/scene.go's PrepareCompute spreads animator prep across a
// worker.DynamicWorkerPool.
package cpubackend

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"rtori-go/arena"
	"rtori-go/kernel"
)

// Backend runs the kernel pipeline over an Arena some number of times.
type Backend interface {
	Step(a *arena.Arena, count int)
	Close()
}

// scalar is the single-threaded CPU backend: CPU_flag with no worker
// pool, running kernel.Step directly.
type scalar struct{}

// New returns the scalar CPU backend (spec.md backend flag CPU).
func New() Backend { return scalar{} }

func (scalar) Step(a *arena.Arena, count int) {
	for i := 0; i < count; i++ {
		kernel.Step(a)
	}
}

func (scalar) Close() {}

// multithreaded is the CPU_MT backend: each stage's per-entity loop is
// partitioned into workerCount contiguous chunks submitted to a
// worker.DynamicWorkerPool, with a sync.WaitGroup barrier between stages
// — workers persist across steps, matching the teacher's "avoid
// per-frame goroutine spawn/teardown overhead" rationale.
type multithreaded struct {
	pool    worker.DynamicWorkerPool
	workers int
}

// NewMultithreaded returns the CPU_MT backend (spec.md backend flag
// CPU_MT) with workerCount persistent workers, a queue sized for the
// chunk count of one stage across a typical model, and a bounded
// dispatch timeout.
func NewMultithreaded(workerCount int) Backend {
	if workerCount < 1 {
		workerCount = 1
	}
	return &multithreaded{
		pool:    worker.NewDynamicWorkerPool(workerCount, 256, 1*time.Second),
		workers: workerCount,
	}
}

func (m *multithreaded) Step(a *arena.Arena, count int) {
	for i := 0; i < count; i++ {
		m.runRange(len(a.FaceIndices), kernel.FaceNormalsRange, a)
		m.runRange(len(a.CreaseFaceIndices), kernel.CreaseFoldAnglesRange, a)
		m.runRange(len(a.CreaseNeighbourhoods), kernel.CreasePhysicsRange, a)
		m.runRange(len(a.NodeCreaseCreaseIndices), kernel.NodeCreaseForcesRange, a)
		m.runRange(len(a.NodeBeamSpec), kernel.NodeBeamForcesRange, a)
		m.runRange(len(a.NodeFaceSpec), kernel.NodeFaceForcesRange, a)
		m.runRange(len(a.NodeGeometry), kernel.IntegrateNodesRange, a)
		a.Swap()
	}
}

// runRange splits [0, n) into m.workers contiguous chunks and submits one
// task per non-empty chunk, blocking until all finish — stages 1a/1b/1c
// run this way independently, but this barrier still keeps stage N from
// starting before stage N-1 finishes, per spec.md §5's sequencing.
func (m *multithreaded) runRange(n int, stage func(a *arena.Arena, lo, hi int), a *arena.Arena) {
	if n == 0 {
		return
	}
	chunks := m.workers
	if chunks > n {
		chunks = n
	}
	chunkSize := (n + chunks - 1) / chunks

	var wg sync.WaitGroup
	id := 0
	for lo := 0; lo < n; lo += chunkSize {
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		wg.Add(1)
		loCap, hiCap := lo, hi
		m.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				stage(a, loCap, hiCap)
				return nil, nil
			},
		})
		id++
	}
	wg.Wait()
}

func (m *multithreaded) Close() {}
