// Package solver implements the external Solver API of spec.md §6: a
// state machine over one Arena per instance (Standby / Loaded /
// Extracting), dispatching step to whichever backend Create resolved
// from the requested BackendFlags. The package mirrors the teacher's
// Engine as the single stateful orchestrator a caller drives one call at
// a time (engine/engine.go's Tick loop), but the lifecycle here is
// explicit method calls rather than a run loop, since spec.md §5 puts
// scheduling in the caller's hands ("the core is single-threaded
// cooperative at the orchestration level").
package solver

import (
	"rtori-go/arena"
	"rtori-go/cpubackend"
	"rtori-go/fold"
	"rtori-go/gpubackend"
	"rtori-go/importer"
	"rtori-go/model"
)

// State names the three states of spec.md §4.3.
type State int

const (
	Standby State = iota
	Loaded
	Extracting
)

func (s State) String() string {
	switch s {
	case Standby:
		return "Standby"
	case Loaded:
		return "Loaded"
	case Extracting:
		return "Extracting"
	default:
		return "Unknown"
	}
}

// runner is the minimal surface solver needs from a backend: step the
// arena some number of times and release resources. cpubackend.Backend
// and gpubackend.Backend both satisfy it via the adapters below —
// cpubackend's Step cannot fail, gpubackend's can (a lost device), so
// solver treats every backend failure uniformly as OtherError.
type runner interface {
	Step(a *arena.Arena, count int) error
	Close()
}

type cpuRunner struct{ b cpubackend.Backend }

func (r cpuRunner) Step(a *arena.Arena, count int) error { r.b.Step(a, count); return nil }
func (r cpuRunner) Close()                               { r.b.Close() }

type gpuRunner struct{ b *gpubackend.Backend }

func (r gpuRunner) Step(a *arena.Arena, count int) error { return r.b.Step(a, count) }
func (r gpuRunner) Close()                               { r.b.Close() }

// Solver owns one Arena exclusively and dispatches Step to the backend
// Create resolved. The zero value is not usable; construct with Create.
type Solver struct {
	family  Family
	cfg     config
	flags   BackendFlags
	backend runner

	state State
	a     *arena.Arena

	extractAlive bool
}

// Create validates family and resolves backend_flags to one concrete
// backend, preferring earlier-declared flags when more than one bit is
// set (CPU before CPU_MT before any GPU), returning
// NoSuchSolverFamilyError or NoBackendMatchingError on failure. The
// returned Solver starts in Standby with no Arena (spec.md §6
// create(context, family, backend_flags)). context is accepted for
// parity with the external signature but unused: this port has no
// platform handle to thread through beyond what Options already carry.
func Create(_ any, family Family, flags BackendFlags, opts ...Option) (*Solver, error) {
	if !family.registered() {
		return nil, &NoSuchSolverFamilyError{Family: family}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Solver{family: family, cfg: cfg, flags: flags, state: Standby}

	empty := arena.New(model.Size{})
	r, err := resolveBackend(flags, cfg, empty)
	if err != nil {
		return nil, err
	}
	s.backend = r
	return s, nil
}

// resolveBackend picks the first backend family flags asks for, in
// priority order CPU, CPU_MT, then any GPU flag (all four GPU bits
// resolve to the same gpubackend.Backend — see flags.go's doc comment).
func resolveBackend(flags BackendFlags, cfg config, a *arena.Arena) (runner, error) {
	switch {
	case flags.Has(CPU):
		return cpuRunner{b: cpubackend.New()}, nil
	case flags.Has(CPUMT):
		return cpuRunner{b: cpubackend.NewMultithreaded(cfg.workerCount)}, nil
	case flags.any(AnyGPU):
		b, err := gpubackend.New(a)
		if err != nil {
			return nil, &NoBackendMatchingError{Requested: flags, Cause: err}
		}
		return gpuRunner{b: b}, nil
	default:
		return nil, &NoBackendMatchingError{Requested: flags}
	}
}

// LoadFromFold triangulates, supplements, and crease-extracts the
// document's frame at frameIndex, then populates a freshly sized Arena
// from it (spec.md §6 load_from_fold). A failed load leaves the solver
// in its prior state (spec.md §7 "no partial-success semantics on
// load"): the new Arena is built in a local variable and only swapped in
// once Load succeeds. Valid from Standby or Loaded; fails with
// ErrExtracting if an extractor borrow is alive.
func (s *Solver) LoadFromFold(doc *fold.Document, frameIndex int) error {
	if s.state == Extracting {
		return ErrExtracting
	}

	frame, ok := doc.Frame(frameIndex)
	if !ok {
		return &NoSuchFrameError{Requested: frameIndex, Count: doc.FrameCount()}
	}

	icfg := importer.DefaultConfig()
	icfg.DefaultCreaseStiffness = s.cfg.defaultStiffness
	icfg.DampingPercentage = s.cfg.defaultDamping

	prepared, err := importer.Prepare(frame, icfg)
	if err != nil {
		return err
	}
	newArena := arena.New(prepared.Size())
	if err := prepared.WriteInto(newArena); err != nil {
		return err
	}

	s.a = newArena
	s.state = Loaded
	return nil
}

// Step advances the loaded Arena count times through the backend's
// kernel pipeline (spec.md §6 step(solver, count)). Fails with
// ErrNotLoaded from Standby, ErrExtracting while a borrow is alive, or
// *OtherError wrapping any backend-level failure.
func (s *Solver) Step(count int) error {
	switch s.state {
	case Standby:
		return ErrNotLoaded
	case Extracting:
		return ErrExtracting
	}
	if count <= 0 {
		return nil
	}
	if err := s.backend.Step(s.a, count); err != nil {
		return &OtherError{Cause: err}
	}
	return nil
}

// SetFoldPercentage sets the target fold ratio in [0, 1] used by the
// crease fold-angle targets the importer derived (spec.md §6
// set_fold_percentage). Valid only from Loaded; parameters are mutable
// only between steps (spec.md §5).
func (s *Solver) SetFoldPercentage(p float32) error {
	switch s.state {
	case Standby:
		return ErrNotLoaded
	case Extracting:
		return ErrExtracting
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	s.a.CreasePercentage = p
	return nil
}

// ExtractRequest names the optional destination buffers a caller wants
// filled by Extract; a nil field is skipped (spec.md §6 extract(solver,
// {position_dst?, velocity_dst?, error_dst?})).
type ExtractRequest struct {
	PositionDst []model.Vec3F
	VelocityDst []model.Vec3F
	ErrorDst    []float32
	Offset      uint32
}

// ExtractCounts reports how many entries Extract wrote into each
// requested buffer.
type ExtractCounts struct {
	Position int
	Velocity int
	Error    int
}

// Extract hands out a read-only view onto the Arena's current node state
// (spec.md §6 extract). The view is a borrow for the lifetime of this
// call only: this port copies eagerly into req's buffers and returns to
// Loaded immediately rather than modeling a long-lived borrow handle,
// since the Go port has no separate consumer that holds a borrow across
// later calls the way a foreign-function caller might. Scenario S5's
// borrow/step conflict is exercised instead via BeginExtract/EndExtract
// below for tests that need the borrow to outlive a single call.
func (s *Solver) Extract(req ExtractRequest) (ExtractCounts, error) {
	if s.state == Standby {
		return ExtractCounts{}, ErrNotLoaded
	}
	var counts ExtractCounts
	if req.PositionDst != nil {
		counts.Position = s.a.CopyNodePosition(req.PositionDst, req.Offset)
	}
	if req.VelocityDst != nil {
		counts.Velocity = s.a.CopyNodeVelocity(req.VelocityDst, req.Offset)
	}
	if req.ErrorDst != nil {
		counts.Error = s.a.CopyNodeError(req.ErrorDst, req.Offset)
	}
	return counts, nil
}

// BeginExtract transitions Loaded → Extracting and returns a model.Extractor
// borrow over the Arena, enforcing spec.md §5's "only one extractor may
// be alive at a time" and "step fails with Extracting while alive".
// Callers must call EndExtract when done with the borrow.
func (s *Solver) BeginExtract() (model.Extractor, error) {
	if s.state != Loaded {
		if s.state == Extracting {
			return nil, ErrExtracting
		}
		return nil, ErrNotLoaded
	}
	s.state = Extracting
	s.extractAlive = true
	return s.a, nil
}

// EndExtract releases the borrow BeginExtract returned, returning the
// solver to Loaded.
func (s *Solver) EndExtract() {
	if !s.extractAlive {
		return
	}
	s.extractAlive = false
	s.state = Loaded
}

// State reports the solver's current lifecycle state.
func (s *Solver) State() State { return s.state }

// Family reports the solver family Create was given.
func (s *Solver) Family() Family { return s.family }

// BackendFlags reports the backend_flags Create was given.
func (s *Solver) BackendFlags() BackendFlags { return s.flags }

// Close releases the backend's resources. The Arena is plain Go memory
// and needs no explicit release.
func (s *Solver) Close() {
	if s.backend != nil {
		s.backend.Close()
	}
}

