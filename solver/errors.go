package solver

import (
	"errors"
	"fmt"
)

// NoSuchSolverFamilyError is returned by Create when family names no
// registered Solver implementation (spec.md §6).
type NoSuchSolverFamilyError struct {
	Family Family
}

func (e *NoSuchSolverFamilyError) Error() string {
	return fmt.Sprintf("solver: no such solver family %q", e.Family)
}

// NoBackendMatchingError is returned by Create when no backend in the
// requested BackendFlags could be constructed (spec.md §7 "Backend
// unavailable").
type NoBackendMatchingError struct {
	Requested BackendFlags
	Cause     error
}

func (e *NoBackendMatchingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("solver: no backend matching flags %#x: %v", e.Requested, e.Cause)
	}
	return fmt.Sprintf("solver: no backend matching flags %#x", e.Requested)
}

func (e *NoBackendMatchingError) Unwrap() error { return e.Cause }

// NoSuchFrameError is returned by LoadFromFold when the requested frame
// index is past the document's frame count (spec.md §8 scenario S6).
type NoSuchFrameError struct {
	Requested int
	Count     int
}

func (e *NoSuchFrameError) Error() string {
	return fmt.Sprintf("solver: no such frame %d (document has %d)", e.Requested, e.Count)
}

// ErrNotLoaded is returned by Step and SetFoldPercentage when the solver
// is in Standby (spec.md §4.3, §7 "Solver state violation").
var ErrNotLoaded = errors.New("solver: not loaded")

// ErrExtracting is returned by Step, SetFoldPercentage and Load when an
// extractor borrow is alive (spec.md §5 "only one extractor may be
// alive at a time").
var ErrExtracting = errors.New("solver: extracting")

// OtherError wraps a backend-level failure surfaced from Step (spec.md
// §6 "Other" — anything that is not NotLoaded/Extracting).
type OtherError struct {
	Cause error
}

func (e *OtherError) Error() string {
	return fmt.Sprintf("solver: step failed: %v", e.Cause)
}

func (e *OtherError) Unwrap() error { return e.Cause }
