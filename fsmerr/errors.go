// Package fsmerr defines the exhaustive error taxonomy shared by every
// analysis package in the module. The core never logs and never panics on
// recoverable input problems: every exported operation returns one of these
// kinds (wrapped with fmt.Errorf("...: %w", ...) at the call site) instead.
package fsmerr

import (
	"errors"
	"fmt"
)

// Sentinel categories. Struct-typed errors below wrap one of these via
// Unwrap so callers can match broadly with errors.Is(err, fsmerr.ErrXxx)
// or narrowly with errors.As into a *fsmerr.Deadlock (or other struct
// pointer) variable.
var (
	// ErrInconsistent is the category for Inconsistent.
	ErrInconsistent = errors.New("fsmerr: scenario graph is inconsistent")

	// ErrDeadlock is the category for Deadlock.
	ErrDeadlock = errors.New("fsmerr: exploration deadlocked")

	// ErrInconsistentScenarioGraph is the category for InconsistentScenarioGraph.
	ErrInconsistentScenarioGraph = errors.New("fsmerr: scenario graph fails the weak-consistency check")

	// ErrDimensionMismatch is the category for DimensionMismatch.
	ErrDimensionMismatch = errors.New("fsmerr: matrix dimension mismatch")

	// ErrPersistentTokenMismatch is the category for PersistentTokenMismatch.
	ErrPersistentTokenMismatch = errors.New("fsmerr: persistent-token sets disagree across scenario graphs")

	// ErrPortChannelViolation indicates a §3 structural invariant was violated.
	ErrPortChannelViolation = errors.New("fsmerr: port/channel structural invariant violated")

	// ErrCancelled indicates the caller's cancellation token fired.
	ErrCancelled = errors.New("fsmerr: operation cancelled")

	// ErrNotFound is the category for NotFound.
	ErrNotFound = errors.New("fsmerr: name lookup failed")
)

// Inconsistent reports that a scenario's repetition vector is all zero.
type Inconsistent struct {
	Scenario string
}

func (e *Inconsistent) Error() string {
	return fmt.Sprintf("fsmerr: scenario %q is inconsistent (zero repetition vector)", e.Scenario)
}

func (e *Inconsistent) Unwrap() error { return ErrInconsistent }

// Deadlock reports that no actor became enabled during an exploration
// despite nonzero pending firing counts. StateDigest is an opaque,
// implementation-defined summary of the stuck state (e.g. a hash), useful
// for bug reports but not interpreted by callers.
type Deadlock struct {
	Scenario    string
	StateDigest string
}

func (e *Deadlock) Error() string {
	return fmt.Sprintf("fsmerr: deadlock in scenario %q (state %s)", e.Scenario, e.StateDigest)
}

func (e *Deadlock) Unwrap() error { return ErrDeadlock }

// InconsistentScenarioGraph reports that the weak-consistency check in
// §4.8 failed for a scenario graph.
type InconsistentScenarioGraph struct {
	Scenario string
	Reason   string
}

func (e *InconsistentScenarioGraph) Error() string {
	return fmt.Sprintf("fsmerr: scenario graph for %q is not weakly consistent: %s", e.Scenario, e.Reason)
}

func (e *InconsistentScenarioGraph) Unwrap() error { return ErrInconsistentScenarioGraph }

// DimensionMismatch reports incompatible matrix shapes for operation Op.
type DimensionMismatch struct {
	Op       string
	LHSRows  int
	LHSCols  int
	RHSRows  int
	RHSCols  int
}

func (e *DimensionMismatch) Error() string {
	return fmt.Sprintf("fsmerr: %s: dimension mismatch (%dx%d vs %dx%d)",
		e.Op, e.LHSRows, e.LHSCols, e.RHSRows, e.RHSCols)
}

func (e *DimensionMismatch) Unwrap() error { return ErrDimensionMismatch }

// PersistentTokenMismatch reports that a scenario graph's persistent-token
// map does not match the canonical set shared across all scenario graphs of
// a Graph (required for the strongly-consistent case).
type PersistentTokenMismatch struct {
	Scenario string
}

func (e *PersistentTokenMismatch) Error() string {
	return fmt.Sprintf("fsmerr: persistent-token set of scenario %q does not match the canonical set", e.Scenario)
}

func (e *PersistentTokenMismatch) Unwrap() error { return ErrPersistentTokenMismatch }

// NotFound reports that a name lookup of the given Kind (e.g. "actor",
// "scenario", "channel") failed.
type NotFound struct {
	Kind string
	Name string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("fsmerr: %s %q not found", e.Kind, e.Name)
}

func (e *NotFound) Unwrap() error { return ErrNotFound }

// Cancelled wraps a caller-supplied context error so that both
// errors.Is(err, fsmerr.ErrCancelled) and errors.Is(err, context.Canceled)
// (or context.DeadlineExceeded) succeed.
type Cancelled struct {
	Cause error
}

func (e *Cancelled) Error() string {
	return fmt.Sprintf("fsmerr: cancelled: %v", e.Cause)
}

func (e *Cancelled) Unwrap() []error { return []error{ErrCancelled, e.Cause} }
