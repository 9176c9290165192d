package collidesim

import "time"

// Metrics is a point-in-time, copyable snapshot of a World's counters and
// the wall-clock cost of its most recent step, intended for a driver to poll
// or log without holding any reference into World internals.
type Metrics struct {
	// NumLineLineCollisions is the total number of pairwise events dispatched
	// to the solver over the simulation so far (monotone non-decreasing).
	NumLineLineCollisions uint64
	// NumLineWallCollisions is the total number of wall reflections applied
	// over the simulation so far (monotone non-decreasing).
	NumLineWallCollisions uint64
	// NumSegments is the current size of the segment pool.
	NumSegments int
	// StepsRun is the total number of completed Step calls.
	StepsRun uint64
	// LastStepDuration is the wall-clock time taken by the most recent Step.
	LastStepDuration time.Duration
}
