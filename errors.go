package taskq

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueClosed is returned by enqueue operations once Close has been
	// called. Producers already blocked at close time are released with it.
	ErrQueueClosed = errors.New("taskq: queue closed")

	// ErrPoolRunning is returned by Start when workers are already running.
	ErrPoolRunning = errors.New("taskq: pool already started")

	// ErrNilProcess is returned by Start when no process function is given.
	ErrNilProcess = errors.New("taskq: process function is nil")

	// ErrAffinityUnsupported is returned by PinToCPU on platforms without
	// sched_setaffinity.
	ErrAffinityUnsupported = errors.New("taskq: cpu pinning not supported on this platform")
)

// ProcessingError records the terminal failure of a single job: its process
// function exhausted all attempts, was canceled, or panicked. Workers keep
// running past it. The pool collects these and Wait returns them combined.
type ProcessingError struct {
	// JobID identifies the failed job.
	JobID string

	// Tag is the producer-assigned tag carried by the job, zero if unset.
	Tag int64

	// Err is the underlying cause.
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("taskq: job %s (tag %d): %v", e.JobID, e.Tag, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
