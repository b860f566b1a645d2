package taskq

import (
	"context"

	"github.com/google/uuid"
)

// JobFunc processes one payload. A non-nil error marks the attempt as
// failed; the pool retries according to the effective RetryPolicy.
type JobFunc[T any] func(T) error

// Job wraps a payload submitted to a Pool.
//
// Only Payload is required. Everything else tunes how this one job is
// handled relative to the pool defaults.
type Job[T any] struct {
	Payload T

	// Tag is an optional producer-assigned sequence or priority marker.
	// The queue never reorders on it; it is carried into logs and
	// failure reports as-is.
	Tag int64

	// Ctx cancels retries and backoff sleeps for this job.
	// Defaults to context.Background().
	Ctx context.Context

	// CleanupFunc runs after the job finishes, regardless of outcome.
	CleanupFunc func()

	// Retry overrides the pool default policy. Zero fields keep defaults.
	Retry *RetryPolicy

	// ID identifies the job in logs and failure reports.
	// Assigned a random UUID at submit time when empty.
	ID string
}

func (j *Job[T]) normalize() {
	if j.Ctx == nil {
		j.Ctx = context.Background()
	}
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
}
