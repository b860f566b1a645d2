package taskq

import (
	"sync/atomic"
	"time"
)

// MetricsPolicy defines hooks used by the pool to report queueing and
// execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncQueued increments the queued jobs counter.
	// Called once per accepted submission.
	IncQueued()

	// DecQueued decrements the queued jobs counter.
	// Called once per job handed to a worker.
	DecQueued()

	// IncExecuted increments the successfully executed jobs counter.
	IncExecuted()

	// IncFailed increments the terminally failed jobs counter.
	// Executed and failed are disjoint; their sum is the processed total.
	IncFailed()

	// IncRetried increments the scheduled retries counter.
	IncRetried()

	// ObserveBusy records wall time spent inside one process invocation.
	ObserveBusy(d time.Duration)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// executed is the total number of jobs processed successfully.
	executed atomic.Uint64

	// failed is the total number of jobs that exhausted their attempts,
	// were canceled, or panicked.
	failed atomic.Uint64

	// retried is the total number of retry attempts scheduled.
	retried atomic.Uint64

	_ [40]byte // padding to avoid false sharing

	// queued is the current number of jobs waiting in the queue.
	queued atomic.Int64

	// busyNs accumulates wall time spent inside process functions.
	busyNs atomic.Int64
}

// Executed returns the total number of successfully executed jobs.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Failed returns the total number of terminally failed jobs.
func (m *AtomicMetrics) Failed() uint64 { return m.failed.Load() }

// Retried returns the total number of scheduled retries.
func (m *AtomicMetrics) Retried() uint64 { return m.retried.Load() }

// Queued returns the current number of queued jobs.
func (m *AtomicMetrics) Queued() int64 { return m.queued.Load() }

// BusyTime returns the accumulated wall time spent processing jobs.
func (m *AtomicMetrics) BusyTime() time.Duration {
	return time.Duration(m.busyNs.Load())
}

func (m *AtomicMetrics) IncQueued()    { m.queued.Add(1) }
func (m *AtomicMetrics) DecQueued()    { m.queued.Add(-1) }
func (m *AtomicMetrics) IncExecuted()  { m.executed.Add(1) }
func (m *AtomicMetrics) IncFailed()    { m.failed.Add(1) }
func (m *AtomicMetrics) IncRetried()   { m.retried.Add(1) }
func (m *AtomicMetrics) ObserveBusy(d time.Duration) { m.busyNs.Add(int64(d)) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
//
// It can be used when metrics collection is disabled and
// zero overhead is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncQueued()                  {}
func (m *NoopMetrics) DecQueued()                  {}
func (m *NoopMetrics) IncExecuted()                {}
func (m *NoopMetrics) IncFailed()                  {}
func (m *NoopMetrics) IncRetried()                 {}
func (m *NoopMetrics) ObserveBusy(_ time.Duration) {}
