// Package taskq provides a bounded producer/consumer queue and a worker
// pool that drains it, for in-process background work with backpressure
// and cooperative cancellation.
//
// Design goals
//
// The package is designed around the following principles:
//
//   - Bound memory: the queue holds at most its fixed capacity
//   - Apply backpressure by blocking producers, never by dropping work
//   - Deliver items strictly in arrival order, each exactly once
//   - Keep one item's failure from affecting any other item
//
// Rather than maximizing raw dequeue throughput, taskq optimizes for
// predictable behavior under load: a full queue slows producers down
// instead of growing without bound or discarding submissions.
//
// Architecture overview
//
// The package is composed of two loosely coupled layers:
//
//   1. Queue
//      A fixed-capacity FIFO buffer shared by producers and consumers.
//      Enqueue blocks while full, Dequeue blocks while empty, and Close
//      switches the queue into draining: producers fail fast while
//      consumers keep receiving the remaining items, then a final
//      drained signal.
//
//   2. Pool / workers
//      A fixed set of worker goroutines that dequeue and execute jobs
//      concurrently. Workers own no ordering between each other; only
//      the hand-off order out of the queue is guaranteed.
//
// The Queue is usable on its own with any element type. The Pool wraps
// payloads in Jobs, which carry an optional context, cleanup hook, retry
// policy, producer tag, and an ID used in logs and failure reports.
//
// Shutdown and cancellation
//
// Two stop paths exist:
//
//   - Close ends intake and lets the workers drain everything already
//     accepted. Shutdown is Close plus a deadline-bounded wait.
//   - Cancel is cooperative: each worker finishes its in-flight job and
//     exits without pulling more. Items still queued stay where they are
//     and are reported by QueueLen.
//
// Cancellation is only ever observed between jobs or between retry
// attempts. A job that is already executing is never interrupted
// mid-flight.
//
// Error handling
//
// The pool distinguishes between two classes of errors:
//
//   - Job errors: returned by the process function, produced by panic
//     recovery, or caused by per-job context cancellation
//   - Internal errors: unexpected failures inside the pool itself
//
// Job errors never stop worker execution. Each terminal failure is
// recorded with its job ID and tag, optionally forwarded to a handler,
// and the whole set is returned by Wait combined into a single error.
// Panics inside jobs are recovered to prevent worker termination.
//
// Retries
//
// Failed attempts are retried with exponential backoff up to the
// effective policy's attempt budget. Per-job policies overlay the pool
// default field by field. Backoff sleeps are interruptible by the job's
// context and by Cancel.
//
// CPU pinning
//
// On Linux, workers may optionally be pinned to specific CPUs. When
// enabled, workers are locked to OS threads and restricted to run on a
// single CPU core. This can improve cache locality for CPU-bound
// workloads, but is not universally beneficial.
//
// Intended use cases
//
// taskq is well suited for:
//
//   - Background job execution inside a single process
//   - Pipelines that must not outrun a slow consumer
//   - Batch processing where per-item failures are collected, not fatal
//
// It is not a distributed queue: nothing is persisted and nothing
// crosses a process boundary.
package taskq
