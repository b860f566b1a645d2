package taskq

import (
	"runtime"
)

const (
	DefaultQueueCapacity = 1024
)

// Options configure a worker Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the number of worker goroutines Start launches when its
	// count argument is zero or negative.
	Workers int

	// QueueCapacity bounds the submission queue. Producers block in Submit
	// once this many jobs are waiting.
	QueueCapacity int

	// DefaultRetry applies to jobs that carry no policy of their own.
	DefaultRetry RetryPolicy

	// RateLimit caps how many jobs per second the workers start processing.
	// Zero disables pacing. RateBurst defaults to the worker count.
	RateLimit float64
	RateBurst int

	// PinWorkers pins each worker goroutine to a CPU core on Linux.
	PinWorkers bool

	// Metrics receives queueing and execution events.
	// Defaults to NoopMetrics.
	Metrics MetricsPolicy

	// OnJobError observes each terminal job failure, in addition to the
	// aggregated report returned by Wait.
	OnJobError func(error)

	// OnInternalError observes non-job failures such as pinning errors.
	OnInternalError func(error)
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = DefaultQueueCapacity
	}
	o.DefaultRetry.fillDefaults()
	if o.RateBurst <= 0 {
		o.RateBurst = o.Workers
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}
