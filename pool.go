package taskq

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

// Pool drains a bounded Queue with a fixed set of worker goroutines.
//
// Lifecycle: NewPool allocates, Start launches the workers, Close or Cancel
// ends intake, Wait joins the workers and returns the aggregated failures.
type Pool[T any] struct {
	queue *Queue[Job[T]]
	opts  Options

	fn      JobFunc[T]
	limiter *rate.Limiter

	wg            sync.WaitGroup
	started       atomic.Bool
	activeWorkers atomic.Int32

	cancelOnce sync.Once
	cancel     chan struct{} // closed by Cancel; workers stop between jobs

	runCtx    context.Context // canceled with the pool; paces the limiter
	runCancel context.CancelFunc

	failuresMu sync.Mutex
	failures   []*ProcessingError
}

// NewPool allocates a pool and its submission queue.
// Workers do not run until Start.
func NewPool[T any](opts Options) *Pool[T] {
	opts.FillDefaults()
	p := &Pool[T]{
		queue:  NewQueue[Job[T]](opts.QueueCapacity),
		opts:   opts,
		cancel: make(chan struct{}),
	}
	if opts.RateLimit > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)
	}
	p.runCtx, p.runCancel = context.WithCancel(context.Background())
	return p
}

// Start launches n workers, each looping dequeue and process until the
// queue drains or Cancel is observed. n <= 0 falls back to Options.Workers.
// fn handles every job submitted to this pool. Start succeeds at most once.
func (p *Pool[T]) Start(n int, fn JobFunc[T]) error {
	if fn == nil {
		return ErrNilProcess
	}
	if !p.started.CompareAndSwap(false, true) {
		return ErrPoolRunning
	}
	if n <= 0 {
		n = p.opts.Workers
	}
	p.fn = fn
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	lg.FromContext(p.runCtx).Info("Pool started",
		lg.Int("workers", n),
		lg.Int("queue_capacity", p.queue.Cap()),
	)
	return nil
}

// Submit hands a job to the queue, blocking while it is full.
// It returns ErrQueueClosed once Close or Cancel has been called.
func (p *Pool[T]) Submit(job Job[T]) error {
	job.normalize()
	if err := job.Ctx.Err(); err != nil {
		return fmt.Errorf("taskq: submit: %w", err)
	}
	if err := p.queue.Enqueue(job); err != nil {
		return err
	}
	p.opts.Metrics.IncQueued()
	lg.FromContext(job.Ctx).Info("Job submitted",
		lg.String("job_id", job.ID),
		lg.Any("tag", job.Tag),
	)
	return nil
}

// TrySubmit is the non-blocking variant. It reports false when the queue
// is full or closed.
func (p *Pool[T]) TrySubmit(job Job[T]) bool {
	job.normalize()
	if !p.queue.TryEnqueue(job) {
		return false
	}
	p.opts.Metrics.IncQueued()
	return true
}

// Close ends intake. Workers keep draining jobs already accepted; combine
// with Wait for a graceful shutdown.
func (p *Pool[T]) Close() { p.queue.Close() }

// Cancel cooperatively stops the pool: intake is closed, and each worker
// finishes its in-flight job and then exits without pulling more. Jobs
// left in the queue stay there unprocessed; QueueLen reports how many.
func (p *Pool[T]) Cancel() {
	p.cancelOnce.Do(func() {
		close(p.cancel)
		p.runCancel()
		p.queue.Close()
	})
}

// Wait blocks until every worker has exited, then returns all terminal job
// failures combined into a single error, or nil when there were none.
// ctx bounds the wait only; its expiry surfaces as ctx.Err().
//
// Wait returns only after Close or Cancel: while the queue is open and
// empty, workers stay blocked in dequeue.
func (p *Pool[T]) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.runCancel()
	p.failuresMu.Lock()
	defer p.failuresMu.Unlock()
	errs := make([]error, len(p.failures))
	for i, f := range p.failures {
		errs[i] = f
	}
	return multierr.Combine(errs...)
}

// Shutdown closes intake and waits for the drain to finish.
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	p.Close()
	return p.Wait(ctx)
}

// Stop is the blocking Shutdown.
func (p *Pool[T]) Stop() { _ = p.Shutdown(context.Background()) }

// Failures returns a snapshot of the terminal job failures recorded so far.
// Wait reports the same set; Failures is for inspection mid-run or after a
// deadline-bounded Wait.
func (p *Pool[T]) Failures() []*ProcessingError {
	p.failuresMu.Lock()
	defer p.failuresMu.Unlock()
	out := make([]*ProcessingError, len(p.failures))
	copy(out, p.failures)
	return out
}

// ActiveWorkers returns the number of workers currently processing a job.
func (p *Pool[T]) ActiveWorkers() int32 { return p.activeWorkers.Load() }

// QueueLen returns the number of jobs waiting in the queue.
func (p *Pool[T]) QueueLen() int { return p.queue.Len() }

func (p *Pool[T]) worker(id int) {
	defer p.wg.Done()

	if p.opts.PinWorkers {
		runtime.LockOSThread()
		if err := PinToCPU(id % runtime.NumCPU()); err != nil {
			p.reportInternalError(fmt.Errorf("taskq: pin worker %d: %w", id, err))
			lg.FromContext(p.runCtx).Warn("CPU pinning failed",
				lg.Int("worker", id),
				lg.Any("error", err),
			)
		}
	}

	for {
		select {
		case <-p.cancel:
			return
		default:
		}
		if p.limiter != nil {
			if err := p.limiter.Wait(p.runCtx); err != nil {
				return
			}
		}
		job, ok := p.queue.Dequeue()
		if !ok {
			return // drained
		}
		p.opts.Metrics.DecQueued()
		p.runJob(job)
	}
}

// runJob executes one job with panic isolation and cleanup. A panic is
// recorded as a failure; the worker itself survives.
func (p *Pool[T]) runJob(job Job[T]) {
	p.activeWorkers.Add(1)
	defer p.activeWorkers.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			lg.FromContext(job.Ctx).Error("job panicked",
				lg.String("job_id", job.ID),
				lg.Any("panic", r),
			)
			p.opts.Metrics.IncFailed()
			p.reportJobError(&ProcessingError{
				JobID: job.ID,
				Tag:   job.Tag,
				Err:   fmt.Errorf("taskq: panic: %v", r),
			})
		}
		if job.CleanupFunc != nil {
			job.CleanupFunc()
		}
	}()
	p.processJob(job)
}

func (p *Pool[T]) processJob(job Job[T]) {
	logger := lg.FromContext(job.Ctx).With(lg.String("job_id", job.ID))
	logger.Info("Worker processing job", lg.Int32("active_workers", p.activeWorkers.Load()))

	pol := p.opts.DefaultRetry.merge(job.Retry)
	bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

	for attempt := 1; attempt <= pol.Attempts; attempt++ {
		start := time.Now()
		err := p.fn(job.Payload)
		p.opts.Metrics.ObserveBusy(time.Since(start))
		if err == nil {
			p.opts.Metrics.IncExecuted()
			logger.Info("Worker finished", lg.Int32("active_workers", p.activeWorkers.Load()))
			return
		}
		if attempt == pol.Attempts {
			p.opts.Metrics.IncFailed()
			logger.Error("Worker error", lg.Int("attempt", attempt), lg.Any("error", err))
			p.reportJobError(&ProcessingError{JobID: job.ID, Tag: job.Tag, Err: err})
			return
		}
		delay := bo.Next()
		p.opts.Metrics.IncRetried()
		logger.Warn("job attempt failed; backing off",
			lg.Int("attempt", attempt),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-job.Ctx.Done():
			if !timer.Stop() {
				<-timer.C // drain if timer is fired
			}
			logger.Info("Job canceled", lg.Any("reason", job.Ctx.Err()))
			p.opts.Metrics.IncFailed()
			p.reportJobError(&ProcessingError{
				JobID: job.ID,
				Tag:   job.Tag,
				Err:   fmt.Errorf("taskq: canceled after %d attempt(s): %w", attempt, job.Ctx.Err()),
			})
			return
		case <-p.cancel:
			if !timer.Stop() {
				<-timer.C
			}
			logger.Info("Job abandoned on pool cancel", lg.Int("attempt", attempt))
			p.opts.Metrics.IncFailed()
			p.reportJobError(&ProcessingError{
				JobID: job.ID,
				Tag:   job.Tag,
				Err:   fmt.Errorf("taskq: pool canceled after %d attempt(s): %w", attempt, err),
			})
			return
		}
	}
}
