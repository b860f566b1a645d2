package taskq_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	wp "github.com/Andrej220/go-utils/taskq"
)

// TestQueueConcurrentNoLossNoDup checks the multiset property: with many
// producers and consumers racing against a small queue, every item comes
// out exactly once.
func TestQueueConcurrentNoLossNoDup(t *testing.T) {
	producers := getenvInt("TASKQ_TEST_PRODUCERS", 4)
	consumers := getenvInt("TASKQ_TEST_CONSUMERS", 4)
	perProducer := getenvInt("TASKQ_TEST_ITEMS", 500)
	total := producers * perProducer

	q := wp.NewQueue[int](32)
	seen := make([]atomic.Bool, total)

	var sentSum, seenSum, count atomic.Int64

	var pg sync.WaitGroup
	for i := 0; i < producers; i++ {
		pg.Add(1)
		go func(id int) {
			defer pg.Done()
			for j := 0; j < perProducer; j++ {
				v := id*perProducer + j
				if err := q.Enqueue(v); err != nil {
					t.Errorf("enqueue %d: %v", v, err)
					return
				}
				sentSum.Add(int64(v))
			}
		}(i)
	}

	var cg sync.WaitGroup
	for i := 0; i < consumers; i++ {
		cg.Add(1)
		go func() {
			defer cg.Done()
			for {
				v, ok := q.Dequeue()
				if !ok {
					return
				}
				if !seen[v].CompareAndSwap(false, true) {
					t.Errorf("item %d delivered twice", v)
				}
				seenSum.Add(int64(v))
				count.Add(1)
			}
		}()
	}

	pg.Wait()
	q.Close()
	cg.Wait()

	require.Equal(t, int64(total), count.Load(), "item count")
	require.Equal(t, sentSum.Load(), seenSum.Load(), "item checksum")
}

// TestQueueOrderUnderLoad drives a single producer against a single
// consumer through a tiny queue, so both sides block constantly, and
// verifies strict FIFO delivery.
func TestQueueOrderUnderLoad(t *testing.T) {
	items := getenvInt("TASKQ_TEST_ITEMS", 5000)

	q := wp.NewQueue[int](8)

	done := make(chan struct{})
	go func() {
		defer close(done)
		next := 0
		for {
			v, ok := q.Dequeue()
			if !ok {
				if next != items {
					t.Errorf("drained after %d items; want %d", next, items)
				}
				return
			}
			if v != next {
				t.Errorf("dequeued %d; want %d", v, next)
				return
			}
			next++
		}
	}()

	for i := 0; i < items; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	q.Close()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("consumer did not finish")
	}
}

func TestPoolConcurrentNoLossNoDup(t *testing.T) {
	submitters := getenvInt("TASKQ_TEST_PRODUCERS", 4)
	perSubmitter := getenvInt("TASKQ_TEST_ITEMS", 500)
	total := submitters * perSubmitter

	seen := make([]atomic.Bool, total)
	var count atomic.Int64

	p := wp.NewPool[int](wp.Options{
		QueueCapacity: 32,
		DefaultRetry:  wp.RetryPolicy{Attempts: 1, Initial: time.Millisecond, Max: time.Millisecond},
	})
	require.NoError(t, p.Start(4, func(v int) error {
		if !seen[v].CompareAndSwap(false, true) {
			t.Errorf("payload %d processed twice", v)
		}
		count.Add(1)
		return nil
	}))

	var sg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		sg.Add(1)
		go func(id int) {
			defer sg.Done()
			for j := 0; j < perSubmitter; j++ {
				v := id*perSubmitter + j
				if err := p.Submit(wp.Job[int]{Payload: v}); err != nil {
					t.Errorf("submit %d: %v", v, err)
					return
				}
			}
		}(i)
	}

	sg.Wait()
	require.NoError(t, p.Shutdown(context.Background()))
	require.Equal(t, int64(total), count.Load(), "processed count")
}

func TestCancelStopsWorkers(t *testing.T) {
	p := wp.NewPool[int](wp.Options{QueueCapacity: 8})

	release := make(chan struct{})
	require.NoError(t, p.Start(2, func(int) error {
		<-release
		return nil
	}))

	for i := 0; i < 6; i++ {
		require.NoError(t, p.Submit(wp.Job[int]{Payload: i}))
	}
	waitUntil(t, time.Second, func() bool { return p.ActiveWorkers() == 2 })

	p.Cancel()
	close(release)

	require.NoError(t, p.Wait(context.Background()))
	waitUntil(t, time.Second, func() bool { return p.ActiveWorkers() == 0 })

	// the two in-flight jobs finished; the other four were never pulled
	require.Equal(t, 4, p.QueueLen())
}

func TestRateLimitPaces(t *testing.T) {
	p := wp.NewPool[int](wp.Options{
		QueueCapacity: 8,
		RateLimit:     100,
		RateBurst:     1,
	})
	require.NoError(t, p.Start(1, func(int) error { return nil }))

	start := time.Now()
	for i := 0; i < 6; i++ {
		require.NoError(t, p.Submit(wp.Job[int]{Payload: i}))
	}
	require.NoError(t, p.Shutdown(context.Background()))
	elapsed := time.Since(start)

	// 6 jobs at 100/s with burst 1 cannot finish faster than ~50ms
	require.GreaterOrEqual(t, elapsed, 35*time.Millisecond, "rate limiter did not pace the workers")
}

func TestOnJobErrorHook(t *testing.T) {
	var mu sync.Mutex
	var hooked []error

	p := wp.NewPool[int](wp.Options{
		QueueCapacity: 8,
		DefaultRetry:  wp.RetryPolicy{Attempts: 1, Initial: time.Millisecond, Max: time.Millisecond},
		OnJobError: func(err error) {
			mu.Lock()
			hooked = append(hooked, err)
			mu.Unlock()
		},
	})
	require.NoError(t, p.Start(1, func(v int) error {
		if v < 0 {
			return errors.New("negative payload")
		}
		return nil
	}))

	for _, v := range []int{1, -1, 2, -2} {
		require.NoError(t, p.Submit(wp.Job[int]{Payload: v}))
	}
	p.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hooked, 2)
	require.Len(t, p.Failures(), 2)

	var perr *wp.ProcessingError
	require.ErrorAs(t, hooked[0], &perr)
	require.NotEmpty(t, perr.JobID)
}

func TestPoolReportsThroughAtomicMetrics(t *testing.T) {
	m := &wp.AtomicMetrics{}

	p := wp.NewPool[int](wp.Options{
		QueueCapacity: 8,
		DefaultRetry:  wp.RetryPolicy{Attempts: 1, Initial: time.Millisecond, Max: time.Millisecond},
		Metrics:       m,
	})
	require.NoError(t, p.Start(2, func(v int) error {
		time.Sleep(time.Millisecond)
		if v%2 == 0 {
			return errors.New("even payload rejected")
		}
		return nil
	}))

	for i := 1; i <= 6; i++ {
		require.NoError(t, p.Submit(wp.Job[int]{Payload: i}))
	}
	p.Stop()

	require.Equal(t, uint64(3), m.Executed())
	require.Equal(t, uint64(3), m.Failed())
	require.Equal(t, int64(0), m.Queued(), "queue gauge must return to zero")
	require.Greater(t, int64(m.BusyTime()), int64(0))
}
