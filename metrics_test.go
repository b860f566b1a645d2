package taskq

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAtomicMetricsCounters(t *testing.T) {
	var m AtomicMetrics

	m.IncQueued()
	m.IncQueued()
	m.DecQueued()
	m.IncExecuted()
	m.IncFailed()
	m.IncRetried()
	m.ObserveBusy(3 * time.Millisecond)

	if got := m.Queued(); got != 1 {
		t.Fatalf("queued = %d; want 1", got)
	}
	if got := m.Executed(); got != 1 {
		t.Fatalf("executed = %d; want 1", got)
	}
	if got := m.Failed(); got != 1 {
		t.Fatalf("failed = %d; want 1", got)
	}
	if got := m.Retried(); got != 1 {
		t.Fatalf("retried = %d; want 1", got)
	}
	if got := m.BusyTime(); got != 3*time.Millisecond {
		t.Fatalf("busy time = %v; want 3ms", got)
	}
}

func TestPrometheusMetricsCollects(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics("taskq", "test", reg)

	m.IncQueued()
	m.IncExecuted()
	m.IncExecuted()
	m.IncFailed()
	m.IncRetried()
	m.ObserveBusy(10 * time.Millisecond)

	if got := testutil.ToFloat64(m.queued); got != 1 {
		t.Fatalf("queued gauge = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.executed); got != 2 {
		t.Fatalf("executed counter = %v; want 2", got)
	}
	if got := testutil.ToFloat64(m.failed); got != 1 {
		t.Fatalf("failed counter = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.retried); got != 1 {
		t.Fatalf("retried counter = %v; want 1", got)
	}
	if got := testutil.CollectAndCount(m.busy); got != 1 {
		t.Fatalf("busy histogram streams = %d; want 1", got)
	}
}
