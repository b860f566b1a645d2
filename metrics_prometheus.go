package taskq

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics exports pool activity as Prometheus collectors.
//
// It satisfies MetricsPolicy, so a pool can publish its counters by setting
// Options.Metrics to an instance built here.
type PrometheusMetrics struct {
	queued   prometheus.Gauge
	executed prometheus.Counter
	failed   prometheus.Counter
	retried  prometheus.Counter
	busy     prometheus.Histogram
}

// NewPrometheusMetrics builds the collectors and registers them with reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func NewPrometheusMetrics(namespace, subsystem string, reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PrometheusMetrics{
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_queued",
			Help:      "Number of jobs currently waiting in the queue.",
		}),
		executed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_executed_total",
			Help:      "Total number of jobs processed successfully.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_failed_total",
			Help:      "Total number of jobs that exhausted their attempts, were canceled, or panicked.",
		}),
		retried: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_retries_total",
			Help:      "Total number of retry attempts scheduled.",
		}),
		busy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_duration_seconds",
			Help:      "Wall time spent inside the process function.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.queued, m.executed, m.failed, m.retried, m.busy)
	return m
}

func (m *PrometheusMetrics) IncQueued()                  { m.queued.Inc() }
func (m *PrometheusMetrics) DecQueued()                  { m.queued.Dec() }
func (m *PrometheusMetrics) IncExecuted()                { m.executed.Inc() }
func (m *PrometheusMetrics) IncFailed()                  { m.failed.Inc() }
func (m *PrometheusMetrics) IncRetried()                 { m.retried.Inc() }
func (m *PrometheusMetrics) ObserveBusy(d time.Duration) { m.busy.Observe(d.Seconds()) }
