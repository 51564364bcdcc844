// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "arranger"

type Metrics struct {
	TasksCreated        *prometheus.CounterVec
	SetsCreated         prometheus.Counter
	Requests            *prometheus.CounterVec
	Errors              *prometheus.CounterVec
	ArrangementDuration prometheus.Histogram
	MemoryUsage         prometheus.Gauge
	SessionDuration     prometheus.Gauge

	started time.Time
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TasksCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_created_total",
			Help:      "Total number of tasks created.",
		}, []string{"set_id"}),
		SetsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets_created_total",
			Help:      "Total number of task sets created.",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total API requests by route.",
		}, []string{"route"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total application errors by type.",
		}, []string{"error_type"}),
		ArrangementDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "arrangement_duration_seconds",
			Help:      "Time taken to arrange a task set.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10},
		}),
		MemoryUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_usage_megabytes",
			Help:      "Heap memory in use, in MB.",
		}),
		SessionDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Seconds since the service started.",
		}),
		started: time.Now(),
	}
	reg.MustRegister(
		m.TasksCreated,
		m.SetsCreated,
		m.Requests,
		m.Errors,
		m.ArrangementDuration,
		m.MemoryUsage,
		m.SessionDuration,
	)
	return m
}

// ObserveArrangement records how long fn took.
func (m *Metrics) ObserveArrangement(fn func() error) error {
	timer := prometheus.NewTimer(m.ArrangementDuration)
	defer timer.ObserveDuration()
	return fn()
}

// Refresh updates the memory and session gauges.
func (m *Metrics) Refresh() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.MemoryUsage.Set(float64(ms.HeapInuse) / (1024 * 1024))
	m.SessionDuration.Set(time.Since(m.started).Seconds())
}
