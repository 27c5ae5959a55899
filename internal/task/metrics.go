package task

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks task throughput and latency
type Metrics struct {
	tasks      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	queueDepth prometheus.Gauge
}

// NewMetrics registers task metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		tasks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dualmind",
				Subsystem: "tasks",
				Name:      "total",
				Help:      "Total number of finished tasks by kind and status",
			},
			[]string{"kind", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dualmind",
				Subsystem: "task",
				Name:      "duration_seconds",
				Help:      "Task execution duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 900},
			},
			[]string{"kind"},
		),
		queueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "dualmind",
				Subsystem: "task",
				Name:      "queue_depth",
				Help:      "Number of tasks waiting for the worker",
			},
		),
	}
}

func (m *Metrics) observe(kind string, status Status, seconds float64) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(kind, string(status)).Inc()
	if status == StatusCompleted || status == StatusFailed {
		m.duration.WithLabelValues(kind).Observe(seconds)
	}
}

func (m *Metrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
