package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values of chartstack_engine_apply_total.
const (
	resultSuccess = "success"
	resultError   = "error"
	resultDryRun  = "dry_run"
)

type metrics struct {
	applyTotal    *prometheus.CounterVec
	applyDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		applyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chartstack",
				Subsystem: "engine",
				Name:      "apply_total",
				Help:      "Total number of applied resources by kind and result",
			},
			[]string{"kind", "result"},
		),
		applyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "chartstack",
				Subsystem: "engine",
				Name:      "apply_duration_seconds",
				Help:      "Duration of resource applies in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12), // 500ms to ~17min
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.applyTotal, m.applyDuration)
	}
	return m
}

func (m *metrics) record(kind, result string, duration time.Duration) {
	m.applyTotal.WithLabelValues(kind, result).Inc()
	m.applyDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
