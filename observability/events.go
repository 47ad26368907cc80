package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type payloadMetrics struct {
	built *prometheus.CounterVec
}

var (
	payloadMetricsOnce sync.Once
	payloadRegistry    *payloadMetrics
)

// Payloads returns the metrics registry tracking entry function payloads handed
// out to external signers.
func Payloads() *payloadMetrics {
	payloadMetricsOnce.Do(func() {
		payloadRegistry = &payloadMetrics{
			built: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payloads",
				Name:      "built_total",
				Help:      "Count of entry function payloads built, segmented by kind.",
			}, []string{"kind"}),
		}
		prometheus.MustRegister(payloadRegistry.built)
	})
	return payloadRegistry
}

// RecordPayload increments the counter for the supplied payload kind.
func (m *payloadMetrics) RecordPayload(kind string) {
	if m == nil {
		return
	}
	normalized := strings.ToLower(strings.TrimSpace(kind))
	if normalized == "" {
		normalized = "unknown"
	}
	m.built.WithLabelValues(normalized).Inc()
}
