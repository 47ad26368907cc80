package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "financer"

type resourceMetrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	throttles *prometheus.CounterVec
}

var (
	resourceMetricsOnce sync.Once
	resourceRegistry    *resourceMetrics
)

// ResourceMetrics returns the lazily-initialised registry recording fullnode
// resource reads.
func ResourceMetrics() *resourceMetrics {
	resourceMetricsOnce.Do(func() {
		resourceRegistry = &resourceMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resources",
				Name:      "requests_total",
				Help:      "Total fullnode resource reads segmented by resource and outcome.",
			}, []string{"resource", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "resources",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for fullnode resource reads.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"resource"}),
			throttles: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resources",
				Name:      "throttle_wait_seconds_total",
				Help:      "Cumulative time spent waiting on the client-side rate limiter.",
			}, []string{"resource"}),
		}
		prometheus.MustRegister(
			resourceRegistry.requests,
			resourceRegistry.latency,
			resourceRegistry.throttles,
		)
	})
	return resourceRegistry
}

// Observe records the outcome of a resource read. Outcomes should be stable
// strings such as "ok", "not_found" or "error".
func (m *resourceMetrics) Observe(resource, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	resource = ResourceLabel(resource)
	if outcome == "" {
		outcome = "unknown"
	}
	m.requests.WithLabelValues(resource, outcome).Inc()
	m.latency.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordThrottle adds the time a read spent blocked on the rate limiter.
func (m *resourceMetrics) RecordThrottle(resource string, waited time.Duration) {
	if m == nil || waited <= 0 {
		return
	}
	m.throttles.WithLabelValues(ResourceLabel(resource)).Add(waited.Seconds())
}

// ResourceLabel reduces a resource type to module::name so that label
// cardinality stays bounded regardless of deployer addresses and generic
// arguments.
func ResourceLabel(resourceType string) string {
	trimmed := strings.TrimSpace(resourceType)
	if trimmed == "" {
		return "unknown"
	}
	if idx := strings.IndexByte(trimmed, '<'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	parts := strings.Split(trimmed, "::")
	if len(parts) >= 3 {
		return parts[len(parts)-2] + "::" + parts[len(parts)-1]
	}
	return trimmed
}
