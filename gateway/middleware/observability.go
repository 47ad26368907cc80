package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ObservabilityConfig struct {
	ServiceName   string
	MetricsPrefix string
	LogRequests   bool
	Enabled       bool
}

// Observability traces, counts and optionally logs every request of a route
// group.
type Observability struct {
	cfg       ObservabilityConfig
	logger    *slog.Logger
	tracer    trace.Tracer
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	registry  *prometheus.Registry
}

func NewObservability(cfg ObservabilityConfig, logger *slog.Logger) *Observability {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "fin-gateway"
	}
	if cfg.MetricsPrefix == "" {
		cfg.MetricsPrefix = "fin_gateway"
	}
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.MetricsPrefix,
		Name:      "requests_total",
		Help:      "Total HTTP requests processed by the gateway.",
	}, []string{"route", "method", "status"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.MetricsPrefix,
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	registry.MustRegister(requests, durations)
	return &Observability{
		cfg:       cfg,
		logger:    logger,
		tracer:    otel.Tracer(cfg.ServiceName),
		requests:  requests,
		durations: durations,
		registry:  registry,
	}
}

func (o *Observability) Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if o == nil || !o.cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ctx, span := o.tracer.Start(r.Context(), route, trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
			))
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r.WithContext(ctx))
			span.SetAttributes(attribute.Int("http.status_code", recorder.status))
			span.End()
			duration := time.Since(start)
			o.requests.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
			o.durations.WithLabelValues(route, r.Method).Observe(duration.Seconds())
			if o.cfg.LogRequests {
				o.logger.Info("request",
					"route", route,
					"method", r.Method,
					"path", r.URL.Path,
					"status", recorder.status,
					"duration_ms", float64(duration.Microseconds())/1000,
				)
			}
		})
	}
}

// MetricsHandler serves the gateway registry together with the default
// registry, which carries the SDK resource and payload collectors.
func (o *Observability) MetricsHandler() http.Handler {
	gatherers := prometheus.Gatherers{o.registry, prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
