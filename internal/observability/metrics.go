package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	CachedSessions      prometheus.Gauge
	SessionEvents       *prometheus.CounterVec
	ValidationChecks    *prometheus.CounterVec
	FallbackActivations *prometheus.CounterVec
	TurnIntents         *prometheus.CounterVec
	DurableErrors       *prometheus.CounterVec
	TurnLatency         prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CachedSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_sessions",
			Help:      "Number of sessions held in the in-process cache.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session events by type.",
		}, []string{"event"}),
		ValidationChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_checks_total",
			Help:      "Security validation checks by stage and outcome.",
		}, []string{"stage", "outcome"}),
		FallbackActivations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_activations_total",
			Help:      "Deterministic fallback activations by capability.",
		}, []string{"capability"}),
		TurnIntents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_intents_total",
			Help:      "Processed turns by classified intent.",
		}, []string{"intent"}),
		DurableErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "durable_store_errors_total",
			Help:      "Best-effort durable store failures by operation.",
		}, []string{"op"}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_ms",
			Help:      "End-to-end turn processing latency in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}),
	}
}

func (m *Metrics) ObserveTurnLatency(d time.Duration) {
	m.TurnLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
