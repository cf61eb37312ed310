package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "islandvault",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "islandvault",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	ledgerEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "islandvault",
			Subsystem: "ledger",
			Name:      "entries_total",
			Help:      "Total number of ledger entries appended.",
		},
		[]string{"reason"},
	)

	gateAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "islandvault",
			Subsystem: "gate",
			Name:      "attempts_total",
			Help:      "Total number of coin-gated action attempts.",
		},
		[]string{"action", "outcome"},
	)

	workflowDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "islandvault",
			Subsystem: "workflow",
			Name:      "decisions_total",
			Help:      "Total number of moderation decisions applied.",
		},
		[]string{"kind", "outcome"},
	)

	integrityFaults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "islandvault",
			Subsystem: "ledger",
			Name:      "integrity_faults_total",
			Help:      "Total number of detected ledger integrity faults.",
		},
		[]string{"check"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		ledgerEntries,
		gateAttempts,
		workflowDecisions,
		integrityFaults,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware collects request count and duration per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordLedgerEntry counts one appended entry by reason.
func RecordLedgerEntry(reason string) {
	ledgerEntries.WithLabelValues(reason).Inc()
}

// RecordGateAttempt counts one gated action attempt by outcome.
func RecordGateAttempt(action, outcome string) {
	gateAttempts.WithLabelValues(action, outcome).Inc()
}

// RecordDecision counts one moderation decision.
func RecordDecision(kind, outcome string) {
	workflowDecisions.WithLabelValues(kind, outcome).Inc()
}

// RecordIntegrityFault counts one detected integrity fault by check name.
func RecordIntegrityFault(check string) {
	integrityFaults.WithLabelValues(check).Inc()
}
