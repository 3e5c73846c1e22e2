// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is private to the service so tests can construct servers
// repeatedly without duplicate registration panics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrichain_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agrichain_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "agrichain_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrichain_cache_hits_total",
			Help: "Cache lookups served from Redis",
		},
		[]string{"cache"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrichain_cache_misses_total",
			Help: "Cache lookups that fell through to storage",
		},
		[]string{"cache"},
	)

	AuthEvents = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrichain_auth_events_total",
			Help: "Authentication events by kind and outcome",
		},
		[]string{"event", "outcome"},
	)

	VerificationsRecorded = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrichain_verifications_recorded_total",
			Help: "Verification records written",
		},
		[]string{"entity_type", "source"},
	)

	VerificationChecks = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrichain_verification_checks_total",
			Help: "Verification lookups by result",
		},
		[]string{"entity_type", "result"},
	)

	JobRuns = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrichain_job_runs_total",
			Help: "Background job iterations",
		},
		[]string{"job", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordCache counts a hit or a miss for the named cache.
func RecordCache(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

func RecordAuth(event string, err error) {
	AuthEvents.WithLabelValues(event, outcome(err)).Inc()
}

func RecordJob(job string, err error) {
	JobRuns.WithLabelValues(job, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
