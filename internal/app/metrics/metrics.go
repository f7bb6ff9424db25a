// Package metrics exposes the Prometheus instrumentation shared by the
// HTTP layer, the skill handlers and the upstream clients.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kakao_bot_http_requests_in_flight",
		Help: "Number of HTTP requests currently being served.",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kakao_bot_http_requests_total",
		Help: "Total HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kakao_bot_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	skillResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kakao_bot_skill_responses_total",
		Help: "Skill responses by endpoint and outcome (ok or error).",
	}, []string{"endpoint", "outcome"})

	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kakao_bot_upstream_requests_total",
		Help: "Requests to upstream services by service and status code.",
	}, []string{"service", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kakao_bot_upstream_request_duration_seconds",
		Help:    "Upstream request latency by service.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kakao_bot_cache_lookups_total",
		Help: "Cache lookups by result (hit or miss).",
	}, []string{"result"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// IncInFlight marks the start of an HTTP request.
func IncInFlight() { httpRequestsInFlight.Inc() }

// DecInFlight marks the end of an HTTP request.
func DecInFlight() { httpRequestsInFlight.Dec() }

// RecordSkillResponse records the outcome of a skill endpoint invocation.
// Outcome is "ok" for a domain response and "error" for an error card.
func RecordSkillResponse(endpoint, outcome string) {
	skillResponsesTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordUpstreamRequest records one call to an upstream service. A status
// of zero means the request never produced a response.
func RecordUpstreamRequest(service string, status int, elapsed time.Duration) {
	upstreamRequestsTotal.WithLabelValues(service, strconv.Itoa(status)).Inc()
	upstreamRequestDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(result).Inc()
}
