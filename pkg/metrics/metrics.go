// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "user_service"

// Metrics is a private registry plus the service's collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	GraphQLOps     *prometheus.CounterVec
	GraphQLErrors  *prometheus.CounterVec
	RateLimited    prometheus.Counter
	GraphQLLatency *prometheus.HistogramVec
}

// New registers the service collectors along with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		GraphQLOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_operations_total",
			Help:      "GraphQL operations executed, by operation name.",
		}, []string{"operation"}),
		GraphQLErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_errors_total",
			Help:      "GraphQL errors returned, by error code.",
		}, []string{"code"}),
		GraphQLLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graphql_operation_duration_seconds",
			Help:      "GraphQL execution latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.GraphQLOps,
		m.GraphQLErrors,
		m.GraphQLLatency,
		m.RateLimited,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveGraphQL records one executed operation and the codes of its errors.
// An empty operation name is recorded as "anonymous".
func (m *Metrics) ObserveGraphQL(operation string, elapsed time.Duration, codes []string) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "anonymous"
	}
	m.GraphQLOps.WithLabelValues(operation).Inc()
	m.GraphQLLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
	for _, code := range codes {
		m.GraphQLErrors.WithLabelValues(code).Inc()
	}
}
