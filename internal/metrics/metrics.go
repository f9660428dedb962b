// Package metrics defines the prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Completions        *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
	Fallbacks          *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers all collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Completions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medconsensus_completions_total",
				Help: "Total number of completion calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		CompletionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "medconsensus_completion_duration_seconds",
				Help:    "Duration of completion calls in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),
		Fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medconsensus_fallbacks_total",
				Help: "Total number of synthesis calls answered from the fallback table",
			},
			[]string{"operation", "reason"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medconsensus_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "medconsensus_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// ObserveCompletion records one completion call.
func (m *Metrics) ObserveCompletion(provider, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Completions.WithLabelValues(provider, outcome).Inc()
	m.CompletionDuration.WithLabelValues(provider).Observe(seconds)
}

// IncFallback records a synthesis call that used the fallback table.
func (m *Metrics) IncFallback(operation, reason string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(operation, reason).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}
