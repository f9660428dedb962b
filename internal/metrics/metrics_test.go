package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCompletion("gemini", "ok", 0.4)
	m.IncFallback("verdict", "transport")
	m.ObserveHTTP("POST", "/api/v1/medical-response", "200", 0.5)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"medconsensus_completions_total",
		"medconsensus_completion_duration_seconds",
		"medconsensus_fallbacks_total",
		"medconsensus_http_requests_total",
		"medconsensus_http_request_duration_seconds",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestObserveCompletion_Counts(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCompletion("openai", "ok", 1)
	m.ObserveCompletion("openai", "ok", 1)
	m.ObserveCompletion("openai", "transport_error", 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Completions.WithLabelValues("openai", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Completions.WithLabelValues("openai", "transport_error")))
}

func TestIncFallback_Counts(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncFallback("questions", "empty_condition")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("questions", "empty_condition")))
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCompletion("x", "ok", 1)
		m.IncFallback("opinion", "transport")
		m.ObserveHTTP("GET", "/", "200", 0)
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
