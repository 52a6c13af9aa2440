package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gather returns the metric family with the given name from reg.
func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric %s not registered", name)
	return nil
}

func counterFor(mf *dto.MetricFamily, label, value string) float64 {
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == label && lp.GetValue() == value {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestRouterMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRouterMetrics(reg)

	m.ObserveIntent("order_lookup")
	m.ObserveIntent("order_lookup")
	m.ObserveIntent("chat")
	m.ObserveAdapterFailure("llm")
	m.ObserveTurnLatency("chat", 0.25)
	m.ObserveSessionStarted()

	routed := gather(t, reg, "rivertown_router_routed_total")
	assert.Equal(t, 2.0, counterFor(routed, "intent", "order_lookup"))
	assert.Equal(t, 1.0, counterFor(routed, "intent", "chat"))

	failures := gather(t, reg, "rivertown_router_adapter_failures_total")
	assert.Equal(t, 1.0, counterFor(failures, "backend", "llm"))

	sessions := gather(t, reg, "rivertown_chat_sessions_started_total")
	assert.Equal(t, 1.0, sessions.GetMetric()[0].GetCounter().GetValue())

	latency := gather(t, reg, "rivertown_router_turn_latency_seconds")
	require.Len(t, latency.GetMetric(), 1)
	assert.Equal(t, uint64(1), latency.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestRouterMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRouterMetrics(reg)
	m.ObserveIntent("callback")
	assert.Panics(t, func() { NewRouterMetrics(reg) }, "duplicate registration")
}

func TestRouterMetricsNilSafe(t *testing.T) {
	var m *RouterMetrics
	m.ObserveIntent("chat")
	m.ObserveAdapterFailure("calls")
	m.ObserveTurnLatency("chat", 0.1)
	m.ObserveSessionStarted()
}
