package metrics

import "github.com/prometheus/client_golang/prometheus"

// RouterMetrics exposes counters/histograms for conversation routing.
type RouterMetrics struct {
	routedTotal     *prometheus.CounterVec
	adapterFailures *prometheus.CounterVec
	turnLatency     *prometheus.HistogramVec
	sessionsStarted prometheus.Counter
}

func NewRouterMetrics(reg prometheus.Registerer) *RouterMetrics {
	m := &RouterMetrics{
		routedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivertown",
			Subsystem: "router",
			Name:      "routed_total",
			Help:      "Utterances routed, by intent",
		}, []string{"intent"}),
		adapterFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rivertown",
			Subsystem: "router",
			Name:      "adapter_failures_total",
			Help:      "Backend failures converted to fallback replies",
		}, []string{"backend"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rivertown",
			Subsystem: "router",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of a chat turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rivertown",
			Subsystem: "chat",
			Name:      "sessions_started_total",
			Help:      "Chat sessions opened",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.routedTotal, m.adapterFailures, m.turnLatency, m.sessionsStarted)
	return m
}

func (m *RouterMetrics) ObserveIntent(intent string) {
	if m == nil {
		return
	}
	m.routedTotal.WithLabelValues(intent).Inc()
}

func (m *RouterMetrics) ObserveAdapterFailure(backend string) {
	if m == nil {
		return
	}
	m.adapterFailures.WithLabelValues(backend).Inc()
}

func (m *RouterMetrics) ObserveTurnLatency(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(intent).Observe(seconds)
}

func (m *RouterMetrics) ObserveSessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}
