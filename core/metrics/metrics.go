// Package metrics exposes Prometheus counters for the bot.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	transitions     *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	decisions       *prometheus.CounterVec
	gatewayFailures *prometheus.CounterVec
	updates         *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_form_transitions_total",
				Help: "Count of applied form transitions",
			},
			[]string{"transition"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_submissions_total",
				Help: "Count of completed forms by routing result",
			},
			[]string{"result"},
		),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_decisions_total",
				Help: "Count of reviewer decisions by result",
			},
			[]string{"result"},
		),
		gatewayFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_api_failures_total",
				Help: "Count of failed Telegram API calls",
			},
			[]string{"method"},
		),
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_updates_total",
				Help: "Count of handled updates",
			},
			[]string{"handler", "status"},
		),
	}
	m.registry.MustRegister(
		m.transitions,
		m.submissions,
		m.decisions,
		m.gatewayFailures,
		m.updates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSessions registers a gauge reading the number of active sessions from fn.
func (m *Metrics) ObserveSessions(fn func() int) {
	if m == nil || fn == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "intake_active_sessions",
			Help: "Current number of users in the middle of the form",
		},
		func() float64 { return float64(fn()) },
	))
}

// Transition counts an applied form transition.
func (m *Metrics) Transition(name string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(name).Inc()
}

// Submission counts a completed form; result is routed, unrouted or failed.
func (m *Metrics) Submission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// Decision counts a reviewer action; result is approve, reject, stale or malformed.
func (m *Metrics) Decision(result string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(result).Inc()
}

// GatewayFailure counts a failed outbound call.
func (m *Metrics) GatewayFailure(method string) {
	if m == nil {
		return
	}
	m.gatewayFailures.WithLabelValues(method).Inc()
}

// Update counts a handled update.
func (m *Metrics) Update(handler, status string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(handler, status).Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
