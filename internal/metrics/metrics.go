// Package metrics exposes broker counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "signer"

// Metrics is the set of collectors owned by one broker.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	SessionsOpened *prometheus.CounterVec
	UnlockAttempts *prometheus.CounterVec
	Resolutions    *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
}

// New creates collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by the broker.",
		}, []string{"method", "code"}),
		SessionsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Signing and wallet sessions created, by kind.",
		}, []string{"kind"}),
		UnlockAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unlock_attempts_total",
			Help:      "Browser unlock attempts, by result.",
		}, []string{"result"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_resolutions_total",
			Help:      "Wallet resolution outcomes.",
		}, []string{"outcome"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Transactions submitted, by chain family and status.",
		}, []string{"family", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.SessionsOpened,
		m.UnlockAttempts,
		m.Resolutions,
		m.Submissions,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
