// Package metrics exposes Prometheus counters for scraping and answering.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	answers        *prometheus.CounterVec
	scrapes        *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagechat",
			Name:      "answers_total",
			Help:      "Answer requests by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		scrapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagechat",
			Name:      "scrapes_total",
			Help:      "Page acquisitions by method and outcome.",
		}, []string{"method", "outcome"}),
		remoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pagechat",
			Name:      "remote_completion_seconds",
			Help:      "Latency of remote completion calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
	}
	m.registry.MustRegister(m.answers, m.scrapes, m.remoteDuration)
	return m
}

// ObserveAnswer counts one answer request.
func (m *Metrics) ObserveAnswer(strategy string, err error) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(strategy, outcome(err)).Inc()
}

// ObserveScrape counts one acquisition attempt.
func (m *Metrics) ObserveScrape(method string, err error) {
	if m == nil {
		return
	}
	m.scrapes.WithLabelValues(method, outcome(err)).Inc()
}

// ObserveRemote records the latency of one remote completion call.
func (m *Metrics) ObserveRemote(strategy string, d time.Duration) {
	if m == nil {
		return
	}
	m.remoteDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
