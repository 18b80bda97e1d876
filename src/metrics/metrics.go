// Package metrics exposes claim-check outcomes to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stake-plus/veritas/src/factcheck"
)

const namespace = "veritas"

// Metrics implements factcheck.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	verdicts       *prometheus.CounterVec
	failures       *prometheus.CounterVec
	modelLatency   *prometheus.HistogramVec
	sourcesRemoved prometheus.Counter
	enforced       prometheus.Counter
	parseFailures  prometheus.Counter
	httpRequests   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Claim checks completed, by returned verdict.",
		}, []string{"verdict"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_failures_total",
			Help:      "Failed model calls, by classified error kind.",
		}, []string{"kind"}),
		modelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_call_seconds",
			Help:      "Latency of the outbound model call.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider", "outcome"}),
		sourcesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_removed_total",
			Help:      "Model-cited sources dropped by the trusted domain filter.",
		}),
		enforced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_enforced_total",
			Help:      "Results forced to UNVERIFIED because no trusted source survived.",
		}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Model responses that could not be parsed.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Fact-check HTTP requests, by status code.",
		}, []string{"code"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.verdicts, m.failures, m.modelLatency,
		m.sourcesRemoved, m.enforced, m.parseFailures, m.httpRequests,
	)
	return m
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveModelCall(provider string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.modelLatency.WithLabelValues(provider, outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveResult(res *factcheck.Result, removed int, enforced, parseFailed bool) {
	m.verdicts.WithLabelValues(string(res.Verdict)).Inc()
	if removed > 0 {
		m.sourcesRemoved.Add(float64(removed))
	}
	if enforced {
		m.enforced.Inc()
	}
	if parseFailed {
		m.parseFailures.Inc()
	}
}

func (m *Metrics) ObserveFailure(kind factcheck.ErrorKind) {
	m.failures.WithLabelValues(kind.String()).Inc()
}

// ObserveHTTP counts a finished fact-check request.
func (m *Metrics) ObserveHTTP(code string) {
	m.httpRequests.WithLabelValues(code).Inc()
}

var _ factcheck.Recorder = (*Metrics)(nil)
