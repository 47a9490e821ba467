package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/aostar/pkg/errors"
	"github.com/matzehuels/aostar/pkg/observability"
)

// Metrics holds the Prometheus collectors for the server. It implements
// observability.SearchHooks and observability.HTTPHooks so the pipeline and
// the middleware feed it without importing Prometheus themselves.
//
// Safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	searches        *prometheus.CounterVec
	searchDuration  prometheus.Histogram
	searchGraphSize prometheus.Histogram
	loads           *prometheus.CounterVec
	renders         *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

var (
	_ observability.SearchHooks = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aostar_searches_total",
			Help: "Total number of searches by result code",
		}, []string{"code"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aostar_search_duration_seconds",
			Help:    "Duration of cost propagation and solution extraction",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		searchGraphSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aostar_search_graph_nodes",
			Help:    "Number of nodes in searched graphs",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aostar_graph_loads_total",
			Help: "Total number of graph documents read by result code",
		}, []string{"code"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aostar_renders_total",
			Help: "Total number of render calls by output format",
		}, []string{"format"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aostar_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aostar_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aostar_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		}),
	}

	m.registry.MustRegister(
		m.searches, m.searchDuration, m.searchGraphSize, m.loads, m.renders,
		m.requests, m.requestDuration, m.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns the /metrics handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func resultCode(err error) string {
	if err == nil {
		return "OK"
	}
	return string(errors.FromSearch(err).Code)
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	m.loads.WithLabelValues(resultCode(err)).Inc()
}

func (m *Metrics) OnSearchStart(_ context.Context, _ string, nodeCount int) {
	m.searchGraphSize.Observe(float64(nodeCount))
}

func (m *Metrics) OnSearchComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	m.searches.WithLabelValues(resultCode(err)).Inc()
	m.searchDuration.Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(_ context.Context, formats []string) {
	for _, f := range formats {
		m.renders.WithLabelValues(f).Inc()
	}
}

func (m *Metrics) OnRenderComplete(context.Context, []string, time.Duration, error) {}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
