// Package metrics defines the Prometheus collectors of the indexer and the
// query engine.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes used as the "result_type" label.
const (
	ResultHit        = "hit"
	ResultZeroResult = "zero_result"
	ResultError      = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	DocsIndexedTotal    prometheus.Counter
	ExtractionFailures  prometheus.Counter
	VocabularySize      prometheus.Gauge
	CollectionSize      prometheus.Gauge
	BuildDuration       prometheus.Histogram
	SearchQueriesTotal  *prometheus.CounterVec
	SearchLatency       prometheus.Histogram
	SearchResultsCount  prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on a dedicated registry, so
// several instances can coexist (one per test, for example).
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DocsIndexedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docs_indexed_total",
			Help: "Total documents indexed.",
		}),
		ExtractionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "extraction_failures_total",
			Help: "Total documents whose text could not be extracted.",
		}),
		VocabularySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "index_vocabulary_size",
			Help: "Number of distinct terms in the published index.",
		}),
		CollectionSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "index_collection_size",
			Help: "Number of documents in the published index.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "index_build_duration_seconds",
			Help:    "Time to build and finalize the index.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
		SearchQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total search queries by result type (hit, zero_result, error).",
		}, []string{"result_type"}),
		SearchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "search_latency_seconds",
			Help:    "Search query latency in seconds.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		SearchResultsCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "search_results_count",
			Help:    "Number of results returned per search query.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, path, and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		m.DocsIndexedTotal,
		m.ExtractionFailures,
		m.VocabularySize,
		m.CollectionSize,
		m.BuildDuration,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Handler returns the Prometheus scrape HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveDocumentIndexed counts one indexed document.
func (m *Metrics) ObserveDocumentIndexed() {
	if m == nil {
		return
	}
	m.DocsIndexedTotal.Inc()
}

// ObserveExtractionFailure counts one document that failed extraction.
func (m *Metrics) ObserveExtractionFailure() {
	if m == nil {
		return
	}
	m.ExtractionFailures.Inc()
}

// ObserveBuild records a completed build.
func (m *Metrics) ObserveBuild(seconds float64, documents, terms int) {
	if m == nil {
		return
	}
	m.BuildDuration.Observe(seconds)
	m.CollectionSize.Set(float64(documents))
	m.VocabularySize.Set(float64(terms))
}

// ObserveQuery records one evaluated query.
func (m *Metrics) ObserveQuery(seconds float64, results int, err error) {
	if m == nil {
		return
	}
	m.SearchLatency.Observe(seconds)
	switch {
	case err != nil:
		m.SearchQueriesTotal.WithLabelValues(ResultError).Inc()
		return
	case results == 0:
		m.SearchQueriesTotal.WithLabelValues(ResultZeroResult).Inc()
	default:
		m.SearchQueriesTotal.WithLabelValues(ResultHit).Inc()
	}
	m.SearchResultsCount.Observe(float64(results))
}

// ObserveHTTPRequest records one served HTTP request. path is the route
// template, not the raw URL, to keep the label cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}
