// Package metrics defines the Prometheus metric collectors used across the
// retrieval pipeline and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the pipeline.
type Metrics struct {
	DocsIndexedTotal     prometheus.Counter
	TokensIndexedTotal   prometheus.Counter
	IndexBuildDuration   *prometheus.HistogramVec
	QueriesRankedTotal   *prometheus.CounterVec
	RankingLatency       prometheus.Histogram
	ResultsWrittenTotal  prometheus.Counter
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	AnalyticsEventsTotal *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_indexed_total",
				Help: "Total documents indexed.",
			},
		),
		TokensIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tokens_indexed_total",
				Help: "Total tokens retained after normalisation.",
			},
		),
		IndexBuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "index_build_duration_seconds",
				Help:    "Wall-clock time to build the inverted index.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"run_tag"},
		),
		QueriesRankedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queries_ranked_total",
				Help: "Total queries ranked by result type (hit, zero_result, cached).",
			},
			[]string{"result_type"},
		),
		RankingLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ranking_latency_seconds",
				Help:    "Per-query scoring and ranking latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		ResultsWrittenTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "results_written_total",
				Help: "Total (query, document) result lines written.",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of ranked-result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of ranked-result cache misses.",
			},
		),
		AnalyticsEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_events_total",
				Help: "Total analytics events by outcome (published, dropped, failed).",
			},
			[]string{"outcome"},
		),
	}

	prometheus.MustRegister(
		m.DocsIndexedTotal,
		m.TokensIndexedTotal,
		m.IndexBuildDuration,
		m.QueriesRankedTotal,
		m.RankingLatency,
		m.ResultsWrittenTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.AnalyticsEventsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
