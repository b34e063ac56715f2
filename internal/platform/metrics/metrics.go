package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SearchRequests *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	SearchResults  prometheus.Histogram
	CacheLookups   *prometheus.CounterVec
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "advocates_search_requests_total",
			Help: "Advocate searches by outcome (ok, error) and whether a term was given.",
		}, []string{"outcome", "filtered"}),
		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "advocates_search_duration_seconds",
			Help:    "Time spent serving advocate searches, including the store.",
			Buckets: prometheus.DefBuckets,
		}),
		SearchResults: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "advocates_search_results",
			Help:    "Number of advocates returned per successful search.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "advocates_search_cache_lookups_total",
			Help: "Search cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
	}
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(filtered bool, d time.Duration, results int, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	f := "false"
	if filtered {
		f = "true"
	}
	m.SearchRequests.WithLabelValues(outcome, f).Inc()
	m.SearchDuration.Observe(d.Seconds())
	if err == nil {
		m.SearchResults.Observe(float64(results))
	}
}

// ObserveCache records a cache lookup result: "hit", "miss" or "error".
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
