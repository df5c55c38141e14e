package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the lookup
// service: HTTP traffic, search cache behaviour and ingest progress.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	cacheLatency prometheus.Observer
	cacheWrite   prometheus.Observer

	ingestPages    prometheus.Counter
	ingestDuration prometheus.Observer
	snapshotAssets prometheus.Gauge

	searchDuration prometheus.Observer
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_cache_hits_total",
		Help: "Total search page cache hits",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_cache_misses_total",
		Help: "Total search page cache misses",
	})
	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_cache_read_seconds",
		Help:    "Latency of search cache reads",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_cache_write_seconds",
		Help:    "Latency of search cache writes",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	ingestPages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ingest_pages_fetched_total",
		Help: "Upstream listing pages fetched during ingest runs",
	})
	ingestDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ingest_run_duration_seconds",
		Help:    "Duration of full ingest runs",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
	})
	snapshotAssets := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_assets",
		Help: "Number of asset views in the installed snapshot",
	})

	searchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Duration of snapshot filter and paginate passes",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheHits, cacheMisses, cacheLatency, cacheWrite,
		ingestPages, ingestDuration, snapshotAssets,
		searchDuration,
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		ingestPages:     ingestPages,
		ingestDuration:  ingestDuration,
		snapshotAssets:  snapshotAssets,
		searchDuration:  searchDuration,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.handler
}

// ObserveHTTPRequest records a completed HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordCacheOperation records a cache read and whether it hit.
func (s *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if s == nil {
		return
	}
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
	s.cacheLatency.Observe(duration.Seconds())
}

// ObserveCacheWrite records the latency of a cache write.
func (s *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if s == nil {
		return
	}
	s.cacheWrite.Observe(duration.Seconds())
}

// RecordIngestPage counts one fetched upstream page.
func (s *MetricsService) RecordIngestPage() {
	if s == nil {
		return
	}
	s.ingestPages.Inc()
}

// RecordIngestRun records a finished ingest run and the installed size.
func (s *MetricsService) RecordIngestRun(assets int, duration time.Duration) {
	if s == nil {
		return
	}
	s.ingestDuration.Observe(duration.Seconds())
	s.snapshotAssets.Set(float64(assets))
}

// ObserveSearch records one filter-and-paginate pass over the snapshot.
func (s *MetricsService) ObserveSearch(duration time.Duration) {
	if s == nil {
		return
	}
	s.searchDuration.Observe(duration.Seconds())
}
