package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/helpdesk-presence-api/internal/models"
)

// Plan outcomes used as the result label of presence_plan_requests_total.
const (
	PlanResultAccepted = "accepted"
	PlanResultRejected = "rejected"
	PlanResultFailed   = "failed"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	registryLookups *prometheus.CounterVec
	registryRefresh *prometheus.HistogramVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	planRequests    *prometheus.CounterVec
	segmentsWritten prometheus.Counter
	currentUsers    *prometheus.GaugeVec
	dbQueryDuration *prometheus.HistogramVec

	registryHitCount     uint64
	registryMissCount    uint64
	registryRefreshCount uint64
	cacheHitCount        uint64
	cacheMissCount       uint64
	plansAccepted        uint64
	plansRejected        uint64
	plansFailed          uint64
	segmentsWrittenCount uint64
	currentlyPresent     int64
	requestCount         uint64
	requestDurationTotal uint64
	dbQueryCount         uint64
	dbQueryDurationTotal uint64
}

// NewMetricsService registers the collectors on a private registry.
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

	registryLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "presence_registry_lookups_total",
		Help: "Status/office registry reads by whether the in-process snapshot was fresh",
	}, []string{"result"})

	registryRefresh := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "presence_registry_refresh_seconds",
		Help:    "Duration of registry catalog refreshes",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for shared cache reads",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for shared cache writes",
		Buckets: prometheus.DefBuckets,
	})

	planRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "presence_plan_requests_total",
		Help: "Day plan requests by outcome",
	}, []string{"result"})

	segmentsWritten := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "presence_segments_written_total",
		Help: "Presence segments inserted by committed day plans",
	})

	currentUsers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "presence_current_users",
		Help: "Users with an active presence segment, by status code",
	}, []string{"status"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, registryLookups, registryRefresh, cacheLatency, cacheWrite,
		planRequests, segmentsWritten, currentUsers, dbQueryDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		registryLookups: registryLookups,
		registryRefresh: registryRefresh,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		planRequests:    planRequests,
		segmentsWritten: segmentsWritten,
		currentUsers:    currentUsers,
		dbQueryDuration: dbQueryDuration,
	}
}

// Registry exposes the private registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordRegistryLookup counts reads served from a fresh snapshot (hit) or
// requiring a refresh (miss).
func (m *MetricsService) RecordRegistryLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.registryLookups.WithLabelValues("hit").Inc()
		atomic.AddUint64(&m.registryHitCount, 1)
		return
	}
	m.registryLookups.WithLabelValues("miss").Inc()
	atomic.AddUint64(&m.registryMissCount, 1)
}

// ObserveRegistryRefresh times a catalog reload.
func (m *MetricsService) ObserveRegistryRefresh(duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.registryRefresh.WithLabelValues(outcome).Observe(duration.Seconds())
	atomic.AddUint64(&m.registryRefreshCount, 1)
}

// RecordCacheOperation records shared cache hit/miss latency.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordPlan counts a day plan outcome and the segments it committed.
func (m *MetricsService) RecordPlan(result string, segments int) {
	if m == nil {
		return
	}
	m.planRequests.WithLabelValues(result).Inc()
	switch result {
	case PlanResultAccepted:
		atomic.AddUint64(&m.plansAccepted, 1)
	case PlanResultRejected:
		atomic.AddUint64(&m.plansRejected, 1)
	default:
		atomic.AddUint64(&m.plansFailed, 1)
	}
	if segments > 0 {
		m.segmentsWritten.Add(float64(segments))
		atomic.AddUint64(&m.segmentsWrittenCount, uint64(segments))
	}
}

// SetCurrentPresence replaces the per-status gauge with counts.
func (m *MetricsService) SetCurrentPresence(counts map[string]int) {
	if m == nil {
		return
	}
	m.currentUsers.Reset()
	total := 0
	for status, n := range counts {
		m.currentUsers.WithLabelValues(status).Set(float64(n))
		total += n
	}
	atomic.StoreInt64(&m.currentlyPresent, int64(total))
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.dbQueryCount, 1)
	atomic.AddUint64(&m.dbQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated metrics for the summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{GeneratedAt: time.Now().UTC()}
	}
	hits := atomic.LoadUint64(&m.registryHitCount)
	misses := atomic.LoadUint64(&m.registryMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dbCount := atomic.LoadUint64(&m.dbQueryCount)
	dbDuration := atomic.LoadUint64(&m.dbQueryDurationTotal)

	var hitRatio float64
	if lookups := hits + misses; lookups > 0 {
		hitRatio = float64(hits) / float64(lookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgDBMs float64
	if dbCount > 0 {
		avgDBMs = float64(dbDuration) / float64(dbCount) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RegistryHitRatio:         hitRatio,
		RegistryHits:             hits,
		RegistryMisses:           misses,
		RegistryRefreshes:        atomic.LoadUint64(&m.registryRefreshCount),
		SharedCacheHits:          atomic.LoadUint64(&m.cacheHitCount),
		SharedCacheMisses:        atomic.LoadUint64(&m.cacheMissCount),
		PlansAccepted:            atomic.LoadUint64(&m.plansAccepted),
		PlansRejected:            atomic.LoadUint64(&m.plansRejected),
		PlansFailed:              atomic.LoadUint64(&m.plansFailed),
		SegmentsWritten:          atomic.LoadUint64(&m.segmentsWrittenCount),
		CurrentlyPresent:         int(atomic.LoadInt64(&m.currentlyPresent)),
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
