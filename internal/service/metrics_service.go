package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	sheetDuration   *prometheus.HistogramVec
	sheetCalls      *prometheus.CounterVec
	absences        *prometheus.CounterVec
	snapshotRows    *prometheus.GaugeVec
	snapshotLoads   *prometheus.CounterVec
	auditDuration   prometheus.Observer
}

// NewMetricsService registers core Prometheus collectors.
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	sheetDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheet_request_duration_seconds",
		Help:    "Duration of calls to the attendance sheet",
		Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20},
	}, []string{"operation"})

	sheetCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_requests_total",
		Help: "Calls to the attendance sheet by outcome",
	}, []string{"operation", "result"})

	absences := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "absences_total",
		Help: "Absence rows written or removed",
	}, []string{"operation", "section"})

	snapshotRows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "school_snapshot_rows",
		Help: "Rows held in the in-memory snapshot",
	}, []string{"table"})

	snapshotLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "school_snapshot_loads_total",
		Help: "Snapshot loads by resulting source",
	}, []string{"source"})

	auditDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "audit_write_seconds",
		Help:    "Latency for audit trail inserts",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		sheetDuration, sheetCalls, absences, snapshotRows, snapshotLoads, auditDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		sheetDuration:   sheetDuration,
		sheetCalls:      sheetCalls,
		absences:        absences,
		snapshotRows:    snapshotRows,
		snapshotLoads:   snapshotLoads,
		auditDuration:   auditDuration,
	}
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

// Registry exposes the collector registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveSheetCall records one round trip to the sheet.
func (m *MetricsService) ObserveSheetCall(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.sheetDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.sheetCalls.WithLabelValues(operation, result).Inc()
}

// RecordAbsences counts absence rows written ("record") or removed ("delete").
func (m *MetricsService) RecordAbsences(operation, section string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.absences.WithLabelValues(operation, section).Add(float64(n))
}

// ObserveSnapshot publishes the size and origin of a freshly loaded snapshot.
func (m *MetricsService) ObserveSnapshot(source string, students, attendance int) {
	if m == nil {
		return
	}
	m.snapshotLoads.WithLabelValues(source).Inc()
	m.snapshotRows.WithLabelValues("students").Set(float64(students))
	m.snapshotRows.WithLabelValues("attendance").Set(float64(attendance))
}

// SetSnapshotAttendance updates the attendance row gauge after a mutation.
func (m *MetricsService) SetSnapshotAttendance(rows int) {
	if m == nil {
		return
	}
	m.snapshotRows.WithLabelValues("attendance").Set(float64(rows))
}

// ObserveAuditWrite records audit insert latency.
func (m *MetricsService) ObserveAuditWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.auditDuration.Observe(duration.Seconds())
}
