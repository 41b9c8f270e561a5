package prometheus

import (
	"strconv"
	"time"
)

// Verdict label values of EvaluationsTotal.
const (
	VerdictPass    = "pass"
	VerdictFail    = "fail"
	VerdictInvalid = "invalid"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Screening
	EvaluationsTotal       CounterVec
	EvaluationDuration     HistogramVec
	CriterionFailuresTotal CounterVec
	BatchSize              HistogramVec
	DepictionsTotal        CounterVec

	// Cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	CacheErrorsTotal CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets       = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultEvaluationDurationBuckets = []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .5}
	DefaultBatchSizeBuckets          = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests")

	m.EvaluationsTotal = collector.RegisterCounter("evaluations_total", "Rule of Five evaluations by verdict", "verdict")
	m.EvaluationDuration = collector.RegisterHistogram("evaluation_duration_seconds", "Time to parse and evaluate one structure", DefaultEvaluationDurationBuckets)
	m.CriterionFailuresTotal = collector.RegisterCounter("criterion_failures_total", "Failed criteria by label", "criterion")
	m.BatchSize = collector.RegisterHistogram("batch_size", "Structures per batch", DefaultBatchSizeBuckets)
	m.DepictionsTotal = collector.RegisterCounter("depictions_total", "Rendered depiction grids", "status")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.CacheErrorsTotal = collector.RegisterCounter("cache_errors_total", "Cache backend errors", "cache", "operation")

	return m
}

// Helpers. Each accepts a nil *AppMetrics so callers built without metrics
// need no guards.

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordEvaluation counts one evaluated structure. verdict is one of the
// Verdict constants; failed lists the criteria that did not pass.
func RecordEvaluation(metrics *AppMetrics, verdict string, failed []string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.EvaluationsTotal.WithLabelValues(verdict).Inc()
	metrics.EvaluationDuration.WithLabelValues().Observe(duration.Seconds())
	for _, c := range failed {
		metrics.CriterionFailuresTotal.WithLabelValues(c).Inc()
	}
}

func RecordBatch(metrics *AppMetrics, size int) {
	if metrics == nil {
		return
	}
	metrics.BatchSize.WithLabelValues().Observe(float64(size))
}

func RecordDepiction(metrics *AppMetrics, err error) {
	if metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.DepictionsTotal.WithLabelValues(status).Inc()
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordCacheError(metrics *AppMetrics, cache, operation string) {
	if metrics == nil {
		return
	}
	metrics.CacheErrorsTotal.WithLabelValues(cache, operation).Inc()
}
