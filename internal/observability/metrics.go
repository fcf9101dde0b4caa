// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for query execution and storage access.
package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QueryMetrics holds metrics for GraphQL query execution.
type QueryMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestCounter  *prometheus.CounterVec
	activeRequests  prometheus.Gauge

	selectDuration *prometheus.HistogramVec
	selectCounter  *prometheus.CounterVec
	selectRows     *prometheus.HistogramVec
}

// NewQueryMetrics registers query metrics with the given registerer.
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	factory := promauto.With(reg)
	return &QueryMetrics{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphql_request_duration_seconds",
			Help:    "Duration of GraphQL query executions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		requestCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "graphql_requests_total",
			Help: "Total number of GraphQL query executions.",
		}, []string{"operation", "status"}),
		activeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "graphql_requests_active",
			Help: "Number of GraphQL query executions in flight.",
		}),
		selectDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accessor_select_duration_seconds",
			Help:    "Duration of storage accessor selects.",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection", "via"}),
		selectCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accessor_selects_total",
			Help: "Total number of storage accessor selects.",
		}, []string{"collection", "via", "status"}),
		selectRows: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accessor_select_rows",
			Help:    "Rows returned per storage accessor select.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
		}, []string{"collection", "via"}),
	}
}

// RecordRequest records one query execution with its duration and outcome.
func (m *QueryMetrics) RecordRequest(operation string, duration time.Duration, hasErrors bool) {
	status := "ok"
	if hasErrors {
		status = "error"
	}
	m.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.requestCounter.WithLabelValues(operation, status).Inc()
}

// RecordSelect records one accessor select. via is "root" for root fields
// and the connection name for connection fetches.
func (m *QueryMetrics) RecordSelect(collection, via string, duration time.Duration, rows int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.selectDuration.WithLabelValues(collection, via).Observe(duration.Seconds())
	m.selectCounter.WithLabelValues(collection, via, status).Inc()
	if err == nil {
		m.selectRows.WithLabelValues(collection, via).Observe(float64(rows))
	}
}

// IncrementActiveRequests increments the in-flight gauge.
func (m *QueryMetrics) IncrementActiveRequests() {
	m.activeRequests.Inc()
}

// DecrementActiveRequests decrements the in-flight gauge.
func (m *QueryMetrics) DecrementActiveRequests() {
	m.activeRequests.Dec()
}

type queryMetricsContextKey struct{}

// ContextWithQueryMetrics stores query metrics in the provided context.
func ContextWithQueryMetrics(ctx context.Context, metrics *QueryMetrics) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, queryMetricsContextKey{}, metrics)
}

// QueryMetricsFromContext retrieves query metrics from the context.
func QueryMetricsFromContext(ctx context.Context) *QueryMetrics {
	if ctx == nil {
		return nil
	}
	metrics, _ := ctx.Value(queryMetricsContextKey{}).(*QueryMetrics)
	return metrics
}
