package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tdaniel1925/easemail-saas-sub000/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Provider gateway metrics
	ProviderCallDuration prometheus.HistogramVec
	ProviderErrorsTotal  prometheus.CounterVec

	// Sync engine metrics
	SyncOperationsCounter prometheus.CounterVec
	ReconciledItemsTotal  prometheus.CounterVec

	// Mutation path metrics
	MutationOperationsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	ProviderCallDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_provider_call_duration_seconds",
			Help:    "Duration of provider gateway calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ProviderErrorsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_provider_errors_total",
			Help: "Total number of failed provider gateway calls",
		},
		[]string{"operation"},
	)

	SyncOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sync_operations_total",
			Help: "Total number of sync operations",
		},
		[]string{"scope", "outcome"},
	)

	ReconciledItemsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_reconciled_items_total",
			Help: "Total number of cache rows reconciled, by resource and action",
		},
		[]string{"resource", "action"},
	)

	MutationOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_mutation_operations_total",
			Help: "Total number of dual-write mutations",
		},
		[]string{"resource", "operation", "outcome"},
	)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// TrackProviderCall returns a function that records the duration of a provider call
func TrackProviderCall(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		ProviderCallDuration.WithLabelValues(operation).Observe(duration)
	}
}

// RecordProviderError increments the provider error counter
func RecordProviderError(operation string) {
	ProviderErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordSyncOperation increments the sync operation counter
func RecordSyncOperation(scope, outcome string) {
	SyncOperationsCounter.WithLabelValues(scope, outcome).Inc()
}

// RecordReconciledItems adds reconciled row counts for one resource collection
func RecordReconciledItems(resource string, added, updated, removed int) {
	ReconciledItemsTotal.WithLabelValues(resource, "added").Add(float64(added))
	ReconciledItemsTotal.WithLabelValues(resource, "updated").Add(float64(updated))
	ReconciledItemsTotal.WithLabelValues(resource, "removed").Add(float64(removed))
}

// RecordMutation increments the mutation counter
func RecordMutation(resource, operation, outcome string) {
	MutationOperationsCounter.WithLabelValues(resource, operation, outcome).Inc()
}
