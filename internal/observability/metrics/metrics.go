package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrautomator_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hrautomator_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	workflowDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hrautomator_workflow_duration_seconds",
		Help:    "Duration of dispatched workflows from backend call to settlement",
		Buckets: prometheus.DefBuckets,
	}, []string{"workflow", "outcome"})

	workflowsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hrautomator_workflows_in_flight",
		Help: "Number of workflows whose backend call has not settled",
	})

	directoryRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrautomator_directory_refreshes_total",
		Help: "Directory refreshes by result (fetched or fallback)",
	}, []string{"result"})

	directorySize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hrautomator_directory_records",
		Help: "Number of records in the cached directory",
	})

	logEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrautomator_log_entries_total",
		Help: "Workflow log entries appended, by severity",
	}, []string{"severity"})

	backendSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrautomator_backend_steps_total",
		Help: "Provisioning steps executed by the reference backend",
	}, []string{"workflow", "step"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveWorkflow records a settled workflow with its outcome label.
func ObserveWorkflow(workflow, outcome string, duration time.Duration) {
	workflowDuration.WithLabelValues(workflow, outcome).Observe(duration.Seconds())
}

func IncrementInFlight() {
	workflowsInFlight.Inc()
}

func DecrementInFlight() {
	workflowsInFlight.Dec()
}

// ObserveDirectoryRefresh counts a refresh and records the resulting size.
func ObserveDirectoryRefresh(result string, size int) {
	directoryRefreshes.WithLabelValues(result).Inc()
	directorySize.Set(float64(size))
}

// ObserveLogEntry counts an appended workflow log entry
func ObserveLogEntry(severity string) {
	logEntries.WithLabelValues(severity).Inc()
}

// ObserveBackendStep counts a backend provisioning step
func ObserveBackendStep(workflow, step string) {
	backendSteps.WithLabelValues(workflow, step).Inc()
}
