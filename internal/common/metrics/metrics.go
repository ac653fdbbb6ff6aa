// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels.
const (
	OperationSearch  = "search"
	OperationSuggest = "suggest"
	OperationFacets  = "facets"
)

// Outcome labels.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidRequest  = "invalid_request"
	OutcomeDependencyError = "dependency_error"
	OutcomeTooBroad        = "too_broad"
)

var (
	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_requests_total",
			Help: "Total number of discovery operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	DiscoveryCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_candidates",
			Help:    "Number of profiles returned by the coarse repository fetch",
			Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 2500},
		},
	)

	DiscoveryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_results_total",
			Help:    "Number of profiles matching all filters, before pagination",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 500},
		},
	)

	DiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_operation_duration_seconds",
			Help:    "Duration of discovery operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// ObserveOperation records one discovery operation.
func ObserveOperation(operation, outcome string, elapsed time.Duration) {
	DiscoveryRequests.WithLabelValues(operation, outcome).Inc()
	DiscoveryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// TrackJob marks a job active and returns a func that records its completion.
// Pass an empty errorCode for success.
func TrackJob(taskType string) func(errorCode string) {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return func(errorCode string) {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if errorCode == "" {
			WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			return
		}
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	}
}
