// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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

var (
	LeadExtractionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_extraction_attempts_total",
			Help: "Lead signal generation attempts by outcome",
		},
		[]string{"outcome"},
	)

	LeadExtractionRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_extraction_retries_total",
			Help: "Extractions that needed the zero-temperature retry",
		},
	)

	LeadScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lead_score",
			Help:    "Distribution of computed lead scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ModelRouteDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_route_decisions_total",
			Help: "Model routing decisions by phase and chosen model",
		},
		[]string{"phase", "model"},
	)

	HotLeadNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hot_lead_notifications_total",
			Help: "Hot lead alerts by delivery status",
		},
		[]string{"status"},
	)
)

// Extraction outcomes for LeadExtractionAttempts.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// JobTimer tracks one job from activation to completion or failure.
type JobTimer struct {
	taskType string
	start    time.Time
}

func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

func (t *JobTimer) Completed() {
	t.finish()
	WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
}

func (t *JobTimer) Failed(errorCode string) {
	t.finish()
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
}

func (t *JobTimer) finish() {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
}
