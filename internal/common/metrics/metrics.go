// internal/common/metrics/metrics.go
package metrics

import (
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

	CandidatesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_candidates_scored_total",
			Help: "Total number of animal candidates scored",
		},
		[]string{"strategy"},
	)

	TopScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matching_top_score",
			Help:    "Score of the best ranked candidate per request",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"strategy"},
	)

	ApplicationsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_eligibility_total",
			Help: "Adoption applications scored, by eligibility",
		},
		[]string{"eligible"},
	)

	ApplicationsValidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_validation_total",
			Help: "Adoption application forms checked, by validity",
		},
		[]string{"valid"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Catalog cache lookups, by result",
		},
		[]string{"entity", "result"},
	)
)
