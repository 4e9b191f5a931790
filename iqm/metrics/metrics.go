// Package metrics exposes Prometheus collectors for the job lifecycle
// of the IQM client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the client-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	jobsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iqm_client",
			Subsystem: "jobs",
			Name:      "submitted_total",
			Help:      "Total number of jobs submitted to the service.",
		},
		[]string{"device"},
	)

	jobsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iqm_client",
			Subsystem: "jobs",
			Name:      "finished_total",
			Help:      "Total number of jobs that reached a terminal state.",
		},
		[]string{"device", "status"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "iqm_client",
			Subsystem: "jobs",
			Name:      "duration_seconds",
			Help:      "Wall-clock time from submission to a terminal status.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
		},
		[]string{"device"},
	)

	statusPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iqm_client",
			Subsystem: "jobs",
			Name:      "status_polls_total",
			Help:      "Total number of job status requests.",
		},
		[]string{"device"},
	)
)

func init() {
	Registry.MustRegister(
		jobsSubmitted,
		jobsFinished,
		jobDuration,
		statusPolls,
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus
// metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordSubmission records one accepted job submission.
func RecordSubmission(device string) {
	jobsSubmitted.WithLabelValues(device).Inc()
}

// RecordStatusPoll records one job status request.
func RecordStatusPoll(device string) {
	statusPolls.WithLabelValues(device).Inc()
}

// RecordJobFinished records a job reaching a terminal status and its
// time from submission.
func RecordJobFinished(device, status string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	jobsFinished.WithLabelValues(device, status).Inc()
	jobDuration.WithLabelValues(device).Observe(duration.Seconds())
}
