// Package jobmetrics instruments background job runs.
package jobmetrics

import (
	"errors"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	// OutcomeDropped marks payloads rejected with asynq.SkipRetry.
	OutcomeDropped = "dropped"
)

// Metrics exposes Prometheus collectors for background jobs.
type Metrics struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	now         func() time.Time
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job collectors. A nil registerer means the
// process-wide default registry, registered once.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker times one job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track starts timing a run of job.
func (m *Metrics) Track(job string) *Tracker {
	if m == nil {
		return &Tracker{job: job, start: time.Now()}
	}
	return &Tracker{metrics: m, job: job, start: m.now()}
}

// End records duration and outcome, returning err untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	m := t.metrics
	outcome := Outcome(err)
	switch outcome {
	case OutcomeSuccess:
		m.lastSuccess.WithLabelValues(t.job).Set(float64(m.now().Unix()))
	case OutcomeFailure:
		m.failures.WithLabelValues(t.job).Inc()
	}
	m.runs.WithLabelValues(t.job, outcome).Inc()
	m.duration.WithLabelValues(t.job).Observe(m.now().Sub(t.start).Seconds())
	return err
}

// Outcome classifies a handler result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, asynq.SkipRetry):
		return OutcomeDropped
	default:
		return OutcomeFailure
	}
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "imobix_jobs_total",
		Help: "Job executions by job name and outcome.",
	}, []string{"job", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "imobix_jobs_failures_total",
		Help: "Job executions that will be retried.",
	}, []string{"job"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "imobix_job_duration_seconds",
		Help:    "Duration in seconds of background job executions.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"job"})
	lastSuccess := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "imobix_job_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run per job.",
	}, []string{"job"})
	registerer.MustRegister(runs, failures, duration, lastSuccess)
	return &Metrics{
		runs:        runs,
		failures:    failures,
		duration:    duration,
		lastSuccess: lastSuccess,
		now:         time.Now,
	}
}
