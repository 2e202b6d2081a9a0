// Package jobmetrics instruments the activity queue on both sides: the web
// process that enqueues and the worker that appends.
package jobmetrics

import (
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	// StatusDropped marks a run whose task will never be retried.
	StatusDropped = "dropped"
)

// Metrics exposes Prometheus collectors for background jobs.
type Metrics struct {
	registerer prometheus.Registerer
	runs       *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	enqueued   *prometheus.CounterVec
	now        func() time.Time
}

// NewMetrics registers the job metrics against registerer. A nil
// registerer yields nil Metrics, which record nothing.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		return nil
	}
	m := &Metrics{
		registerer: registerer,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ems_jobs_total",
			Help: "Job executions partitioned by task type and status.",
		}, []string{"job", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ems_jobs_failures_total",
			Help: "Failed job executions, retried or dropped.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ems_job_duration_seconds",
			Help:    "Duration of job executions.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"job"}),
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ems_jobs_enqueued_total",
			Help: "Tasks handed to the queue by the web process.",
		}, []string{"job"}),
		now: time.Now,
	}
	registerer.MustRegister(m.runs, m.failures, m.duration, m.enqueued)
	return m
}

// Tracker times a single job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track starts timing a run of job.
func (m *Metrics) Track(job string) *Tracker {
	if m == nil {
		return &Tracker{job: job}
	}
	return &Tracker{metrics: m, job: job, start: m.now()}
}

// End records the outcome of the run and returns err untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	status := Outcome(err)
	if status != StatusSuccess {
		t.metrics.failures.WithLabelValues(t.job).Inc()
	}
	t.metrics.runs.WithLabelValues(t.job, status).Inc()
	t.metrics.duration.WithLabelValues(t.job).Observe(t.metrics.now().Sub(t.start).Seconds())
	return err
}

// Outcome classifies a handler result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, asynq.SkipRetry):
		return StatusDropped
	default:
		return StatusFailure
	}
}

// Enqueued counts a task handed to the queue.
func (m *Metrics) Enqueued(job string) {
	if m == nil {
		return
	}
	m.enqueued.WithLabelValues(job).Inc()
}

// QueueProbe reports the current size of a queue.
type QueueProbe func() (pending, failed int, err error)

// WatchQueue exports pending and failed gauges for queue, read through
// probe on every scrape. Probe errors leave the gauges out of that scrape.
func (m *Metrics) WatchQueue(queue string, probe QueueProbe) error {
	if m == nil || probe == nil {
		return nil
	}
	return m.registerer.Register(&queueCollector{
		probe: probe,
		pending: prometheus.NewDesc("ems_queue_pending_tasks",
			"Tasks waiting in the queue.", nil, prometheus.Labels{"queue": queue}),
		failed: prometheus.NewDesc("ems_queue_failed_tasks",
			"Task failures recorded by the queue today.", nil, prometheus.Labels{"queue": queue}),
	})
}

type queueCollector struct {
	probe   QueueProbe
	pending *prometheus.Desc
	failed  *prometheus.Desc
}

func (c *queueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pending
	ch <- c.failed
}

func (c *queueCollector) Collect(ch chan<- prometheus.Metric) {
	pending, failed, err := c.probe()
	if err != nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(pending))
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.GaugeValue, float64(failed))
}
