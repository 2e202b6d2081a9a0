package jobmetrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, registry *prometheus.Registry) string {
	t.Helper()
	rr := httptest.NewRecorder()
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestTrackerRecordsOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	tick := time.Unix(0, 0)
	m.now = func() time.Time {
		tick = tick.Add(20 * time.Millisecond)
		return tick
	}

	assert.NoError(t, m.Track("activity:record").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("activity:record").End(boom), boom)
	bad := fmt.Errorf("decode payload: %w", asynq.SkipRetry)
	assert.ErrorIs(t, m.Track("activity:record").End(bad), asynq.SkipRetry)
	m.Enqueued("activity:record")

	body := scrape(t, registry)
	assert.Contains(t, body, `ems_jobs_total{job="activity:record",status="success"} 1`)
	assert.Contains(t, body, `ems_jobs_total{job="activity:record",status="failure"} 1`)
	assert.Contains(t, body, `ems_jobs_total{job="activity:record",status="dropped"} 1`)
	assert.Contains(t, body, `ems_jobs_failures_total{job="activity:record"} 2`)
	assert.Contains(t, body, `ems_jobs_enqueued_total{job="activity:record"} 1`)
	assert.Contains(t, body, `ems_job_duration_seconds_bucket{job="activity:record",le="0.025"} 3`)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, StatusSuccess, Outcome(nil))
	assert.Equal(t, StatusFailure, Outcome(errors.New("x")))
	assert.Equal(t, StatusDropped, Outcome(fmt.Errorf("wrap: %w", asynq.SkipRetry)))
}

func TestWatchQueue(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	var probeErr error
	require.NoError(t, m.WatchQueue("default", func() (int, int, error) { return 4, 1, probeErr }))

	body := scrape(t, registry)
	assert.Contains(t, body, `ems_queue_pending_tasks{queue="default"} 4`)
	assert.Contains(t, body, `ems_queue_failed_tasks{queue="default"} 1`)

	probeErr = errors.New("redis down")
	assert.NotContains(t, scrape(t, registry), "ems_queue_pending_tasks")
}

func TestNilMetrics(t *testing.T) {
	m := NewMetrics(nil)
	assert.Nil(t, m)
	m.Enqueued("x")
	assert.NoError(t, m.Track("x").End(nil))
	assert.NoError(t, m.WatchQueue("default", func() (int, int, error) { return 0, 0, nil }))
}
