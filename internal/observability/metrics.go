package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ems-portal/ems-portal/internal/activity"
)

// Metrics owns the portal registry: HTTP traffic, logins, sidebar actions
// and activity recording, plus the Go and process collectors.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loginAttempts   *prometheus.CounterVec
	sidebarActions  *prometheus.CounterVec
	activityRecords *prometheus.CounterVec
}

// NewMetrics builds a private registry so tests can create as many as they
// like.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ems_http_requests_total",
		Help: "HTTP requests by route pattern and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ems_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ems_login_attempts_total",
		Help: "Login attempts partitioned by result.",
	}, []string{"result"})
	sidebar := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ems_sidebar_actions_total",
		Help: "Sidebar interactions partitioned by action.",
	}, []string{"action"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ems_activity_records_total",
		Help: "Activity log entries handed to the recorder, by action and result.",
	}, []string{"action", "result"})
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requests, duration, logins, sidebar, records,
	)
	// Pre-seed labels so dashboards see zero values before the first login.
	for _, result := range []string{"success", "failure", "invalid"} {
		logins.WithLabelValues(result)
	}
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		requestsTotal:   requests,
		requestDuration: duration,
		loginAttempts:   logins,
		sidebarActions:  sidebar,
		activityRecords: records,
	}
}

// ObserveLogin counts one login attempt with the given result.
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

// ObserveSidebar counts one sidebar interaction by action.
func (m *Metrics) ObserveSidebar(action string) {
	if m == nil {
		return
	}
	m.sidebarActions.WithLabelValues(action).Inc()
}

// InstrumentRecorder counts every entry passed to next.
func (m *Metrics) InstrumentRecorder(next activity.Recorder) activity.Recorder {
	if m == nil {
		return next
	}
	return instrumentedRecorder{next: next, records: m.activityRecords}
}

type instrumentedRecorder struct {
	next    activity.Recorder
	records *prometheus.CounterVec
}

func (r instrumentedRecorder) Record(ctx context.Context, entry activity.Entry) error {
	err := r.next.Record(ctx, entry)
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.records.WithLabelValues(entry.Action, result).Inc()
	return err
}

// Handler serves the registry. A nil Metrics answers 503.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware counts and times requests by chi route pattern, so path
// parameters never explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Registerer lets other packages add collectors, such as the job queue
// gauges.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
