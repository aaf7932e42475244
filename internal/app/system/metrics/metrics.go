// Package metrics exposes Prometheus collectors for HTTP traffic and the
// domain events operators care about (casas registered, reports filed).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors and the registry they are registered on.
type Metrics struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	CasasRegistered  prometheus.Counter
	ReportsSubmitted prometheus.Counter
	AttendanceSaved  prometheus.Counter
	LoginFailures    prometheus.Counter
	ExportsGenerated *prometheus.CounterVec
}

// New registers every collector on a fresh registry, plus the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casadefe",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "casadefe",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		CasasRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casadefe",
			Name:      "casas_registered_total",
			Help:      "Casas created through the registration wizard.",
		}),
		ReportsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casadefe",
			Name:      "reports_submitted_total",
			Help:      "Meeting reports created or updated.",
		}),
		AttendanceSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casadefe",
			Name:      "attendance_saves_total",
			Help:      "Attendance lists saved.",
		}),
		LoginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casadefe",
			Name:      "login_failures_total",
			Help:      "Rejected sign-in attempts.",
		}),
		ExportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casadefe",
			Name:      "exports_generated_total",
			Help:      "Admin exports by format.",
		}, []string{"format"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration,
		m.CasasRegistered, m.ReportsSubmitted, m.AttendanceSaved,
		m.LoginFailures, m.ExportsGenerated,
	)
	return m
}

// Registry returns the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Middleware records one observation per request, labelled by the chi
// route pattern so ids in paths do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
