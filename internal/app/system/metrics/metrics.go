// internal/app/system/metrics/metrics.go
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reliefhub"

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing, so handlers never need to check.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	authAttempts *prometheus.CounterVec
	registers    *prometheus.CounterVec
	mutations    *prometheus.CounterVec
	dashboard    *prometheus.HistogramVec
}

// New registers the collectors with reg. Collectors already registered
// (a second New against the default registry) are reused.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: gatherer,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "Latency distribution of HTTP handlers", Buckets: histogramBuckets,
		}, []string{"method", "route"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "login_attempts_total",
			Help: "Sign-in attempts by outcome",
		}, []string{"outcome"}),
		registers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "registrations_total",
			Help: "Registration attempts by outcome",
		}, []string{"outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "records", Name: "mutations_total",
			Help: "Record creates, updates and deletes",
		}, []string{"kind", "op"}),
		dashboard: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "dashboard", Name: "summary_duration_seconds",
			Help: "Time to compute the dashboard summary", Buckets: histogramBuckets,
		}, []string{"result"}),
	}

	m.requests = register(reg, m.requests)
	m.latency = register(reg, m.latency)
	m.authAttempts = register(reg, m.authAttempts)
	m.registers = register(reg, m.registers)
	m.mutations = register(reg, m.mutations)
	m.dashboard = register(reg, m.dashboard)
	return m
}

// NewDefault uses the process-wide prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by the chi route
// pattern, which keeps label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Login outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeRateLimited = "rate_limited"
	OutcomeDuplicate   = "duplicate"
	OutcomeError       = "error"
)

func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.registers.WithLabelValues(outcome).Inc()
}

// RecordMutation counts a create, update or delete on a record kind.
func (m *Metrics) RecordMutation(kind, op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(kind, op).Inc()
}

// ObserveDashboard records how long one summary took and whether it failed.
func (m *Metrics) ObserveDashboard(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dashboard.WithLabelValues(result).Observe(d.Seconds())
}
