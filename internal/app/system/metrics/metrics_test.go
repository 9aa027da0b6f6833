package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return New(reg, reg)
}

func TestCounters(t *testing.T) {
	m := newTestMetrics()

	m.LoginAttempt(OutcomeSuccess)
	m.LoginAttempt(OutcomeFailure)
	m.LoginAttempt(OutcomeFailure)
	m.Registration(OutcomeDuplicate)
	m.RecordMutation("reports", "create")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.authAttempts.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authAttempts.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registers.WithLabelValues(OutcomeDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("reports", "create")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.LoginAttempt(OutcomeSuccess)
	m.Registration(OutcomeSuccess)
	m.RecordMutation("donations", "delete")
	m.ObserveDashboard(time.Millisecond, errors.New("x"))

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, reg)
	b := New(reg, reg)
	a.LoginAttempt(OutcomeSuccess)
	assert.Equal(t, 1.0, testutil.ToFloat64(b.authAttempts.WithLabelValues(OutcomeSuccess)))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := newTestMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/reports/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/reports/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/reports/{id}", "404")))

	m.ObserveDashboard(10*time.Millisecond, nil)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "reliefhub_http_requests_total"))
	assert.True(t, strings.Contains(body, `reliefhub_dashboard_summary_duration_seconds_count{result="ok"} 1`))
}
