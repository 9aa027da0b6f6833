package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	metricsfeature "github.com/dalemusser/reliefhub/internal/app/features/metrics"
	"github.com/dalemusser/reliefhub/internal/app/system/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func TestRoutes_ExposesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, reg)
	m.RecordMutation("report", "create")

	rec := httptest.NewRecorder()
	metricsfeature.Routes(m).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "reliefhub_records_mutations_total") {
		t.Errorf("scrape lacks mutation counter:\n%s", rec.Body.String())
	}
}
