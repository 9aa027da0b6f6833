// internal/app/features/metrics/routes.go
//
// Package metrics exposes the prometheus scrape endpoint.
package metrics

import (
	"github.com/dalemusser/reliefhub/internal/app/system/metrics"
	"github.com/go-chi/chi/v5"
)

// Routes serves the collectors registered with m. Mounted under /metrics.
func Routes(m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Method("GET", "/", m.Handler())
	return r
}
