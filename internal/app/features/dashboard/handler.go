// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/reliefhub/internal/app/features/errors"
	metricsstore "github.com/dalemusser/reliefhub/internal/app/store/metrics"
	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/metrics"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	Records records.Store
	Metrics *metrics.Metrics
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(recs records.Store, m *metrics.Metrics, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Records: recs,
		Metrics: m,
		ErrLog:  errLog,
		Log:     logger,
	}
}

type dashboardData struct {
	viewdata.BaseVM
	metricsstore.Summary
	GeneratedAt time.Time
}

// summary runs the eight counts under the medium timeout and records how
// long they took.
func (h *Handler) summary(ctx context.Context) (metricsstore.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	start := time.Now()
	s, err := metricsstore.ComputeSummary(ctx, h.Records)
	h.Metrics.ObserveDashboard(time.Since(start), err)
	return s, err
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	s, err := h.summary(r.Context())
	if err != nil {
		// Never fall through to a page of zeros.
		h.ErrLog.LogServerError(w, r, "dashboard summary failed", err, "Unable to load dashboard counts.", "/")
		return
	}

	data := dashboardData{
		BaseVM:      viewdata.NewBaseVM(r, "Dashboard", "/"),
		Summary:     s,
		GeneratedAt: time.Now().UTC(),
	}
	templates.Render(w, r, "dashboard", data)
}
