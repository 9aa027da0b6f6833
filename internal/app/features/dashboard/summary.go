// internal/app/features/dashboard/summary.go
package dashboard

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ServeSummaryJSON handles GET /dashboard/summary.json.
//
// On success: 200 and the Summary fields.
// On failure: 500 and {"error":"…"}.
func (h *Handler) ServeSummaryJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	s, err := h.summary(r.Context())
	if err != nil {
		h.Log.Error("dashboard summary failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unable to load dashboard counts."})
		return
	}

	_ = json.NewEncoder(w).Encode(s)
}
