// internal/app/features/entities/delete.go
package entities

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeDelete handles GET /{id}/delete (confirmation page).
func (h *Handler[T]) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, ok := h.load(ctx, w, r, id)
	if !ok {
		return
	}

	k := h.Kind
	templates.Render(w, r, "entity_delete", deleteData{
		BaseVM: viewdata.NewBaseVM(r, "Delete "+k.Singular, k.Base+"/"+id.Hex()),
		Kind:   k.vm(),
		ID:     id.Hex(),
		Label:  k.Label(rec),
	})
}

// HandleDelete handles POST /{id}/delete.
func (h *Handler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, ok := h.load(ctx, w, r, id)
	if !ok {
		return
	}

	k := h.Kind
	err := h.Repo.Delete(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete "+k.Key+" failed", err, "A database error occurred.", k.Base)
		return
	}

	h.Audit.RecordDeleted(ctx, r, actorID(r), k.Key, id, k.Label(rec))
	h.Metrics.RecordMutation(k.Key, "delete")
	h.Log.Info("record deleted", zap.String("id", id.Hex()))

	http.Redirect(w, r, k.Base, http.StatusSeeOther)
}
