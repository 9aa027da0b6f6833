// internal/app/features/entities/view.go
package entities

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeView handles GET /{id}.
func (h *Handler[T]) ServeView(w http.ResponseWriter, r *http.Request) {
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
	names := make([]string, 0, len(k.Fields))
	for _, f := range k.Fields {
		names = append(names, f.Name)
	}
	labels, err := h.choiceLabels(ctx, names)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load "+k.Key+" labels failed", err, "A database error occurred.", k.Base)
		return
	}

	values := k.Encode(rec)
	data := viewData{
		BaseVM:    viewdata.NewBaseVM(r, k.Singular, k.Base),
		Kind:      k.vm(),
		ID:        id.Hex(),
		Label:     k.Label(rec),
		CanEdit:   h.canManage(r),
		CanDelete: h.canDelete(r),
	}
	for _, f := range k.Fields {
		data.Rows = append(data.Rows, detailRow{Label: f.Label, Value: display(f, values[f.Name], labels)})
	}

	templates.Render(w, r, "entity_view", data)
}
