// internal/app/features/entities/new.go
package entities

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeNew handles GET /new.
func (h *Handler[T]) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	h.renderForm(ctx, w, r, http.StatusOK, h.newPage(), h.Kind.Encode(h.Kind.Blank(h.now())), "")
}

func (h *Handler[T]) newPage() formPage {
	return formPage{
		Title:  "New " + h.Kind.Singular,
		Action: h.Kind.Base,
		Submit: "Create",
	}
}

// HandleCreate handles POST /.
func (h *Handler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", h.Kind.Base)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	k := h.Kind
	reRender := func(msg string) {
		h.renderForm(ctx, w, r, http.StatusUnprocessableEntity, h.newPage(), postedValues(r.PostForm, k.Fields), msg)
	}

	rec, msg := k.Decode(r.PostForm, h.now())
	if msg != "" {
		reRender(msg)
		return
	}
	if k.Check != nil {
		msg, err := k.Check(ctx, h.Records, &rec)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "check "+k.Key+" failed", err, "A database error occurred.", k.Base)
			return
		}
		if msg != "" {
			reRender(msg)
			return
		}
	}

	id, err := h.Repo.Create(ctx, rec)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create "+k.Key+" failed", err, "A database error occurred.", k.Base)
		return
	}

	h.Audit.RecordCreated(ctx, r, actorID(r), k.Key, id, k.Label(rec))
	h.Metrics.RecordMutation(k.Key, "create")
	h.Log.Info("record created", zap.String("id", id.Hex()))

	http.Redirect(w, r, k.Base+"/"+id.Hex(), http.StatusSeeOther)
}
