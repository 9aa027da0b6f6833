// internal/app/features/entities/edit.go
package entities

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (h *Handler[T]) editPage(id primitive.ObjectID) formPage {
	return formPage{
		Title:  "Edit " + h.Kind.Singular,
		Action: h.Kind.Base + "/" + id.Hex() + "/edit",
		ID:     id.Hex(),
		Submit: "Save",
	}
}

// ServeEdit handles GET /{id}/edit.
func (h *Handler[T]) ServeEdit(w http.ResponseWriter, r *http.Request) {
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
	h.renderForm(ctx, w, r, http.StatusOK, h.editPage(id), h.Kind.Encode(rec), "")
}

// HandleEdit handles POST /{id}/edit. The hidden id must match the URL.
func (h *Handler[T]) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", h.Kind.Base)
		return
	}

	id, ok := h.urlID(w, r)
	if !ok {
		return
	}
	if r.PostForm.Get("id") != id.Hex() {
		h.notFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.load(ctx, w, r, id); !ok {
		return
	}

	k := h.Kind
	reRender := func(msg string) {
		h.renderForm(ctx, w, r, http.StatusUnprocessableEntity, h.editPage(id), postedValues(r.PostForm, k.Fields), msg)
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

	err := h.Repo.Update(ctx, id, rec)
	if errors.Is(err, records.ErrNotFound) {
		// Deleted between the load and the write.
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update "+k.Key+" failed", err, "A database error occurred.", k.Base)
		return
	}

	h.Audit.RecordUpdated(ctx, r, actorID(r), k.Key, id, k.Label(rec))
	h.Metrics.RecordMutation(k.Key, "update")
	h.Log.Info("record updated", zap.String("id", id.Hex()))

	http.Redirect(w, r, k.Base+"/"+id.Hex(), http.StatusSeeOther)
}
