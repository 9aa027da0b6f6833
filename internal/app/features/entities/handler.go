// internal/app/features/entities/handler.go
package entities

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/reliefhub/internal/app/features/errors"
	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/authz"
	"github.com/dalemusser/reliefhub/internal/app/system/metrics"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Deps are the collaborators shared by every record type's handler.
type Deps struct {
	Records records.Store
	Audit   *auditlog.Logger
	Metrics *metrics.Metrics
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// Handler serves the pages for one record type.
type Handler[T any] struct {
	Kind    *Kind[T]
	Records records.Store
	Repo    *records.Repo[T]
	Audit   *auditlog.Logger
	Metrics *metrics.Metrics
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	now func() time.Time
}

func NewHandler[T any](k *Kind[T], deps Deps) *Handler[T] {
	logger := deps.Log
	if logger == nil {
		logger = zap.NewNop()
	}
	errLog := deps.ErrLog
	if errLog == nil {
		errLog = uierrors.NewErrorLogger(logger)
	}
	return &Handler[T]{
		Kind:    k,
		Records: deps.Records,
		Repo:    records.NewRepo[T](deps.Records, k.Coll),
		Audit:   deps.Audit,
		Metrics: deps.Metrics,
		ErrLog:  errLog,
		Log:     logger.With(zap.String("kind", k.Key)),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| access                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler[T]) canManage(r *http.Request) bool {
	_, ok := auth.CurrentUser(r)
	return ok
}

func (h *Handler[T]) canDelete(r *http.Request) bool {
	return authz.HasAnyRole(r, h.Kind.DeleteRoles...)
}

// actorID is the signed-in user's id for audit records.
func actorID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| lookups                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler[T]) notFound(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderNotFound(w, r, h.Kind.Singular+" not found.", h.Kind.Base)
}

// urlID parses {id}. A malformed id is answered with 404, the same as an
// unknown one.
func (h *Handler[T]) urlID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r)
		return primitive.NilObjectID, false
	}
	return oid, true
}

// load fetches the record or writes the 404/500 page.
func (h *Handler[T]) load(ctx context.Context, w http.ResponseWriter, r *http.Request, id primitive.ObjectID) (T, bool) {
	rec, err := h.Repo.Get(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		h.notFound(w, r)
		return rec, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load "+h.Kind.Key+" failed", err, "A database error occurred.", h.Kind.Base)
		return rec, false
	}
	return rec, true
}

// choiceLabels maps stored reference values to display labels for the
// named fields that load their options from the store.
func (h *Handler[T]) choiceLabels(ctx context.Context, names []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	for _, name := range names {
		f, ok := h.Kind.field(name)
		if !ok || f.Choices == nil {
			continue
		}
		opts, err := f.Choices(ctx, h.Records)
		if err != nil {
			return nil, err
		}
		m := make(map[string]string, len(opts))
		for _, o := range opts {
			m[o.Value] = o.Label
		}
		out[name] = m
	}
	return out, nil
}

// display renders one stored value for the list and detail pages.
func display(f Field, value string, labels map[string]map[string]string) string {
	switch {
	case f.Type == TypeCheckbox:
		if value != "" {
			return "Yes"
		}
		return "No"
	case labels[f.Name] != nil && value != "":
		if l, ok := labels[f.Name][value]; ok {
			return l
		}
		return "(missing)"
	}
	return value
}
