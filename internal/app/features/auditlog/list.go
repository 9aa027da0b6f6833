// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/audit"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listItem struct {
	Timestamp  time.Time
	Category   string
	EventType  string
	ActorName  string
	TargetName string
	IP         string
	Success    bool
	Reason     string
	Details    map[string]string
}

type option struct {
	Value string
	Label string
}

type listData struct {
	viewdata.BaseVM

	Items []listItem

	Category   string
	EventType  string
	Categories []option
	EventTypes []string

	Range paging.Range
}

var categories = []option{
	{Value: audit.CategoryAuth, Label: "Authentication"},
	{Value: audit.CategoryAdmin, Label: "Record changes"},
}

// eventTypesFor lists the event types of category, or all of them.
func eventTypesFor(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
		audit.EventRegistered,
		audit.EventRegisterDuplicate,
		audit.EventPasswordHashUpgraded,
	}
	adminEvents := []string{
		audit.EventRecordCreated,
		audit.EventRecordUpdated,
		audit.EventRecordDeleted,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		return append(append([]string{}, authEvents...), adminEvents...)
	}
	return nil
}

// ServeList handles GET /audit with optional category, event_type and
// start parameters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log list")
	defer cancel()

	category := query.Get(r, "category")
	eventType := query.Get(r, "event_type")
	start := paging.ParseStart(r)
	skip, limit := paging.Window(start)

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     limit,
		Offset:    skip,
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "A database error occurred.", "/dashboard")
		return
	}
	events, hasNext := paging.Trim(events)

	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "A database error occurred.", "/dashboard")
		return
	}

	names := h.usernames(ctx, events)
	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{
			Timestamp:  e.Timestamp,
			Category:   e.Category,
			EventType:  e.EventType,
			ActorName:  nameFor(names, e.ActorID),
			TargetName: nameFor(names, e.UserID),
			IP:         e.IP,
			Success:    e.Success,
			Reason:     e.FailureReason,
			Details:    e.Details,
		})
	}

	templates.Render(w, r, "audit_list", listData{
		BaseVM:     viewdata.NewBaseVM(r, "Audit Log", "/dashboard"),
		Items:      items,
		Category:   category,
		EventType:  eventType,
		Categories: categories,
		EventTypes: eventTypesFor(category),
		Range:      paging.ComputeRange(start, len(items), hasNext, total),
	})
}

// usernames resolves every actor and account id on the page. Lookup
// failures fall back to the raw id.
func (h *Handler) usernames(ctx context.Context, events []audit.Event) map[primitive.ObjectID]string {
	out := make(map[primitive.ObjectID]string)
	for _, e := range events {
		for _, id := range []*primitive.ObjectID{e.ActorID, e.UserID} {
			if id == nil {
				continue
			}
			if _, seen := out[*id]; seen {
				continue
			}
			cred, err := h.Users.GetByID(ctx, *id)
			if err != nil {
				h.Log.Debug("audit name lookup failed", zap.String("id", id.Hex()), zap.Error(err))
				out[*id] = id.Hex()
				continue
			}
			out[*id] = cred.Username
		}
	}
	return out
}

func nameFor(names map[primitive.ObjectID]string, id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return names[*id]
}
