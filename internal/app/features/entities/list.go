// internal/app/features/entities/list.go
package entities

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeList handles GET / with ?start= paging.
func (h *Handler[T]) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	k := h.Kind
	start := paging.ParseStart(r)
	skip, limit := paging.Window(start)

	rows, err := h.Repo.List(ctx, records.ListOptions{
		SortField: k.SortField,
		SortDesc:  k.SortDesc,
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list "+k.Key+" failed", err, "A database error occurred.", "/dashboard")
		return
	}
	rows, hasNext := paging.Trim(rows)

	total, err := h.Repo.Count(ctx, nil)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count "+k.Key+" failed", err, "A database error occurred.", "/dashboard")
		return
	}

	labels, err := h.choiceLabels(ctx, k.Columns)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load "+k.Key+" labels failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := listData{
		BaseVM:    viewdata.NewBaseVM(r, k.Plural, "/dashboard"),
		Kind:      k.vm(),
		Range:     paging.ComputeRange(start, len(rows), hasNext, total),
		CanCreate: h.canManage(r),
	}
	cols := make([]Field, 0, len(k.Columns))
	for _, name := range k.Columns {
		if f, ok := k.field(name); ok {
			cols = append(cols, f)
			data.Headers = append(data.Headers, f.Label)
		}
	}
	for _, rec := range rows {
		values := k.Encode(rec)
		row := listRow{ID: k.ID(rec).Hex()}
		for _, f := range cols {
			row.Cells = append(row.Cells, display(f, values[f.Name], labels))
		}
		data.Rows = append(data.Rows, row)
	}

	templates.Render(w, r, "entity_list", data)
}
