// internal/app/features/entities/form_render.go
package entities

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/reliefhub/internal/app/system/formutil"
	"github.com/dalemusser/waffle/pantry/templates"
)

// formFields pairs every field with its current value and options.
func (h *Handler[T]) formFields(ctx context.Context, values map[string]string) ([]fieldVM, error) {
	out := make([]fieldVM, 0, len(h.Kind.Fields))
	for _, f := range h.Kind.Fields {
		fv := fieldVM{Field: f, Value: values[f.Name]}
		for _, o := range f.Options {
			fv.Opts = append(fv.Opts, Option{Value: o, Label: o})
		}
		if f.Choices != nil {
			opts, err := f.Choices(ctx, h.Records)
			if err != nil {
				return nil, err
			}
			fv.Opts = append(fv.Opts, opts...)
		}
		out = append(out, fv)
	}
	return out, nil
}

// postedValues echoes a submission back into the form.
func postedValues(f url.Values, fields []Field) map[string]string {
	out := make(map[string]string, len(fields))
	for _, fd := range fields {
		out[fd.Name] = f.Get(fd.Name)
	}
	return out
}

type formPage struct {
	Title  string
	Action string
	ID     string
	Submit string
}

// renderForm shows the create or edit form. A non-empty msg is shown as the
// form error and the response carries status.
func (h *Handler[T]) renderForm(ctx context.Context, w http.ResponseWriter, r *http.Request, status int, page formPage, values map[string]string, msg string) {
	fields, err := h.formFields(ctx, values)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load "+h.Kind.Key+" form options failed", err, "A database error occurred.", h.Kind.Base)
		return
	}

	data := formData{
		Kind:   h.Kind.vm(),
		Action: page.Action,
		ID:     page.ID,
		Fields: fields,
		Submit: page.Submit,
	}
	formutil.SetBase(&data.Base, r, page.Title, h.Kind.Base)
	if msg != "" {
		data.SetError(msg)
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "entity_form", data)
}
