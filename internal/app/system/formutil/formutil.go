// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form is re-rendered with the
// user's previously entered values and a message explaining what went wrong.
//
//	type reportFormData struct {
//		formutil.Base
//		Location string
//	}
//
//	data := reportFormData{Location: loc}
//	formutil.SetBase(&data.Base, r, "New Report", "/reports")
//	data.SetError("Location is required.")
//	templates.Render(w, r, "record_form", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
)

// Base contains common fields for form pages.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
	// FieldErrors holds per-field messages keyed by form field name.
	FieldErrors map[string]string
}

// SetBase populates the common Base fields from the request context.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets the form-level error message. The text is escaped.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SetFieldError attaches msg to a single field.
func (b *Base) SetFieldError(field, msg string) {
	if b.FieldErrors == nil {
		b.FieldErrors = make(map[string]string)
	}
	b.FieldErrors[field] = msg
}
