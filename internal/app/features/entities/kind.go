// internal/app/features/entities/kind.go
//
// Package entities serves list/create/view/edit/delete pages for the relief
// record types. One generic Handler drives every type; a Kind describes the
// parts that differ (fields, decoding, access).
package entities

import (
	"context"
	"net/url"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field input types understood by the form template.
const (
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypeSelect   = "select"
	TypeDate     = "date"
	TypeNumber   = "number"
	TypeCheckbox = "checkbox"
	TypeEmail    = "email"
	TypeTel      = "tel"
)

// Option is one choice in a select.
type Option struct {
	Value string
	Label string
}

// Field describes one form input and the matching detail row.
type Field struct {
	Name     string // form key, and key into Encode's map
	Label    string
	Type     string
	Required bool
	Options  []string // static select choices
	Step     string   // number inputs

	// Choices loads select options from the store (references to other
	// records). An empty first option is added for optional references.
	Choices func(ctx context.Context, recs records.Store) ([]Option, error)
}

// Kind is everything type-specific about one record type.
type Kind[T any] struct {
	Key      string // audit and metrics label, e.g. "report"
	Singular string
	Plural   string
	Base     string // mount path, e.g. "/reports"
	Coll     string

	SortField string
	SortDesc  bool

	Fields  []Field
	Columns []string // field names shown on the list page

	// DeleteRoles may delete. Any signed-in user may create and edit.
	DeleteRoles []string

	// Blank returns the defaults shown on the new-record form.
	Blank func(now time.Time) T
	// Decode builds a sanitised record from a submitted form. A non-empty
	// message means the form is invalid and is shown to the user as-is.
	Decode func(f url.Values, now time.Time) (T, string)
	// Encode returns the form and display value for every field.
	Encode func(rec T) map[string]string
	ID     func(rec T) primitive.ObjectID
	Label  func(rec T) string

	// Check runs validation that needs the store, such as confirming a
	// referenced record exists. It may fill derived fields on rec.
	Check func(ctx context.Context, recs records.Store, rec *T) (msg string, err error)
}

func (k *Kind[T]) field(name string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
