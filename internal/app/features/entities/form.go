// internal/app/features/entities/form.go
package entities

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/htmlsanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the wire format of <input type="date">.
const DateLayout = "2006-01-02"

// formReader pulls typed values out of a submitted form. The first parse
// failure is kept in msg; later reads still return zero values.
type formReader struct {
	f   url.Values
	msg string
}

func newFormReader(f url.Values) *formReader { return &formReader{f: f} }

func (fr *formReader) fail(msg string) {
	if fr.msg == "" {
		fr.msg = msg
	}
}

// text returns the value stripped of markup and surrounding space.
func (fr *formReader) text(name string) string {
	return htmlsanitize.PlainText(fr.f.Get(name))
}

func (fr *formReader) checkbox(name string) bool {
	switch fr.f.Get(name) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// date parses a yyyy-mm-dd value; an empty field yields def.
func (fr *formReader) date(name, label string, def time.Time) time.Time {
	raw := strings.TrimSpace(fr.f.Get(name))
	if raw == "" {
		return def
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		fr.fail(label + " must be a valid date.")
		return def
	}
	return t.UTC()
}

func (fr *formReader) optFloat(name, label string) *float64 {
	raw := strings.TrimSpace(fr.f.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fr.fail(label + " must be a number.")
		return nil
	}
	return &v
}

func (fr *formReader) optInt(name, label string) *int {
	raw := strings.TrimSpace(fr.f.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fr.fail(label + " must be a whole number.")
		return nil
	}
	return &v
}

// ref parses an ObjectID reference; empty yields nil.
func (fr *formReader) ref(name, label string) *primitive.ObjectID {
	raw := strings.TrimSpace(fr.f.Get(name))
	if raw == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		fr.fail("Selected " + strings.ToLower(label) + " is not valid.")
		return nil
	}
	return &oid
}

/*─────────────────────────────────────────────────────────────────────────────*
| encoding helpers                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

func fmtBool(b bool) string {
	if b {
		return "true"
	}
	return ""
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtRef(id *primitive.ObjectID) string {
	if id == nil || id.IsZero() {
		return ""
	}
	return id.Hex()
}

// startOfDay truncates t to midnight UTC so date-only fields round-trip.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
