// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText strips every tag from s and trims it. Entities are decoded so
// the value is stored as plain text; templates escape it on output.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains no markup.
func IsPlainText(s string) bool {
	return PlainText(s) == strings.TrimSpace(s)
}
