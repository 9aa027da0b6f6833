// internal/app/system/requestid/requestid.go
package requestid

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Header carries the id in both directions.
const Header = "X-Request-ID"

type ctxKey struct{}

// Middleware reuses an inbound X-Request-ID when it parses as a UUID and
// otherwise mints a new one. The id is echoed in the response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// FromContext returns the request id, or "" outside the middleware.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromRequest is FromContext(r.Context()).
func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}
