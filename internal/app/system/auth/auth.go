// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey   = "is_authenticated"
	userIDKey   = "user_id"
	userNameKey = "username"
	userRoleKey = "user_role"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID      string // credential ObjectID hex
	Name    string // display name (the username)
	LoginID string // what the user typed to sign in
	Role    string
}

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	flashesKey     ctxKey = "flashes"
)

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects u into the request context, bypassing the session.
// Handler tests use it in place of LoadSessionUser.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// ErrUserGone is returned by a UserFetcher when the session refers to an
// account that no longer exists.
var ErrUserGone = errors.New("session user no longer exists")

// UserFetcher reloads the signed-in user on each request so role changes
// take effect without a new sign-in.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, id string) (*SessionUser, error)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and the sign-in middleware.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	log     *zap.Logger
	fetcher UserFetcher
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true), cookies are Secure + SameSite=Lax.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		return nil, fmt.Errorf("session name is empty")
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store (logout copies its options).
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// Name is the session cookie name.
func (sm *SessionManager) Name() string { return sm.name }

// SetUserFetcher installs a fetcher used by LoadSessionUser.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// GetSession returns the session for r. A cookie that fails to decode
// (rotated key, tampering) yields a fresh session rather than an error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.log.Debug("discarding undecodable session cookie", zap.Error(err))
			return sess, nil
		}
		if sess == nil {
			return nil, err
		}
	}
	return sess, nil
}

// SignIn writes the authenticated user into the session.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	sess.Values[userRoleKey] = u.Role
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	opts := *sm.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	sess.Values = map[interface{}]interface{}{}
	return sess.Save(r, w)
}

// AddFlash queues a one-shot message shown on the next rendered page.
func (sm *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, msg string) {
	sess, err := sm.GetSession(r)
	if err != nil {
		return
	}
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("save flash failed", zap.Error(err))
	}
}

// Flashes pops queued messages.
func (sm *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, err := sm.GetSession(r)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("save after flash read failed", zap.Error(err))
	}
	return out
}

// LoadFlashes pops queued flash messages on page loads (GET, non-HTMX) and
// carries them on the request context for the layout to show.
func (sm *SessionManager) LoadFlashes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.Header.Get("HX-Request") == "" {
			if msgs := sm.Flashes(w, r); len(msgs) > 0 {
				r = r.WithContext(context.WithValue(r.Context(), flashesKey, msgs))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// FlashesFrom returns the messages LoadFlashes attached to r.
func FlashesFrom(r *http.Request) []string {
	msgs, _ := r.Context().Value(flashesKey).([]string)
	return msgs
}

// LoadSessionUser injects the user into context if they are logged in.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:      getString(sess, userIDKey),
				Name:    getString(sess, userNameKey),
				LoginID: getString(sess, userNameKey),
				Role:    getString(sess, userRoleKey),
			}
			if sm.fetcher != nil {
				fresh, err := sm.fetcher.FetchSessionUser(r.Context(), u.ID)
				switch {
				case errors.Is(err, ErrUserGone):
					sm.log.Info("session refers to missing user; treating as signed out",
						zap.String("user_id", u.ID))
					next.ServeHTTP(w, r)
					return
				case err != nil:
					// Keep the cached identity; a store blip should not sign everyone out.
					sm.log.Warn("refresh session user failed", zap.String("user_id", u.ID), zap.Error(err))
				default:
					u = fresh
				}
			}
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		unauthorized(w, r)
	})
}

// RequireRole ensures there is a user with one of the allowed roles.
// Role comparison is case-insensitive.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				unauthorized(w, r)
				return
			}

			if _, has := set[strings.ToLower(u.Role)]; !has {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func unauthorized(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
