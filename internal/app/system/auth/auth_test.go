package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("protected content"))
	}))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/login") {
		t.Errorf("expected redirect to /login, got %q", location)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/data", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	hxRedirect := rec.Header().Get("HX-Redirect")
	if !strings.HasPrefix(hxRedirect, "/login") {
		t.Errorf("expected HX-Redirect to /login, got %q", hxRedirect)
	}
}

func TestRequireRole_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole("Admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/login") {
		t.Errorf("expected redirect to /login, got %q", location)
	}
}

func TestRequireRole_WrongRole_RedirectsToForbidden(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole("Admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Create a request with a plain User in context
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Accept", "text/html")

	// Inject a user with "User" role into context
	req = withTestUser(req, "User")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if location != "/forbidden" {
		t.Errorf("expected redirect to /forbidden, got %q", location)
	}
}

func TestRequireRole_WrongRole_API_Returns403(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole("Admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin", nil)
	req.Header.Set("Accept", "application/json")
	req = withTestUser(req, "User")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestRequireRole_CorrectRole_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireRole("Admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin", nil)
	req = withTestUser(req, "Admin")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole("Admin", "Volunteer")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		role     string
		expected int
	}{
		{"Admin", http.StatusOK},
		{"Volunteer", http.StatusOK},
		{"User", http.StatusSeeOther}, // redirect to forbidden
		{"", http.StatusSeeOther},
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/volunteers", nil)
			req.Header.Set("Accept", "text/html")
			req = withTestUser(req, tc.role)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.expected {
				t.Errorf("role %q: expected status %d, got %d", tc.role, tc.expected, rec.Code)
			}
		})
	}
}

func TestRequireRole_CaseInsensitive(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole("Admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Test with uppercase role
	req := httptest.NewRequest("GET", "/admin", nil)
	req = withTestUser(req, "ADMIN")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d for uppercase role, got %d", http.StatusOK, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)

	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = withTestUser(req, "Admin")

	user, ok := auth.CurrentUser(req)

	if !ok {
		t.Error("expected ok to be true when user in context")
	}
	if user == nil {
		t.Fatal("expected user to not be nil")
	}
	if user.Role != "Admin" {
		t.Errorf("expected role 'Admin', got %q", user.Role)
	}
}

// withTestUser injects a SessionUser into the request context for testing.
// This simulates what LoadSessionUser middleware does.
func withTestUser(r *http.Request, role string) *http.Request {
	user := &auth.SessionUser{
		ID:      "507f1f77bcf86cd799439011", // Valid ObjectID hex
		Name:    "tester",
		LoginID: "tester",
		Role:    role,
	}
	return auth.WithTestUser(r, user)
}

// signInCookies runs SignIn against a throwaway request and returns the
// cookies a browser would send back.
func signInCookies(t *testing.T, sm *auth.SessionManager, u auth.SessionUser) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, req, u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return rec.Result().Cookies()
}

func TestSignIn_LoadSessionUser_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signInCookies(t, sm, auth.SessionUser{
		ID:   "507f1f77bcf86cd799439011",
		Name: "alice",
		Role: "User",
	})
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user in context after sign-in")
	}
	if got.Name != "alice" || got.Role != "User" || got.ID != "507f1f77bcf86cd799439011" {
		t.Errorf("unexpected session user: %+v", got)
	}
}

func TestLoadSessionUser_NoCookie_NoUser(t *testing.T) {
	sm := newTestSessionManager(t)

	found := true
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if found {
		t.Error("expected no user without a session cookie")
	}
}

type stubFetcher struct {
	user *auth.SessionUser
	err  error
}

func (f stubFetcher) FetchSessionUser(ctx context.Context, id string) (*auth.SessionUser, error) {
	return f.user, f.err
}

func TestLoadSessionUser_FetcherRefreshesRole(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signInCookies(t, sm, auth.SessionUser{ID: "507f1f77bcf86cd799439011", Name: "bob", Role: "User"})
	sm.SetUserFetcher(stubFetcher{user: &auth.SessionUser{ID: "507f1f77bcf86cd799439011", Name: "bob", LoginID: "bob", Role: "Admin"}})

	var role string
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := auth.CurrentUser(r); ok {
			role = u.Role
		}
	}))
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if role != "Admin" {
		t.Errorf("expected refreshed role Admin, got %q", role)
	}
}

func TestLoadSessionUser_FetcherUserGone_SignedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signInCookies(t, sm, auth.SessionUser{ID: "507f1f77bcf86cd799439011", Name: "carol", Role: "User"})
	sm.SetUserFetcher(stubFetcher{err: auth.ErrUserGone})

	found := true
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("expected deleted user to be treated as signed out")
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signInCookies(t, sm, auth.SessionUser{ID: "507f1f77bcf86cd799439011", Name: "dave", Role: "User"})

	req := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("expected session cookie to be expired")
	}
}

func TestFlashes_PopOnce(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	sm.AddFlash(rec, httptest.NewRequest("POST", "/register", nil), "Registration successful. Please log in.")
	cookies := rec.Result().Cookies()

	req := httptest.NewRequest("GET", "/login", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	msgs := sm.Flashes(httptest.NewRecorder(), req)
	if len(msgs) != 1 || msgs[0] != "Registration successful. Please log in." {
		t.Errorf("unexpected flashes: %v", msgs)
	}
}

func TestLoadFlashes_AttachesToContext(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	sm.AddFlash(rec, httptest.NewRequest("POST", "/register", nil), "saved")
	cookies := rec.Result().Cookies()

	var got []string
	h := sm.LoadFlashes(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.FlashesFrom(r)
	}))

	req := httptest.NewRequest("GET", "/login", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	if len(got) != 1 || got[0] != "saved" {
		t.Errorf("FlashesFrom = %v, want [saved]", got)
	}

	// HTMX partials leave the queue alone.
	got = nil
	req = httptest.NewRequest("GET", "/login", nil)
	req.Header.Set("HX-Request", "true")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != nil {
		t.Errorf("HTMX request got flashes %v", got)
	}
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop())
	if err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestGetSession_RotatedKeyYieldsFreshSession(t *testing.T) {
	old, err := auth.NewSessionManager("an-older-session-key-of-32-chars!!", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	cookies := signInCookies(t, old, auth.SessionUser{ID: "507f1f77bcf86cd799439011", Name: "alice", Role: "User"})

	sm := newTestSessionManager(t)
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	sess, err := sm.GetSession(req)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !sess.IsNew {
		t.Error("expected a fresh session for an undecodable cookie")
	}
	if _, ok := sess.Values["user_id"]; ok {
		t.Error("stale values leaked into the fresh session")
	}
}
