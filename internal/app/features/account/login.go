// internal/app/features/account/login.go
package account

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/formutil"
	"github.com/dalemusser/reliefhub/internal/app/system/metrics"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// One message for unknown user and wrong password alike.
const msgInvalidLogin = "Invalid username or password."

type loginFormData struct {
	formutil.Base
	Username  string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var data loginFormData
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	data.ReturnURL = query.Get(r, "return")
	templates.Render(w, r, "account_login", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if allowed, reason := h.Limiter.Check(r, username); !allowed {
		h.Metrics.LoginAttempt(metrics.OutcomeRateLimited)
		h.Audit.LoginRateLimited(r.Context(), r, username)
		h.renderLogin(w, r, http.StatusTooManyRequests, reason, username, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cred, err := h.Users.Authenticate(ctx, username, password)
	switch {
	case errors.Is(err, userstore.ErrInvalidCredentials):
		h.Metrics.LoginAttempt(metrics.OutcomeFailure)
		h.Audit.LoginFailed(ctx, r, username)
		h.renderLogin(w, r, http.StatusUnauthorized, msgInvalidLogin, username, ret)
		return
	case err != nil:
		h.Metrics.LoginAttempt(metrics.OutcomeError)
		h.ErrLog.LogServerError(w, r, "authenticate failed", err, "Unable to sign in right now. Please try again.", "/login")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, *userstore.SessionUserFor(cred)); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", cred.ID.Hex()))
		h.renderLogin(w, r, http.StatusInternalServerError, "Unable to create session. Please try again.", username, ret)
		return
	}

	h.Limiter.ResetUser(ctx, username)
	h.Metrics.LoginAttempt(metrics.OutcomeSuccess)
	h.Audit.LoginSuccess(ctx, r, cred.ID, cred.Username)

	dest := urlutil.SafeReturn(ret, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, msg, username, ret string) {
	data := loginFormData{Username: username, ReturnURL: ret}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	data.SetError(msg)
	w.WriteHeader(status)
	templates.Render(w, r, "account_login", data)
}
