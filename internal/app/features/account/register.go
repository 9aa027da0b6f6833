// internal/app/features/account/register.go
package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/authutil"
	"github.com/dalemusser/reliefhub/internal/app/system/formutil"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/metrics"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Shown when confirm_password differs from password.
const msgPasswordMismatch = "Passwords do not match."

// Shown next to the username field when the name is taken.
const msgUsernameTaken = "Username already exists."

// Shown when the password is longer than the active scheme can store.
var msgPasswordTooLong = fmt.Sprintf("Password must be at most %d bytes.", authutil.MaxBcryptPassword)

type registerFormData struct {
	formutil.Base
	Username  string
	ReturnURL string
}

// registerInput is the bound register form. Passwords are not trimmed.
type registerInput struct {
	Username        string `validate:"required,max=100" label:"Username"`
	Password        string `validate:"required" label:"Password"`
	ConfirmPassword string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var data registerFormData
	formutil.SetBase(&data.Base, r, "Register", "/")
	data.ReturnURL = query.Get(r, "return")
	templates.Render(w, r, "account_register", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	in := registerInput{
		Username:        r.FormValue("username"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
	ret := strings.TrimSpace(r.FormValue("return"))

	if res := inputval.Validate(in); res.HasErrors() {
		h.renderRegister(w, r, in.Username, ret, func(b *formutil.Base) {
			b.SetError(res.First())
			for _, fe := range res.Errors {
				b.SetFieldError(strings.ToLower(fe.Field), fe.Message)
			}
		})
		return
	}
	if in.Password != in.ConfirmPassword {
		h.renderRegister(w, r, in.Username, ret, func(b *formutil.Base) {
			b.SetError(msgPasswordMismatch)
			b.SetFieldError("confirm_password", msgPasswordMismatch)
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := h.Users.Register(ctx, in.Username, in.Password)
	switch {
	case errors.Is(err, userstore.ErrPasswordTooLong):
		h.renderRegister(w, r, in.Username, ret, func(b *formutil.Base) {
			b.SetError(msgPasswordTooLong)
			b.SetFieldError("password", msgPasswordTooLong)
		})
		return
	case errors.Is(err, userstore.ErrDuplicateUsername):
		h.Metrics.Registration(metrics.OutcomeDuplicate)
		h.Audit.RegisterDuplicate(ctx, r, in.Username)
		h.renderRegister(w, r, in.Username, ret, func(b *formutil.Base) {
			b.SetFieldError("username", msgUsernameTaken)
		})
		return
	case err != nil:
		h.Metrics.Registration(metrics.OutcomeError)
		h.ErrLog.LogServerError(w, r, "register failed", err, "Unable to create the account. Please try again.", "/register")
		return
	}

	h.Metrics.Registration(metrics.OutcomeSuccess)
	h.Audit.Registered(ctx, r, id, in.Username)
	h.Log.Info("account registered", zap.String("user_id", id.Hex()))

	h.SessionMgr.AddFlash(w, r, "Registration successful. Please log in.")
	dest := "/login"
	if ret != "" {
		dest += "?return=" + url.QueryEscape(ret)
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, username, ret string, apply func(*formutil.Base)) {
	data := registerFormData{Username: username, ReturnURL: ret}
	formutil.SetBase(&data.Base, r, "Register", "/")
	apply(&data.Base)
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "account_register", data)
}
