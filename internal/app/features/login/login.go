// internal/app/features/login/login.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/inputval"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// ServeLogin renders the sign-in form. Signed-in users go to the dashboard.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

// HandleLoginPost checks credentials with the backend and starts a session.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	form := inputval.Login{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	ret := r.FormValue("return")
	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Email:     form.Email,
		ReturnURL: ret,
	}

	if errs := inputval.Struct(form); errs != nil {
		data.SetError(errs.First("email", "password"))
		h.renderLogin(w, r, http.StatusBadRequest, data)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, form.Email); !ok {
			h.Log.Warn("login rate limited", zap.String("email", form.Email))
			h.AuditLog.LoginRateLimited(r.Context(), r, form.Email)
			data.SetError(reason)
			h.renderLogin(w, r, http.StatusTooManyRequests, data)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	signed, err := h.Users.Login(ctx, form.Email, form.Password)
	if err != nil {
		var ae *api.Error
		if errors.As(err, &ae) {
			h.AuditLog.LoginFailed(ctx, r, form.Email, ae.Message)
		} else {
			h.Log.Error("login backend call failed", zap.Error(err))
		}
		data.SetError(api.Message(err))
		h.renderLogin(w, r, http.StatusUnauthorized, data)
		return
	}

	if !h.startSession(w, r, signed, form.Email) {
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(form.Email)
	}
	h.AuditLog.LoginSuccess(ctx, r, signed.UserID, form.Email)

	http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/dashboard"), http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginFormData) {
	w.WriteHeader(status)
	templates.Render(w, r, "login", data)
}

// startSession writes the session cookie. It reports false after having
// rendered an error.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, signed userstore.SignedIn, email string) bool {
	u := &auth.SessionUser{
		ID:            signed.UserID,
		Name:          strings.TrimSpace(signed.FirstName + " " + signed.LastName),
		Email:         email,
		Role:          signed.Role,
		BackendCookie: auth.EncodeCookies(signed.Cookies),
	}
	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to sign you in right now.", "/login")
		return false
	}
	return true
}
