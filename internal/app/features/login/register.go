// internal/app/features/login/register.go
package login

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/inputval"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeRegister renders the sign-up form.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM: viewdata.NewBaseVM(r, "Create account", "/login"),
	})
}

// HandleRegister creates the account and sends the user to enter the
// emailed verification code.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login/register")
		return
	}
	form := inputval.Register{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Password:  r.FormValue("password"),
		Confirm:   r.FormValue("confirm"),
	}
	data := registerFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Create account", "/login"),
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	}

	if errs := inputval.Struct(form); errs != nil {
		data.SetFieldErrors(errs)
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "register", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	uid, err := h.Users.Register(ctx, userstore.Registration{
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		h.Log.Warn("register failed", zap.Error(err))
		data.SetError(api.Message(err))
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "register", data)
		return
	}
	h.AuditLog.Registered(ctx, r, uid, form.Email)

	http.Redirect(w, r, "/login/verify?uid="+url.QueryEscape(uid), http.StatusSeeOther)
}
