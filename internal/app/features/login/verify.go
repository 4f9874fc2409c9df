// internal/app/features/login/verify.go
package login

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/inputval"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeVerify renders the verification code form for ?uid=.
func (h *Handler) ServeVerify(w http.ResponseWriter, r *http.Request) {
	uid := query.Get(r, "uid")
	if uid == "" {
		http.Redirect(w, r, "/login/register", http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "verify", verifyFormData{
		BaseVM: viewdata.NewBaseVM(r, "Verify your email", "/login"),
		UserID: uid,
	})
}

// HandleVerify confirms the code and signs the new account in.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}
	uid := strings.TrimSpace(r.FormValue("uid"))
	if uid == "" {
		http.Redirect(w, r, "/login/register", http.StatusSeeOther)
		return
	}
	form := inputval.Verify{Code: strings.TrimSpace(r.FormValue("code"))}
	data := verifyFormData{
		BaseVM: viewdata.NewBaseVM(r, "Verify your email", "/login"),
		UserID: uid,
	}
	if errs := inputval.Struct(form); errs != nil {
		data.SetError(errs.First("code"))
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "verify", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	signed, err := h.Users.Verify(ctx, uid, form.Code)
	if err != nil {
		h.AuditLog.VerificationFailed(ctx, r, uid, api.Message(err))
		data.SetError(api.Message(err))
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "verify", data)
		return
	}

	if !h.startSession(w, r, signed, "") {
		return
	}
	h.AuditLog.Verified(ctx, r, uid)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
