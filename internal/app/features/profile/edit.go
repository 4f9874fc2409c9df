// internal/app/features/profile/edit.go
package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/fielddiff"
	"github.com/dalemusser/skillmatch/internal/app/system/inputval"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FieldErrorsEvent carries inline field messages to the open dialog.
const FieldErrorsEvent = "fieldErrors"

var errBlocked = errors.New("profile: local field errors")

type editData struct {
	DialogID    string
	Form        models.User
	FieldErrors map[string]string
}

// inputs maps each saved field to the form inputs it reads.
var inputs = map[string][]string{
	"name":        {"first_name", "last_name"},
	"school":      {"school"},
	"degree":      {"degree"},
	"phone":       {"phone"},
	"description": {"description"},
	"avatar":      {"avatar_url"},
	"cover":       {"cover_url"},
}

// fieldFor returns the saved field an input belongs to.
func fieldFor(input string) string {
	for name, ins := range inputs {
		for _, in := range ins {
			if in == input {
				return name
			}
		}
	}
	return ""
}

// Fields returns the Edit Profile fields, each saved by its own call.
func (h *Handler) Fields(sess api.Session) []fielddiff.Field[models.User] {
	trim := func(get func(models.User) string) func(models.User) string {
		return func(u models.User) string { return strings.TrimSpace(get(u)) }
	}
	return []fielddiff.Field[models.User]{
		fielddiff.Pair("name",
			trim(func(u models.User) string { return u.FirstName }),
			trim(func(u models.User) string { return u.LastName }),
			func(ctx context.Context, first, last string) error { return h.Users.EditName(ctx, sess, first, last) }),
		fielddiff.Scalar("school", trim(func(u models.User) string { return u.School }),
			func(ctx context.Context, v string) error { return h.Users.EditSchool(ctx, sess, v) }),
		fielddiff.Scalar("degree", trim(func(u models.User) string { return u.Degree }),
			func(ctx context.Context, v string) error { return h.Users.EditDegree(ctx, sess, v) }),
		fielddiff.Scalar("phone", trim(func(u models.User) string { return u.Phone }),
			func(ctx context.Context, v string) error { return h.Users.EditPhone(ctx, sess, v) }),
		fielddiff.Scalar("description", trim(func(u models.User) string { return u.Description }),
			func(ctx context.Context, v string) error { return h.Users.EditDescription(ctx, sess, v) }),
		fielddiff.Image("avatar", func(u models.User) models.Image { return u.Avatar }, h.Prober,
			func(ctx context.Context, img models.Image) error { return h.Users.EditAvatar(ctx, sess, img) }),
		fielddiff.Image("cover", func(u models.User) models.Image { return u.CoverPhoto }, h.Prober,
			func(ctx context.Context, img models.Image) error { return h.Users.EditCoverPhoto(ctx, sess, img) }),
	}
}

// applyForm copies the posted inputs onto u. Inputs absent from the form
// are left alone. A changed image URL drops the old dimensions; they are
// probed again on save.
func applyForm(u *models.User, r *http.Request) {
	set := func(key string, dst *string) {
		if r.PostForm.Has(key) {
			*dst = r.PostForm.Get(key)
		}
	}
	set("first_name", &u.FirstName)
	set("last_name", &u.LastName)
	set("school", &u.School)
	set("degree", &u.Degree)
	set("phone", &u.Phone)
	set("description", &u.Description)

	image := func(key string, dst *models.Image) {
		if !r.PostForm.Has(key) {
			return
		}
		if v := strings.TrimSpace(r.PostForm.Get(key)); v != dst.URL {
			*dst = models.Image{URL: v}
		}
	}
	image("avatar_url", &u.Avatar)
	image("cover_url", &u.CoverPhoto)
}

// rebase copies one saved field from src onto the snapshot.
func rebase(field string, dst *models.User, src models.User) {
	switch field {
	case "name":
		dst.FirstName, dst.LastName = src.FirstName, src.LastName
	case "school":
		dst.School = src.School
	case "degree":
		dst.Degree = src.Degree
	case "phone":
		dst.Phone = src.Phone
	case "description":
		dst.Description = src.Description
	case "avatar":
		dst.Avatar = src.Avatar
	case "cover":
		dst.CoverPhoto = src.CoverPhoto
	}
}

// validate runs the local checks on u, restricted to the inputs of the
// given fields (all fields when none are named).
func validate(u models.User, fields ...string) map[string]string {
	errs := inputval.Struct(inputval.Profile{
		FirstName:   strings.TrimSpace(u.FirstName),
		LastName:    strings.TrimSpace(u.LastName),
		School:      strings.TrimSpace(u.School),
		Degree:      strings.TrimSpace(u.Degree),
		Phone:       strings.TrimSpace(u.Phone),
		Description: strings.TrimSpace(u.Description),
	})
	if len(errs) == 0 {
		return nil
	}
	if len(fields) == 0 {
		return errs
	}
	out := map[string]string{}
	for _, f := range fields {
		for _, in := range inputs[f] {
			if msg, ok := errs[in]; ok {
				out[in] = msg
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ServeEditDialog opens the Edit Profile dialog on a fresh snapshot.
func (h *Handler) ServeEditDialog(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.Profile(ctx, u)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load profile for edit failed", err, api.Message(err), "/profile")
		return
	}

	d := h.EditDialogs.Open(u.ID, user)
	dialog.Announce(w, d)
	templates.RenderSnippet(w, "profile_edit_dialog", editData{DialogID: d.ID(), Form: d.Pending()})
}

// HandleEditField saves the one field whose input lost focus. Only that
// field is compared and sent. On success the dialog snapshot takes the
// saved value so confirming later does not send it again.
func (h *Handler) HandleEditField(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	d, ok := h.EditDialogs.Get(u.ID, chi.URLParam(r, "dialog"))
	if !ok {
		uierrors.RenderDialogGone(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	name := fieldFor(r.FormValue("field"))
	var field *fielddiff.Field[models.User]
	for _, f := range h.Fields(u) {
		if f.Name == name {
			field = &f
			break
		}
	}
	if field == nil {
		h.ErrLog.LogBadRequest(w, r, "unknown profile field", nil, "Unknown field.", "/profile")
		return
	}

	// The inputs post the whole dialog form (hx-include="closest form"), so
	// every edit is kept here even though only the blurred field is sent.
	if err := d.Edit(func(p *models.User) { applyForm(p, r) }); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	pending := d.Pending()
	if errs := validate(pending, name); errs != nil {
		h.renderEditErrors(w, d.ID(), pending, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out := fielddiff.Submit(ctx, d.Snapshot(), pending, []fielddiff.Field[models.User]{*field})
	if out.Blocked() {
		h.renderEditErrors(w, d.ID(), pending, out.FieldErrors)
		return
	}
	h.toastFailures(w, r, out)
	if out.Saved {
		if err := d.Rebase(func(s *models.User) { rebase(name, s, pending) }); err != nil {
			h.Log.Debug("rebase after field save", zap.Error(err))
		}
		toast.Trigger(w, ProfileRefresh, nil)
	}
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(http.StatusOK)
}

// HandleEditConfirm sends every changed field and closes the dialog when
// at least one saved or nothing changed. If every call failed the dialog
// stays open with the edits kept.
func (h *Handler) HandleEditConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	d, ok := h.EditDialogs.Get(u.ID, chi.URLParam(r, "dialog"))
	if !ok {
		uierrors.RenderDialogGone(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	if err := d.Edit(func(p *models.User) { applyForm(p, r) }); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	if errs := validate(d.Pending()); errs != nil {
		h.renderEditErrors(w, d.ID(), d.Pending(), errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var out fielddiff.Outcome
	fields := h.Fields(u)
	err := d.Confirm(ctx, func(ctx context.Context, snap, pend models.User) error {
		out = fielddiff.Submit(ctx, snap, pend, fields)
		switch {
		case out.Blocked():
			return errBlocked
		case len(out.Issued) > 0 && !out.Saved:
			return out.Err()
		}
		return nil
	}, h.EditDialogs.Closer(w, u.ID, d.ID(), ProfileRefresh))

	h.toastFailures(w, r, out)
	switch {
	case err == nil:
		if out.Saved {
			toast.Push(w, r, toast.Info("Profile updated", ""))
		}
		if !toast.IsHTMX(r) {
			http.Redirect(w, r, "/profile", http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, errBlocked):
		h.renderEditErrors(w, d.ID(), d.Pending(), out.FieldErrors)
	case uierrors.RenderDialogError(w, r, err):
	default:
		// Every call failed; the toasts above carry the messages.
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
	}
}

// HandleEditCancel discards the edits and closes the dialog.
func (h *Handler) HandleEditCancel(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	id := chi.URLParam(r, "dialog")
	d, ok := h.EditDialogs.Get(u.ID, id)
	if !ok {
		// Already gone; closing is still what the user wants.
		toast.Trigger(w, dialog.CloseEvent, nil)
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := d.Cancel(h.EditDialogs.Closer(w, u.ID, id, ProfileRefresh)); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) toastFailures(w http.ResponseWriter, r *http.Request, out fielddiff.Outcome) {
	if len(out.Failures) == 0 {
		return
	}
	h.Log.Warn("profile field save failed", zap.Error(out.Err()))
	for _, f := range out.Failures {
		toast.Push(w, r, toast.Error(api.Message(f.Err)))
	}
}

// renderEditErrors re-renders the dialog with inline messages. The same
// messages go out as an event so a field can show its own.
func (h *Handler) renderEditErrors(w http.ResponseWriter, id string, form models.User, errs map[string]string) {
	toast.Trigger(w, FieldErrorsEvent, errs)
	templates.RenderSnippet(w, "profile_edit_dialog", editData{DialogID: id, Form: form, FieldErrors: errs})
}
