// internal/app/features/groups/edit.go
package groups

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/fielddiff"
	"github.com/dalemusser/skillmatch/internal/app/system/navigation"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errBlocked = errors.New("groups: local field errors")

type editData struct {
	DialogID    string
	Form        models.Group
	FieldErrors map[string]string
}

// Fields returns the Edit Group fields. Size bounds go together so the
// backend can check min against max.
func (h *Handler) Fields(sess api.Session, groupID string) []fielddiff.Field[models.Group] {
	return []fielddiff.Field[models.Group]{
		fielddiff.Scalar("name", func(g models.Group) string { return strings.TrimSpace(g.Name) },
			func(ctx context.Context, v string) error { return h.Groups.EditName(ctx, sess, groupID, v) }),
		fielddiff.Scalar("description", func(g models.Group) string { return strings.TrimSpace(g.Description) },
			func(ctx context.Context, v string) error { return h.Groups.EditDescription(ctx, sess, groupID, v) }),
		fielddiff.Pair("size",
			func(g models.Group) int { return g.MinMembers },
			func(g models.Group) int { return g.MaxMembers },
			func(ctx context.Context, lo, hi int) error { return h.Groups.EditSize(ctx, sess, groupID, lo, hi) }),
	}
}

// ServeEditDialog opens the Edit Group dialog for its owner or an admin.
func (h *Handler) ServeEditDialog(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.Get(ctx, u, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load group for edit failed", err, api.Message(err), "/groups")
		return
	}
	if !authz.CanEditGroup(r, g) {
		uierrors.RenderForbidden(w, r, "You can only edit groups you own.", "/groups")
		return
	}

	d := h.EditDialogs.Open(u.ID, g)
	dialog.Announce(w, d)
	templates.RenderSnippet(w, "group_edit_dialog", editData{DialogID: d.ID(), Form: d.Pending()})
}

// HandleEditConfirm sends one call per changed field. The dialog closes
// if anything saved or nothing changed; if every call failed it stays
// open with the edits kept.
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
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups")
		return
	}

	if err := d.Edit(func(g *models.Group) {
		if r.PostForm.Has("name") {
			g.Name = r.PostForm.Get("name")
		}
		if r.PostForm.Has("description") {
			g.Description = r.PostForm.Get("description")
		}
		g.MinMembers = readSize(r, "min_members", g.MinMembers)
		g.MaxMembers = readSize(r, "max_members", g.MaxMembers)
	}); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	form := d.Pending()
	if errs := validateGroup(strings.TrimSpace(form.Name), strings.TrimSpace(form.Description), form.MinMembers, form.MaxMembers); errs != nil {
		h.renderEditErrors(w, d.ID(), form, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var out fielddiff.Outcome
	fields := h.Fields(u, form.ID)
	err := d.Confirm(ctx, func(ctx context.Context, snap, pend models.Group) error {
		out = fielddiff.Submit(ctx, snap, pend, fields)
		switch {
		case out.Blocked():
			return errBlocked
		case len(out.Issued) > 0 && !out.Saved:
			return out.Err()
		}
		return nil
	}, h.EditDialogs.Closer(w, u.ID, d.ID(), Refresh))

	if len(out.Failures) > 0 {
		h.Log.Warn("group field save failed", zap.String("group", form.ID), zap.Error(out.Err()))
		for _, f := range out.Failures {
			toast.Push(w, r, toast.Error(api.Message(f.Err)))
		}
	}

	switch {
	case err == nil:
		if out.Saved {
			toast.Push(w, r, toast.Info("Group updated", strings.TrimSpace(form.Name)))
		}
		if !toast.IsHTMX(r) {
			http.Redirect(w, r, navigation.SafeBackURL(r, navigation.GroupsBackURL), http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, errBlocked):
		h.renderEditErrors(w, d.ID(), form, out.FieldErrors)
	case uierrors.RenderDialogError(w, r, err):
	default:
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
	}
}

// HandleEditCancel discards the edits.
func (h *Handler) HandleEditCancel(w http.ResponseWriter, r *http.Request) {
	cancelDialog(w, r, h.EditDialogs, Refresh)
}

func (h *Handler) renderEditErrors(w http.ResponseWriter, id string, form models.Group, errs map[string]string) {
	toast.Trigger(w, FieldErrorsEvent, errs)
	templates.RenderSnippet(w, "group_edit_dialog", editData{DialogID: id, Form: form, FieldErrors: errs})
}
