// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	projectstore "github.com/dalemusser/skillmatch/internal/app/store/projects"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/fielddiff"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errBlocked = errors.New("projects: local field errors")

type editData struct {
	DialogID    string
	Form        models.Project
	Lists       []editList
	FieldErrors map[string]string
}

// editList is one list field shown as a textarea, one value per line.
type editList struct {
	Field string
	Label string
	Text  string
}

func newEditData(id string, form models.Project, errs map[string]string) editData {
	d := editData{DialogID: id, Form: form, FieldErrors: errs}
	for _, f := range arrayFields {
		d.Lists = append(d.Lists, editList{Field: f.name, Label: f.label, Text: strings.Join(f.get(form), "\n")})
	}
	return d
}

// splitLines turns textarea text into list values, dropping blank lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if v := strings.TrimSpace(line); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Fields returns the Edit Project fields.
func (h *Handler) Fields(sess api.Session, projectID string) []fielddiff.Field[models.Project] {
	set := func(field string) func(context.Context, []string) error {
		return func(ctx context.Context, vals []string) error {
			return h.Projects.Set(ctx, sess, projectID, field, vals)
		}
	}
	return []fielddiff.Field[models.Project]{
		fielddiff.Scalar("title", func(p models.Project) string { return strings.TrimSpace(p.Title) },
			func(ctx context.Context, v string) error { return h.Projects.EditTitle(ctx, sess, projectID, v) }),
		fielddiff.Scalar("description", func(p models.Project) string { return strings.TrimSpace(p.Description) },
			func(ctx context.Context, v string) error { return h.Projects.EditDescription(ctx, sess, projectID, v) }),
		fielddiff.Pair("size",
			func(p models.Project) int { return p.MinGroupSize },
			func(p models.Project) int { return p.MaxGroupSize },
			func(ctx context.Context, lo, hi int) error { return h.Projects.EditSize(ctx, sess, projectID, lo, hi) }),
		fielddiff.Strings(projectstore.Topics, func(p models.Project) []string { return p.Topics }, set(projectstore.Topics)),
		fielddiff.Strings(projectstore.Skills, func(p models.Project) []string { return p.Skills }, set(projectstore.Skills)),
		fielddiff.Strings(projectstore.Outcomes, func(p models.Project) []string { return p.Outcomes }, set(projectstore.Outcomes)),
	}
}

// ServeEditDialog opens the Edit Project dialog for its owner or an admin.
func (h *Handler) ServeEditDialog(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Projects.Get(ctx, u, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load project for edit failed", err, api.Message(err), "/projects")
		return
	}
	if !authz.CanEditProject(r, p) {
		uierrors.RenderForbidden(w, r, "You can only edit your own projects.", "/projects")
		return
	}

	d := h.EditDialogs.Open(u.ID, p)
	dialog.Announce(w, d)
	templates.RenderSnippet(w, "project_edit_dialog", newEditData(d.ID(), d.Pending(), nil))
}

// HandleEditConfirm sends one call per changed field, list fields as
// complete replacement arrays.
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
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects")
		return
	}

	if err := d.Edit(func(p *models.Project) {
		if r.PostForm.Has("title") {
			p.Title = r.PostForm.Get("title")
		}
		if r.PostForm.Has("description") {
			p.Description = r.PostForm.Get("description")
		}
		p.MinGroupSize = readSize(r, "min_group_size", p.MinGroupSize)
		p.MaxGroupSize = readSize(r, "max_group_size", p.MaxGroupSize)
		if r.PostForm.Has(projectstore.Topics) {
			p.Topics = splitLines(r.PostForm.Get(projectstore.Topics))
		}
		if r.PostForm.Has(projectstore.Skills) {
			p.Skills = splitLines(r.PostForm.Get(projectstore.Skills))
		}
		if r.PostForm.Has(projectstore.Outcomes) {
			p.Outcomes = splitLines(r.PostForm.Get(projectstore.Outcomes))
		}
	}); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	form := d.Pending()
	if errs := validateProject(strings.TrimSpace(form.Title), strings.TrimSpace(form.Description), form.MinGroupSize, form.MaxGroupSize); errs != nil {
		h.renderEditErrors(w, d.ID(), form, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var out fielddiff.Outcome
	fields := h.Fields(u, form.ID)
	err := d.Confirm(ctx, func(ctx context.Context, snap, pend models.Project) error {
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
		h.Log.Warn("project field save failed", zap.String("project", form.ID), zap.Error(out.Err()))
		for _, f := range out.Failures {
			toast.Push(w, r, toast.Error(api.Message(f.Err)))
		}
	}

	switch {
	case err == nil:
		if out.Saved {
			toast.Push(w, r, toast.Info("Project updated", strings.TrimSpace(form.Title)))
		}
		if !toast.IsHTMX(r) {
			http.Redirect(w, r, "/projects/"+form.ID, http.StatusSeeOther)
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

func (h *Handler) renderEditErrors(w http.ResponseWriter, id string, form models.Project, errs map[string]string) {
	toast.Trigger(w, FieldErrorsEvent, errs)
	templates.RenderSnippet(w, "project_edit_dialog", newEditData(id, form, errs))
}
