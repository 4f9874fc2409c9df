// internal/app/features/projects/create.go
package projects

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	projectstore "github.com/dalemusser/skillmatch/internal/app/store/projects"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/inputval"
	"github.com/dalemusser/skillmatch/internal/app/system/navigation"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type createData struct {
	DialogID    string
	Form        projectstore.NewProject
	FieldErrors map[string]string
}

func readSize(r *http.Request, key string, cur int) int {
	if !r.PostForm.Has(key) {
		return cur
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get(key)))
	if err != nil {
		return 0
	}
	return n
}

func validateProject(title, desc string, lo, hi int) map[string]string {
	errs := inputval.Struct(inputval.Project{Title: title, Description: desc, MinGroupSize: lo, MaxGroupSize: hi})
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ServeCreateDialog opens the Create Project dialog for academics and
// admins.
func (h *Handler) ServeCreateDialog(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if !authz.CanCreateProject(r) {
		uierrors.RenderForbidden(w, r, "Only academics can publish projects.", "/projects")
		return
	}
	d := h.CreateDialogs.Open(u.ID, projectstore.NewProject{MinGroupSize: 2, MaxGroupSize: 5})
	dialog.Announce(w, d)
	templates.RenderSnippet(w, "project_create_dialog", createData{DialogID: d.ID(), Form: d.Pending()})
}

// HandleCreateConfirm creates the project, then closes the dialog and
// refreshes the list.
func (h *Handler) HandleCreateConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if !authz.CanCreateProject(r) {
		uierrors.RenderForbidden(w, r, "Only academics can publish projects.", "/projects")
		return
	}
	d, ok := h.CreateDialogs.Get(u.ID, chi.URLParam(r, "dialog"))
	if !ok {
		uierrors.RenderDialogGone(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects")
		return
	}

	if err := d.Edit(func(p *projectstore.NewProject) {
		p.Title = strings.TrimSpace(r.PostForm.Get("title"))
		p.Description = strings.TrimSpace(r.PostForm.Get("description"))
		p.MinGroupSize = readSize(r, "min_group_size", p.MinGroupSize)
		p.MaxGroupSize = readSize(r, "max_group_size", p.MaxGroupSize)
	}); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	form := d.Pending()
	if errs := validateProject(form.Title, form.Description, form.MinGroupSize, form.MaxGroupSize); errs != nil {
		toast.Trigger(w, FieldErrorsEvent, errs)
		templates.RenderSnippet(w, "project_create_dialog", createData{DialogID: d.ID(), Form: form, FieldErrors: errs})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := d.Confirm(ctx, func(ctx context.Context, _, pend projectstore.NewProject) error {
		return h.Projects.Create(ctx, u, pend)
	}, h.CreateDialogs.Closer(w, u.ID, d.ID(), Refresh))
	if err != nil {
		if uierrors.RenderDialogError(w, r, err) {
			return
		}
		h.ErrLog.LogBackendError(w, r, "create project failed", err, api.Message(err), "/projects")
		return
	}

	h.AuditLog.ProjectCreated(ctx, r, u.ID, form.Title)
	toast.Push(w, r, toast.Info("Project created", form.Title))
	if !toast.IsHTMX(r) {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.ProjectsBackURL), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleCreateCancel discards the dialog.
func (h *Handler) HandleCreateCancel(w http.ResponseWriter, r *http.Request) {
	cancelDialog(w, r, h.CreateDialogs, Refresh)
}

func cancelDialog[T any](w http.ResponseWriter, r *http.Request, reg *dialog.Registry[T], refresh ...string) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	id := chi.URLParam(r, "dialog")
	d, ok := reg.Get(u.ID, id)
	if !ok {
		toast.Trigger(w, dialog.CloseEvent, nil)
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := d.Cancel(reg.Closer(w, u.ID, id, refresh...)); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
