// internal/app/features/projects/arrays.go
package projects

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	projectstore "github.com/dalemusser/skillmatch/internal/app/store/projects"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/fielddiff"
	"github.com/dalemusser/skillmatch/internal/app/system/inputval"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type arrayField struct {
	name  string
	label string
	get   func(models.Project) []string
}

var arrayFields = []arrayField{
	{projectstore.Topics, "Topics", func(p models.Project) []string { return p.Topics }},
	{projectstore.Skills, "Skills", func(p models.Project) []string { return p.Skills }},
	{projectstore.Outcomes, "Outcomes", func(p models.Project) []string { return p.Outcomes }},
}

func lookupArray(name string) (arrayField, bool) {
	for _, f := range arrayFields {
		if f.name == name {
			return f, true
		}
	}
	return arrayField{}, false
}

type arrayData struct {
	ProjectID string
	Field     string
	Label     string
	Values    []string
	CanEdit   bool
	Error     string
}

// HandleArrayEdit adds or removes one topic, skill or outcome and sends
// the complete resulting list straight away. An edit that leaves the list
// as it was sends nothing.
func (h *Handler) HandleArrayEdit(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	field, ok := lookupArray(chi.URLParam(r, "field"))
	if !ok {
		uierrors.RenderNotFound(w, r, "Unknown list.", "/projects")
		return
	}
	op, ok := fielddiff.ParseArrayOp(chi.URLParam(r, "op"))
	if !ok {
		uierrors.RenderNotFound(w, r, "Unknown action.", "/projects")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects")
		return
	}
	value := strings.TrimSpace(r.PostForm.Get("value"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.Get(ctx, u, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load project failed", err, api.Message(err), "/projects")
		return
	}
	if !authz.CanEditProject(r, p) {
		uierrors.RenderForbidden(w, r, "You can only edit your own projects.", "/projects")
		return
	}

	view := arrayData{ProjectID: p.ID, Field: field.name, Label: field.label, Values: field.get(p), CanEdit: true}
	if op == fielddiff.Add {
		if errs := inputval.Struct(inputval.Listing{Value: value}); errs != nil {
			view.Error = errs.First("value")
			toast.Trigger(w, FieldErrorsEvent, map[string]string{field.name: view.Error})
			templates.RenderSnippet(w, "project_array", view)
			return
		}
	}

	next, changed, err := fielddiff.SubmitArrayEdit(ctx, field.get(p), op, value, func(ctx context.Context, vals []string) error {
		return h.Projects.Set(ctx, u, p.ID, field.name, vals)
	})
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "set project "+field.name+" failed", err, api.Message(err), "/projects/"+p.ID)
		return
	}
	if !changed {
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	}

	if !toast.IsHTMX(r) {
		http.Redirect(w, r, "/projects/"+p.ID, http.StatusSeeOther)
		return
	}
	view.Values = next
	templates.RenderSnippet(w, "project_array", view)
}
