// internal/app/features/projects/list.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skillmatch/internal/app/system/listview"
	"github.com/dalemusser/skillmatch/internal/app/system/paging"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type projectRow struct {
	models.Project
	Blurb   string
	CanEdit bool
}

type listData struct {
	viewdata.BaseVM

	Q         string
	Mine      bool
	Page      paging.Page[projectRow]
	Loaded    bool
	LoadErr   string
	CanCreate bool
}

type detailData struct {
	viewdata.BaseVM

	Project   models.Project
	About     string
	CanEdit   bool
	IsStudent bool
	Arrays    []arrayData
}

// Fields is what project search matches against.
func Fields(p models.Project) []string {
	return []string{p.Title, p.Description, strings.Join(p.Topics, " "), strings.Join(p.Skills, " ")}
}

// ServeList renders every project, or only the caller's with ?mine=1.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := listData{
		BaseVM:    viewdata.NewBaseVM(r, "Projects", "/dashboard"),
		Q:         query.Get(r, "q"),
		Mine:      query.Get(r, "mine") == "1",
		CanCreate: authz.CanCreateProject(r),
	}

	list := listview.New(Fields)
	if err := list.Load(ctx, func(ctx context.Context) ([]models.Project, error) { return h.Projects.All(ctx, u) }); err != nil {
		h.Log.Warn("load projects failed", zap.Error(err))
		data.LoadErr = api.Message(err)
	}

	var rows []projectRow
	for _, p := range list.ApplyFilter(data.Q) {
		if data.Mine && p.OwnerID != u.ID {
			continue
		}
		rows = append(rows, projectRow{Project: p, Blurb: htmlsanitize.Sanitize(p.Description), CanEdit: authz.CanEditProject(r, p)})
	}
	data.Page = paging.Slice(rows, paging.ParseStart(r))
	data.Loaded = list.Loaded()

	if r.Header.Get("HX-Target") == "projects-list" {
		templates.RenderSnippet(w, "projects_list", data)
		return
	}
	templates.Render(w, r, "projects_page", data)
}

// ServeProject renders one project with its topic, skill and outcome lists.
func (h *Handler) ServeProject(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Projects.Get(ctx, u, chi.URLParam(r, "id"))
	if err != nil {
		var ae *api.Error
		if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
			uierrors.RenderNotFound(w, r, "Project not found.", httpnav.ResolveBackURL(r, "/projects"))
			return
		}
		h.ErrLog.LogBackendError(w, r, "load project failed", err, api.Message(err), "/projects")
		return
	}

	canEdit := authz.CanEditProject(r, p)
	data := detailData{
		BaseVM:    viewdata.NewBaseVM(r, p.Title, "/projects"),
		Project:   p,
		About:     htmlsanitize.Sanitize(p.Description),
		CanEdit:   canEdit,
		IsStudent: authz.IsStudent(r),
	}
	for _, f := range arrayFields {
		data.Arrays = append(data.Arrays, arrayData{ProjectID: p.ID, Field: f.name, Label: f.label, Values: f.get(p), CanEdit: canEdit})
	}
	if r.Header.Get("HX-Target") == "project-detail" {
		templates.RenderSnippet(w, "project_detail_body", data)
		return
	}
	templates.Render(w, r, "project_detail", data)
}
