// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type groupCard struct {
	models.Group
	Blurb string
}

type projectCard struct {
	models.Project
	Blurb string
}

type dashboardData struct {
	viewdata.BaseVM
	Groups      []groupCard
	Projects    []projectCard
	GroupsErr   string
	ProjectsErr string
	IsStudent   bool
	CanCreate   bool
}

// ServeDashboard loads the three dashboard sections concurrently. A failed
// section is reported on its own; the others still render.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		groups   []models.Group
		projects []models.Project
		role     string
	)
	errs := api.Settle(ctx,
		func(ctx context.Context) (err error) { groups, err = h.Recs.Groups(ctx, u); return },
		func(ctx context.Context) (err error) { projects, err = h.Recs.Projects(ctx, u); return },
		func(ctx context.Context) (err error) { role, err = h.Users.Role(ctx, u); return },
	)

	data := dashboardData{BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/")}

	if errs[2] == nil && role != "" && role != u.Role {
		if err := h.SessionMgr.UpdateRole(w, r, role); err != nil {
			h.Log.Warn("update session role failed", zap.Error(err))
		}
		u.Role = role
		data.Role = role
	} else if errs[2] != nil {
		h.Log.Warn("role refresh failed", zap.Error(errs[2]))
	}

	if errs[0] != nil {
		h.Log.Warn("recommended groups failed", zap.Error(errs[0]))
		data.GroupsErr = api.Message(errs[0])
		data.Toasts = append(data.Toasts, toast.Error(data.GroupsErr))
	}
	if errs[1] != nil {
		h.Log.Warn("recommended projects failed", zap.Error(errs[1]))
		data.ProjectsErr = api.Message(errs[1])
		data.Toasts = append(data.Toasts, toast.Error(data.ProjectsErr))
	}

	for _, g := range groups {
		data.Groups = append(data.Groups, groupCard{Group: g, Blurb: htmlsanitize.Sanitize(g.Description)})
	}
	for _, p := range projects {
		data.Projects = append(data.Projects, projectCard{Project: p, Blurb: htmlsanitize.Sanitize(p.Description)})
	}
	data.IsStudent = u.Role == models.RoleStudent
	data.CanCreate = u.Role == models.RoleAcademic || u.Role == models.RoleAdmin

	templates.Render(w, r, "dashboard", data)
}
