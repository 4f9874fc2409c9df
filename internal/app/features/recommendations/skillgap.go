// internal/app/features/recommendations/skillgap.go
package recommendations

import (
	"context"
	"errors"
	"net/http"
	"sort"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type skillGapData struct {
	viewdata.BaseVM

	Project models.Project
	Gaps    []models.SkillGap
	GapsErr string
	// Ready is true when the user already has every skill the project asks for.
	Ready bool
}

// ServeSkillGap handles GET /recommendations/{projectID}. The project and
// the user's gaps load concurrently; a failed gap lookup is shown in place
// while the project still renders.
func (h *Handler) ServeSkillGap(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	projectID := chi.URLParam(r, "projectID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		project models.Project
		gaps    []models.SkillGap
	)
	errs := api.Settle(ctx,
		func(ctx context.Context) (err error) { project, err = h.Projects.Get(ctx, u, projectID); return },
		func(ctx context.Context) (err error) { gaps, err = h.Recs.SkillGap(ctx, u, projectID); return },
	)
	if err := errs[0]; err != nil {
		var ae *api.Error
		if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
			uierrors.RenderNotFound(w, r, "Project not found.", httpnav.ResolveBackURL(r, "/projects"))
			return
		}
		h.ErrLog.LogBackendError(w, r, "load project failed", err, api.Message(err), "/projects")
		return
	}

	data := skillGapData{
		BaseVM:  viewdata.NewBaseVM(r, "Skills for "+project.Title, "/projects/"+project.ID),
		Project: project,
	}
	if err := errs[1]; err != nil {
		h.Log.Warn("skill gap lookup failed", zap.String("project", projectID), zap.Error(err))
		data.GapsErr = api.Message(err)
	} else {
		sort.SliceStable(gaps, func(i, j int) bool { return len(gaps[i].Courses) > len(gaps[j].Courses) })
		data.Gaps = gaps
		data.Ready = len(gaps) == 0
	}

	templates.Render(w, r, "skill_gap", data)
}
