// internal/app/features/courses/list.go
package courses

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
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

type listData struct {
	viewdata.BaseVM

	Q       string
	Faculty string
	Page    paging.Page[models.Course]
	Loaded  bool
	LoadErr string
}

type detailData struct {
	viewdata.BaseVM

	Course models.Course
	About  string
}

// Fields is what catalogue search matches against.
func Fields(c models.Course) []string {
	return []string{c.Code, c.Title, c.Faculty, strings.Join(c.Skills, " ")}
}

// ServeList renders the catalogue filtered by search string and faculty.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := listData{
		BaseVM:  viewdata.NewBaseVM(r, "Courses", "/dashboard"),
		Q:       query.Get(r, "q"),
		Faculty: query.Get(r, "faculty"),
	}

	list := listview.New(Fields)
	if err := list.Load(ctx, func(ctx context.Context) ([]models.Course, error) { return h.Courses.All(ctx, u) }); err != nil {
		h.Log.Warn("load courses failed", zap.Error(err))
		data.LoadErr = api.Message(err)
	}

	visible := list.ApplyFilter(data.Q)
	if data.Faculty != "" {
		var kept []models.Course
		for _, c := range visible {
			if strings.EqualFold(c.Faculty, data.Faculty) {
				kept = append(kept, c)
			}
		}
		visible = kept
	}
	data.Page = paging.Slice(visible, paging.ParseStart(r))
	data.Loaded = list.Loaded()

	if r.Header.Get("HX-Target") == "courses-list" {
		templates.RenderSnippet(w, "courses_list", data)
		return
	}
	templates.Render(w, r, "courses_page", data)
}

// ServeCourse shows one course.
func (h *Handler) ServeCourse(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	code := strings.ToUpper(chi.URLParam(r, "code"))
	c, err := h.Courses.Get(ctx, u, code)
	if err != nil {
		var ae *api.Error
		if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
			uierrors.RenderNotFound(w, r, "Course not found.", httpnav.ResolveBackURL(r, "/courses"))
			return
		}
		h.ErrLog.LogBackendError(w, r, "load course failed", err, api.Message(err), "/courses")
		return
	}

	templates.Render(w, r, "course_detail", detailData{
		BaseVM: viewdata.NewBaseVM(r, c.Code, "/courses"),
		Course: c,
		About:  htmlsanitize.Sanitize(c.Description),
	})
}
