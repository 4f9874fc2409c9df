// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

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

// profileData is the view model for the profile page.
type profileData struct {
	viewdata.BaseVM

	User       models.User
	About      string
	ProfileErr string

	Completed  []models.CompletedCourse
	CoursesErr string
}

type coursesData struct {
	Completed  []models.CompletedCourse
	CoursesErr string
}

// ServeProfile renders the profile and completed courses, fetched
// concurrently. Either section can fail on its own.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var (
		user      models.User
		completed []models.CompletedCourse
	)
	errs := api.Settle(ctx,
		func(ctx context.Context) (err error) { user, err = h.Users.Profile(ctx, u); return },
		func(ctx context.Context) (err error) { completed, err = h.Courses.Completed(ctx, u); return },
	)

	data := profileData{BaseVM: viewdata.NewBaseVM(r, "Profile", "/dashboard")}
	if errs[0] != nil {
		h.Log.Warn("load profile failed", zap.String("uid", u.ID), zap.Error(errs[0]))
		data.ProfileErr = api.Message(errs[0])
		data.Toasts = append(data.Toasts, toast.Error(data.ProfileErr))
	} else {
		data.User = user
		data.About = htmlsanitize.Sanitize(user.Description)
	}
	if errs[1] != nil {
		h.Log.Warn("load completed courses failed", zap.String("uid", u.ID), zap.Error(errs[1]))
		data.CoursesErr = api.Message(errs[1])
		data.Toasts = append(data.Toasts, toast.Error(data.CoursesErr))
	} else {
		data.Completed = sortCompleted(completed)
	}

	templates.Render(w, r, "profile_page", data)
}

// ServeCompletedCourses re-renders the completed courses section. The
// section reloads itself on the courses-refresh event.
func (h *Handler) ServeCompletedCourses(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	completed, err := h.Courses.Completed(ctx, u)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load completed courses failed", err, api.Message(err), "/profile")
		return
	}
	templates.RenderSnippet(w, "profile_courses", coursesData{Completed: sortCompleted(completed)})
}

// HandleRemoveCourse drops one completed-course record.
func (h *Handler) HandleRemoveCourse(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))
	year, err := strconv.Atoi(r.FormValue("year"))
	if code == "" || err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad course removal", err, "Choose a course to remove.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Courses.RemoveCompleted(ctx, u, code, year); err != nil {
		h.ErrLog.LogBackendError(w, r, "remove completed course failed", err, api.Message(err), "/profile")
		return
	}

	toast.Push(w, r, toast.Info("Course removed", code))
	if toast.IsHTMX(r) {
		toast.Trigger(w, CoursesRefresh, nil)
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// sortCompleted orders by most recent year, then code.
func sortCompleted(cs []models.CompletedCourse) []models.CompletedCourse {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Year != cs[j].Year {
			return cs[i].Year > cs[j].Year
		}
		return cs[i].Code < cs[j].Code
	})
	return cs
}
