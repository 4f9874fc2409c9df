// internal/app/features/profile/addcourses.go
package profile

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/inputval"
	"github.com/dalemusser/skillmatch/internal/app/system/listview"
	"github.com/dalemusser/skillmatch/internal/app/system/paging"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// CourseSelection is the Add Course dialog state: the catalogue fetched
// when it opened and the courses picked so far.
type CourseSelection struct {
	Catalogue []models.Course
	Picked    []models.CompletedCourse
}

func cloneSelection(s CourseSelection) CourseSelection {
	return CourseSelection{Catalogue: slices.Clone(s.Catalogue), Picked: slices.Clone(s.Picked)}
}

const yearsShown = 10

// searchBox feeds the shared search_input partial.
type searchBox struct {
	Action      string
	Target      string
	Query       string
	QuietMS     int64
	Placeholder string
	Include     string
	PushURL     bool
}

type addCoursesData struct {
	DialogID    string
	Search      searchBox
	Page        paging.Page[models.Course]
	Picked      map[string]bool
	Held        []string // picked codes not on the current page
	Year        int
	Years       []int
	FieldErrors map[string]string
}

func courseFields(c models.Course) []string {
	return []string{c.Code, c.Title, c.Faculty}
}

func recentYears(now time.Time) []int {
	out := make([]int, yearsShown)
	for i := range out {
		out[i] = now.Year() - i
	}
	return out
}

func (h *Handler) addCoursesView(d *dialog.Dialog[CourseSelection], q string, start int, errs map[string]string) addCoursesData {
	sel := d.Pending()
	picked := make(map[string]bool, len(sel.Picked))
	year := time.Now().Year()
	for _, c := range sel.Picked {
		picked[c.Code] = true
		if c.Year > 0 {
			year = c.Year
		}
	}
	page := paging.SliceModal(listview.Filter(sel.Catalogue, courseFields, q), start)
	shown := make(map[string]bool, len(page.Rows))
	for _, c := range page.Rows {
		shown[c.Code] = true
	}
	var held []string
	for _, c := range sel.Picked {
		if !shown[c.Code] {
			held = append(held, c.Code)
		}
	}
	return addCoursesData{
		DialogID: d.ID(),
		Search: searchBox{
			Action:      "/profile/courses/add/" + d.ID() + "/search",
			Target:      "course-options",
			Query:       q,
			QuietMS:     viewdata.SearchQuiet().Milliseconds(),
			Placeholder: "Search courses",
			Include:     "closest form",
		},
		Page:        page,
		Picked:      picked,
		Held:        held,
		Year:        year,
		Years:       recentYears(time.Now()),
		FieldErrors: errs,
	}
}

// ServeAddCourses opens the Add Course dialog over the full catalogue.
func (h *Handler) ServeAddCourses(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list := listview.New(courseFields)
	if err := list.Load(ctx, func(ctx context.Context) ([]models.Course, error) {
		return h.Courses.All(ctx, u)
	}); err != nil {
		h.ErrLog.LogBackendError(w, r, "load course catalogue failed", err, api.Message(err), "/profile")
		return
	}

	d := h.CourseDialogs.Open(u.ID, CourseSelection{Catalogue: list.Items()})
	dialog.Announce(w, d)
	templates.RenderSnippet(w, "profile_add_courses", h.addCoursesView(d, "", 1, nil))
}

// ServeAddCoursesSearch filters and pages the dialog's catalogue. Nothing
// is fetched; the catalogue loaded when the dialog opened is searched. The
// request carries the whole dialog form, so the codes ticked so far become
// the dialog's picks before the options are redrawn.
func (h *Handler) ServeAddCoursesSearch(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	d, ok := h.CourseDialogs.Get(u.ID, chi.URLParam(r, "dialog"))
	if !ok {
		uierrors.RenderDialogGone(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	_, picked := parsePicked(r.Form)
	if err := d.Edit(func(s *CourseSelection) { s.Picked = picked }); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	templates.RenderSnippet(w, "profile_course_options", h.addCoursesView(d, query.Get(r, "q"), paging.ParseStart(r), nil))
}

// parsePicked reads the checked course codes and the completion year.
func parsePicked(form url.Values) ([]inputval.CourseSelection, []models.CompletedCourse) {
	year, _ := strconv.Atoi(strings.TrimSpace(form.Get("year")))
	var sel []inputval.CourseSelection
	var picked []models.CompletedCourse
	seen := map[string]bool{}
	for _, code := range form["code"] {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		sel = append(sel, inputval.CourseSelection{Code: code, Year: year})
		picked = append(picked, models.CompletedCourse{Code: code, Year: year})
	}
	return sel, picked
}

// HandleAddCoursesConfirm records every picked course with a single
// complete-multiple call, then closes the dialog and refreshes the
// completed courses list.
func (h *Handler) HandleAddCoursesConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	d, ok := h.CourseDialogs.Get(u.ID, chi.URLParam(r, "dialog"))
	if !ok {
		uierrors.RenderDialogGone(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	sel, picked := parsePicked(r.PostForm)
	if err := d.Edit(func(s *CourseSelection) { s.Picked = picked }); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	errs := inputval.Struct(inputval.AddCourses{Courses: sel})
	if len(sel) == 0 {
		errs = inputval.Errors{"courses": "Select at least one course."}
	}
	if errs != nil {
		toast.Trigger(w, FieldErrorsEvent, errs)
		templates.RenderSnippet(w, "profile_add_courses", h.addCoursesView(d, "", 1, errs))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := d.Confirm(ctx, func(ctx context.Context, _, pend CourseSelection) error {
		return h.Courses.CompleteMultiple(ctx, u, pend.Picked)
	}, h.CourseDialogs.Closer(w, u.ID, d.ID(), CoursesRefresh))
	if err != nil {
		if uierrors.RenderDialogError(w, r, err) {
			return
		}
		h.ErrLog.LogBackendError(w, r, "complete multiple courses failed", err, api.Message(err), "/profile")
		return
	}

	toast.Push(w, r, toast.Info("Courses added", strconv.Itoa(len(picked))+" course(s) recorded"))
	if !toast.IsHTMX(r) {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleAddCoursesCancel discards the selection and closes the dialog.
func (h *Handler) HandleAddCoursesCancel(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	id := chi.URLParam(r, "dialog")
	d, ok := h.CourseDialogs.Get(u.ID, id)
	if !ok {
		toast.Trigger(w, dialog.CloseEvent, nil)
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := d.Cancel(h.CourseDialogs.Closer(w, u.ID, id, CoursesRefresh)); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
