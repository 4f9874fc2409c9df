package profile_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/features/profile"
	coursestore "github.com/dalemusser/skillmatch/internal/app/store/courses"
	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/fielddiff"
	"github.com/dalemusser/skillmatch/internal/app/system/imageprobe"
	"github.com/dalemusser/skillmatch/internal/testutil"
	"go.uber.org/zap"
)

var alex = map[string]any{
	"user": map[string]any{
		"id":          "u-student",
		"email":       "alex@uni.test",
		"firstName":   "Alex",
		"lastName":    "Kim",
		"school":      "Engineering",
		"degree":      "BE",
		"phone":       "0400 000 000",
		"description": "Robotics",
		"avatar":      map[string]any{"url": "https://img.test/alex.png", "width": 64, "height": 64},
	},
}

// unchangedForm is Alex's profile as the dialog posts it back.
func unchangedForm() url.Values {
	return url.Values{
		"first_name":  {"Alex"},
		"last_name":   {"Kim"},
		"school":      {"Engineering"},
		"degree":      {"BE"},
		"phone":       {"0400 000 000"},
		"description": {"Robotics"},
		"avatar_url":  {"https://img.test/alex.png"},
		"cover_url":   {""},
	}
}

func notAnImage(context.Context, string) (imageprobe.Dimensions, error) {
	return imageprobe.Dimensions{}, imageprobe.ErrNotImage
}

func newTestHandler(t *testing.T, fb *testutil.FakeBackend, prober imageprobe.Prober) *profile.Handler {
	t.Helper()
	if prober == nil {
		prober = imageprobe.ProbeFunc(func(context.Context, string) (imageprobe.Dimensions, error) {
			return imageprobe.Dimensions{Width: 320, Height: 200}, nil
		})
	}
	client := fb.APIClient(t)
	h := profile.NewHandler(userstore.New(client), coursestore.New(client), prober, time.Minute,
		uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	t.Cleanup(h.Stop)
	return h
}

func openDialog(t *testing.T, target string, serve http.HandlerFunc) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := testutil.HTMX(testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.StudentUser()))
	testutil.Serve(rec, req, serve)
	id := testutil.OpenedDialogID(rec.Header())
	if id == "" {
		t.Fatalf("GET %s announced no dialog (status %d)", target, rec.Code)
	}
	return id
}

func post(target, id string, form url.Values, serve http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := testutil.HTMX(testutil.NewFormRequest(target, form, testutil.StudentUser()))
	req = testutil.WithChiURLParam(req, "dialog", id)
	testutil.Serve(rec, req, serve)
	return rec
}

func hasEvent(h http.Header, ev string) bool {
	_, ok := testutil.Triggers(h)[ev]
	return ok
}

func fieldErrors(t *testing.T, h http.Header) map[string]string {
	t.Helper()
	out := map[string]string{}
	if raw, ok := testutil.Triggers(h)[profile.FieldErrorsEvent]; ok {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode field errors: %v", err)
		}
	}
	return out
}

func TestAddCourses_OneCallThenCloseAndRefresh(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "courses", http.StatusOK, map[string]any{"courses": []map[string]any{
		{"code": "COMP1511", "title": "Programming Fundamentals"},
		{"code": "MATH1131", "title": "Mathematics 1A"},
		{"code": "PHYS1121", "title": "Physics 1A"},
	}})
	h := newTestHandler(t, fb, nil)

	id := openDialog(t, "/profile/courses/add", h.ServeAddCourses)
	form := url.Values{"code": {"COMP1511", "MATH1131"}, "year": {"2023"}}
	rec := post("/profile/courses/add/"+id, id, form, h.HandleAddCoursesConfirm)

	calls := fb.CallsTo(http.MethodPost, "course/complete/multiple")
	if len(calls) != 1 {
		t.Fatalf("completeMultipleCourse calls: got %d, want 1", len(calls))
	}
	if n := len(fb.Writes()); n != 1 {
		t.Errorf("write calls: got %d, want 1", n)
	}
	if calls[0].Body["uId"] != "u-student" {
		t.Errorf("uId: got %v", calls[0].Body["uId"])
	}
	courses, _ := calls[0].Body["courses"].([]any)
	if len(courses) != 2 {
		t.Fatalf("courses in body: got %d, want 2", len(courses))
	}
	for i, want := range []string{"COMP1511", "MATH1131"} {
		c, _ := courses[i].(map[string]any)
		if c["code"] != want || c["year"] != float64(2023) {
			t.Errorf("course %d: got %v", i, c)
		}
	}

	if !hasEvent(rec.Header(), dialog.CloseEvent) {
		t.Error("dialog was not closed")
	}
	if !hasEvent(rec.Header(), profile.CoursesRefresh) {
		t.Error("completed courses were not refreshed")
	}
	if _, ok := h.CourseDialogs.Get("u-student", id); ok {
		t.Error("closed dialog still registered")
	}
}

func TestAddCourses_SearchKeepsTickedCourses(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "courses", http.StatusOK, map[string]any{"courses": []map[string]any{
		{"code": "COMP1511", "title": "Programming Fundamentals"},
		{"code": "MATH1131", "title": "Mathematics 1A"},
	}})
	h := newTestHandler(t, fb, nil)
	id := openDialog(t, "/profile/courses/add", h.ServeAddCourses)

	// COMP1511 ticked, then the user searches for MATH.
	search := url.Values{"q": {"MATH"}, "code": {"COMP1511"}, "year": {"2023"}}
	rec := httptest.NewRecorder()
	req := testutil.HTMX(testutil.NewAuthenticatedRequest(http.MethodGet,
		"/profile/courses/add/"+id+"/search?"+search.Encode(), testutil.StudentUser()))
	testutil.Serve(rec, testutil.WithChiURLParam(req, "dialog", id), h.ServeAddCoursesSearch)

	d, ok := h.CourseDialogs.Get("u-student", id)
	if !ok {
		t.Fatal("dialog closed by search")
	}
	if picked := d.Pending().Picked; len(picked) != 1 || picked[0].Code != "COMP1511" {
		t.Fatalf("picks after search: %v", picked)
	}
	if n := len(fb.CallsTo(http.MethodGet, "courses")); n != 1 {
		t.Errorf("search refetched the catalogue: %d loads", n)
	}

	// The held COMP1511 and the newly ticked MATH1131 are both posted.
	post("/profile/courses/add/"+id, id, url.Values{"code": {"COMP1511", "MATH1131"}, "year": {"2023"}}, h.HandleAddCoursesConfirm)

	calls := fb.CallsTo(http.MethodPost, "course/complete/multiple")
	if len(calls) != 1 {
		t.Fatalf("completeMultipleCourse calls: got %d, want 1", len(calls))
	}
	courses, _ := calls[0].Body["courses"].([]any)
	if len(courses) != 2 {
		t.Fatalf("courses in body: got %d, want 2", len(courses))
	}
}

func TestAddCourses_BackendErrorKeepsDialogOpen(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "courses", http.StatusOK, map[string]any{"courses": []map[string]any{{"code": "COMP1511"}}})
	fb.On(http.MethodPost, "course/complete/multiple", http.StatusBadRequest, map[string]string{"error": "Course already completed"})
	h := newTestHandler(t, fb, nil)

	id := openDialog(t, "/profile/courses/add", h.ServeAddCourses)
	rec := post("/profile/courses/add/"+id, id, url.Values{"code": {"COMP1511"}, "year": {"2023"}}, h.HandleAddCoursesConfirm)

	if got := testutil.ToastTitles(rec.Header()); len(got) != 1 || got[0] != "Course already completed" {
		t.Errorf("toasts: got %v", got)
	}
	if hasEvent(rec.Header(), profile.CoursesRefresh) || hasEvent(rec.Header(), dialog.CloseEvent) {
		t.Error("failed submission must not close or refresh")
	}
	d, ok := h.CourseDialogs.Get("u-student", id)
	if !ok || d.State() != dialog.Open {
		t.Fatal("dialog should stay open after a failure")
	}
	if picked := d.Pending().Picked; len(picked) != 1 || picked[0].Code != "COMP1511" {
		t.Errorf("selection not kept: %v", picked)
	}
}

func TestAddCourses_NothingPickedSendsNothing(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	h := newTestHandler(t, fb, nil)

	id := openDialog(t, "/profile/courses/add", h.ServeAddCourses)
	rec := post("/profile/courses/add/"+id, id, url.Values{"year": {"2023"}}, h.HandleAddCoursesConfirm)

	if n := len(fb.Writes()); n != 0 {
		t.Errorf("write calls: got %d, want 0", n)
	}
	if fieldErrors(t, rec.Header())["courses"] == "" {
		t.Error("expected an inline error for the empty selection")
	}
}

func TestEditField_FirstNameSendsOnlyEditName(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "user/profile", http.StatusOK, alex)
	h := newTestHandler(t, fb, nil)

	id := openDialog(t, "/profile/edit", h.ServeEditDialog)
	form := unchangedForm()
	form.Set("first_name", "Alexa")
	form.Set("field", "first_name")
	rec := post("/profile/edit/"+id+"/field", id, form, h.HandleEditField)

	writes := fb.Writes()
	if len(writes) != 1 {
		t.Fatalf("write calls: got %d (%v), want 1", len(writes), writes)
	}
	c := writes[0]
	if c.Method != http.MethodPut || c.Path != "user/edit/name" {
		t.Fatalf("call: got %s %s, want PUT user/edit/name", c.Method, c.Path)
	}
	if c.Body["uId"] != "u-student" || c.Body["firstName"] != "Alexa" || c.Body["lastName"] != "Kim" {
		t.Errorf("editName body: got %v", c.Body)
	}
	if !hasEvent(rec.Header(), profile.ProfileRefresh) {
		t.Error("profile not refreshed after save")
	}

	// The saved name is now the baseline; confirming sends nothing more.
	fb.Reset()
	form.Del("field")
	rec = post("/profile/edit/"+id, id, form, h.HandleEditConfirm)
	if n := len(fb.Writes()); n != 0 {
		t.Errorf("confirm after blur save sent %d calls", n)
	}
	if !hasEvent(rec.Header(), dialog.CloseEvent) {
		t.Error("dialog was not closed")
	}
}

func TestEditField_PartialPostKeepsOtherEdits(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "user/profile", http.StatusOK, alex)
	h := newTestHandler(t, fb, nil)

	id := openDialog(t, "/profile/edit", h.ServeEditDialog)
	form := unchangedForm()
	form.Set("degree", "PhD")
	form.Set("field", "first_name")
	post("/profile/edit/"+id+"/field", id, form, h.HandleEditField)

	// A post carrying only the blurred input must not erase the degree edit.
	post("/profile/edit/"+id+"/field", id, url.Values{"first_name": {"Alexa"}, "field": {"first_name"}}, h.HandleEditField)

	d, ok := h.EditDialogs.Get("u-student", id)
	if !ok {
		t.Fatal("dialog closed")
	}
	p := d.Pending()
	if p.Degree != "PhD" || p.School != "Engineering" || p.FirstName != "Alexa" {
		t.Errorf("pending edits: degree %q school %q first %q", p.Degree, p.School, p.FirstName)
	}
	if n := len(fb.CallsTo(http.MethodPut, "user/edit/degree")); n != 0 {
		t.Errorf("degree sent %d times before its own save", n)
	}
}

func TestEditField_NonImageAvatarIsNotSent(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "user/profile", http.StatusOK, alex)
	h := newTestHandler(t, fb, imageprobe.ProbeFunc(notAnImage))

	id := openDialog(t, "/profile/edit", h.ServeEditDialog)
	form := unchangedForm()
	form.Set("avatar_url", "https://example.test/about.html")
	form.Set("field", "avatar_url")
	rec := post("/profile/edit/"+id+"/field", id, form, h.HandleEditField)

	if n := len(fb.CallsTo(http.MethodPut, "user/edit/avatar")); n != 0 {
		t.Errorf("editAvatar called %d times", n)
	}
	if got := fieldErrors(t, rec.Header())["avatar"]; got != fielddiff.InvalidImageURL {
		t.Errorf("avatar error: got %q, want %q", got, fielddiff.InvalidImageURL)
	}
	d, ok := h.EditDialogs.Get("u-student", id)
	if !ok || d.State() != dialog.Open {
		t.Fatal("dialog should stay open")
	}
	if got := d.Snapshot().Avatar.URL; got != "https://img.test/alex.png" {
		t.Errorf("previous avatar should stay in effect, got %q", got)
	}
}

func TestEditConfirm_BadAvatarBlocksEveryField(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "user/profile", http.StatusOK, alex)
	h := newTestHandler(t, fb, imageprobe.ProbeFunc(notAnImage))

	id := openDialog(t, "/profile/edit", h.ServeEditDialog)
	form := unchangedForm()
	form.Set("school", "Science")
	form.Set("avatar_url", "https://example.test/about.html")
	rec := post("/profile/edit/"+id, id, form, h.HandleEditConfirm)

	if n := len(fb.Writes()); n != 0 {
		t.Errorf("write calls: got %d, want 0", n)
	}
	if fieldErrors(t, rec.Header())["avatar"] != fielddiff.InvalidImageURL {
		t.Error("expected the avatar field error")
	}
	if hasEvent(rec.Header(), dialog.CloseEvent) {
		t.Error("blocked submission must not close the dialog")
	}
}

func TestEditConfirm_UnchangedFormSendsNothing(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "user/profile", http.StatusOK, alex)
	h := newTestHandler(t, fb, nil)

	id := openDialog(t, "/profile/edit", h.ServeEditDialog)
	rec := post("/profile/edit/"+id, id, unchangedForm(), h.HandleEditConfirm)

	if n := len(fb.Writes()); n != 0 {
		t.Errorf("write calls: got %d, want 0", n)
	}
	if !hasEvent(rec.Header(), dialog.CloseEvent) || !hasEvent(rec.Header(), profile.ProfileRefresh) {
		t.Error("unchanged confirm should close and refresh")
	}
}

func TestEditConfirm_ChangedFieldsSentConcurrently(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "user/profile", http.StatusOK, alex)
	h := newTestHandler(t, fb, nil)

	id := openDialog(t, "/profile/edit", h.ServeEditDialog)
	form := unchangedForm()
	form.Set("degree", "BSc")
	form.Set("cover_url", "https://img.test/cover.jpg")
	post("/profile/edit/"+id, id, form, h.HandleEditConfirm)

	if n := len(fb.Writes()); n != 2 {
		t.Fatalf("write calls: got %d, want 2", n)
	}
	cover := fb.CallsTo(http.MethodPut, "user/edit/cover")
	if len(cover) != 1 {
		t.Fatal("cover photo not sent")
	}
	img, _ := cover[0].Body["coverPhoto"].(map[string]any)
	if img["url"] != "https://img.test/cover.jpg" || img["width"] != float64(320) || img["topLeftX"] != float64(0) {
		t.Errorf("cover body: got %v", img)
	}
	if len(fb.CallsTo(http.MethodPut, "user/edit/degree")) != 1 {
		t.Error("degree not sent")
	}
}

func TestEditConfirm_AllFailedKeepsEdits(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "user/profile", http.StatusOK, alex)
	fb.On(http.MethodPut, "user/edit/school", http.StatusBadRequest, map[string]string{"error": "Unknown school"})
	h := newTestHandler(t, fb, nil)

	id := openDialog(t, "/profile/edit", h.ServeEditDialog)
	form := unchangedForm()
	form.Set("school", "Hogwarts")
	rec := post("/profile/edit/"+id, id, form, h.HandleEditConfirm)

	if got := testutil.ToastTitles(rec.Header()); len(got) != 1 || got[0] != "Unknown school" {
		t.Errorf("toasts: got %v", got)
	}
	if hasEvent(rec.Header(), profile.ProfileRefresh) {
		t.Error("nothing saved, so no refresh")
	}
	d, ok := h.EditDialogs.Get("u-student", id)
	if !ok || d.State() != dialog.Open || d.Pending().School != "Hogwarts" {
		t.Error("dialog should stay open with the edit kept")
	}
}

func TestEditCancel_DiscardsAndCloses(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "user/profile", http.StatusOK, alex)
	h := newTestHandler(t, fb, nil)

	id := openDialog(t, "/profile/edit", h.ServeEditDialog)
	rec := post("/profile/edit/"+id+"/cancel", id, url.Values{}, h.HandleEditCancel)

	if !hasEvent(rec.Header(), dialog.CloseEvent) {
		t.Error("dialog was not closed")
	}
	if _, ok := h.EditDialogs.Get("u-student", id); ok {
		t.Error("cancelled dialog still registered")
	}
	if n := len(fb.Writes()); n != 0 {
		t.Errorf("cancel sent %d calls", n)
	}
}

func TestHandleRemoveCourse(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	h := newTestHandler(t, fb, nil)

	rec := post("/profile/courses/remove", "", url.Values{"code": {"COMP1511"}, "year": {"2023"}}, h.HandleRemoveCourse)

	calls := fb.CallsTo(http.MethodDelete, "course/complete")
	if len(calls) != 1 {
		t.Fatalf("remove calls: got %d, want 1", len(calls))
	}
	if q := calls[0].Query; q.Get("code") != "COMP1511" || q.Get("year") != "2023" || q.Get("uId") != "u-student" {
		t.Errorf("query: got %v", q)
	}
	if !hasEvent(rec.Header(), profile.CoursesRefresh) {
		t.Error("list not refreshed")
	}
}
