package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// StudentUser returns a TestUser with the student role.
func StudentUser() TestUser {
	return TestUser{ID: "u-student", Name: "Alex Kim", Email: "alex@uni.test", Role: "student"}
}

// AcademicUser returns a TestUser with the academic role.
func AcademicUser() TestUser {
	return TestUser{ID: "u-academic", Name: "Dr Sam Lee", Email: "sam@uni.test", Role: "academic"}
}

// AdminUser returns a TestUser with the admin role.
func AdminUser() TestUser {
	return TestUser{ID: "u-admin", Name: "Test Admin", Email: "admin@uni.test", Role: "admin"}
}

// SessionUser converts u to the value the session middleware would inject.
func (u TestUser) SessionUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		BackendCookie: "sid=" + u.ID,
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, user.SessionUser())
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// NewFormRequest creates a POST with an url-encoded form body and a user
// in context.
func NewFormRequest(target string, form url.Values, user TestUser) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return WithUser(req, user)
}

// HTMX marks r as an htmx request.
func HTMX(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	if location := r.Header().Get("Location"); location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// Serve runs h and swallows a panic from the template engine, which is
// not booted in handler tests. Assert on headers and backend calls.
func Serve(w http.ResponseWriter, r *http.Request, h http.HandlerFunc) {
	defer func() { _ = recover() }()
	h(w, r)
}

// Triggers decodes the HX-Trigger header into event name and detail.
func Triggers(h http.Header) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	raw := h.Get("HX-Trigger")
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		out[raw] = nil
	}
	return out
}

// ToastTitles returns the titles of the toasts in an HX-Trigger header.
func ToastTitles(h http.Header) []string {
	var batch struct {
		Toasts []struct {
			Title string `json:"title"`
		} `json:"toasts"`
	}
	if raw, ok := Triggers(h)["showToast"]; ok {
		_ = json.Unmarshal(raw, &batch)
	}
	out := make([]string, 0, len(batch.Toasts))
	for _, t := range batch.Toasts {
		out = append(out, t.Title)
	}
	return out
}

// OpenedDialogID returns the id announced by a dialog-opening response.
func OpenedDialogID(h http.Header) string {
	var d struct {
		ID string `json:"id"`
	}
	if raw, ok := Triggers(h)["dialogOpened"]; ok {
		_ = json.Unmarshal(raw, &d)
	}
	return d.ID
}
