package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/features/dashboard"
	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	recommendstore "github.com/dalemusser/skillmatch/internal/app/store/recommendations"
	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, fb *testutil.FakeBackend) *dashboard.Handler {
	t.Helper()
	client := fb.APIClient(t)
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-0123", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return dashboard.NewHandler(recommendstore.New(client), userstore.New(client), sm, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
}

func TestServeDashboard_LoadsAllSectionsDespiteFailure(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "recommend/groups", http.StatusInternalServerError, map[string]string{"error": "engine offline"})
	fb.On(http.MethodGet, "recommend/projects", http.StatusOK, map[string]any{"projects": []map[string]any{{"id": "p1", "title": "Robots"}}})
	fb.On(http.MethodGet, "user/role", http.StatusOK, map[string]string{"role": "student"})
	h := newTestHandler(t, fb)

	rec := httptest.NewRecorder()
	testutil.Serve(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", testutil.StudentUser()), h.ServeDashboard)

	for _, path := range []string{"recommend/groups", "recommend/projects", "user/role"} {
		if n := len(fb.CallsTo(http.MethodGet, path)); n != 1 {
			t.Errorf("%s called %d times, want 1", path, n)
		}
	}
}

func TestServeDashboard_RoleChangeUpdatesSession(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodGet, "user/role", http.StatusOK, map[string]string{"role": "academic"})
	h := newTestHandler(t, fb)

	// UpdateRole only rewrites an authenticated session, so sign in first.
	signIn := httptest.NewRecorder()
	u := testutil.StudentUser().SessionUser()
	if err := h.SessionMgr.SignIn(signIn, httptest.NewRequest(http.MethodGet, "/", nil), u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), testutil.StudentUser())
	for _, c := range signIn.Result().Cookies() {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	testutil.Serve(rec, req, h.ServeDashboard)

	if !strings.Contains(rec.Header().Get("Set-Cookie"), "test-session=") {
		t.Error("expected the session cookie to be rewritten with the new role")
	}
}
