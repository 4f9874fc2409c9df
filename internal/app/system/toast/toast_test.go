package toast_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"go.uber.org/zap"
)

func newNotifier() *toast.Notifier {
	return toast.New([]byte("toast-test-hash-key-32-bytes-long!!"), false, zap.NewNop())
}

func triggers(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	raw := rec.Header().Get("HX-Trigger")
	if raw == "" {
		t.Fatal("missing HX-Trigger header")
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("HX-Trigger not JSON: %v (%s)", err, raw)
	}
	return m
}

func TestPush_HTMX_UsesTriggerHeader(t *testing.T) {
	n := newNotifier()
	req := httptest.NewRequest("POST", "/groups/create", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	n.Push(rec, req, toast.Error("Please enter a group name"))

	var batch struct {
		Toasts []toast.Toast `json:"toasts"`
	}
	if err := json.Unmarshal(triggers(t, rec)[toast.Event], &batch); err != nil {
		t.Fatalf("decode showToast: %v", err)
	}
	if len(batch.Toasts) != 1 {
		t.Fatalf("toasts = %v", batch.Toasts)
	}
	got := batch.Toasts[0]
	if got.Title != "Please enter a group name" || got.Variant != toast.Destructive {
		t.Errorf("toast = %+v", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("HTMX toast should not set a cookie")
	}
}

func TestPush_HTMX_MergesWithOtherEvents(t *testing.T) {
	n := newNotifier()
	req := httptest.NewRequest("POST", "/x", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	toast.Trigger(rec, "groups-refresh", nil)
	n.Push(rec, req, toast.Error("a"))
	n.Push(rec, req, toast.Error("b"))

	m := triggers(t, rec)
	if _, ok := m["groups-refresh"]; !ok {
		t.Error("refresh event lost")
	}
	var batch struct {
		Toasts []toast.Toast `json:"toasts"`
	}
	_ = json.Unmarshal(m[toast.Event], &batch)
	if len(batch.Toasts) != 2 || batch.Toasts[0].Title != "a" || batch.Toasts[1].Title != "b" {
		t.Errorf("toasts = %+v", batch.Toasts)
	}
}

func TestPush_FullPage_CarriedAcrossRedirect(t *testing.T) {
	n := newNotifier()
	req := httptest.NewRequest("POST", "/profile", nil)
	rec := httptest.NewRecorder()

	n.Push(rec, req, toast.Error("first"))
	n.Push(rec, req, toast.Info("Saved", "Profile updated"))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}

	var got []toast.Toast
	h := n.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = toast.FromContext(r)
	}))
	next := httptest.NewRequest("GET", "/profile", nil)
	next.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, next)

	if len(got) != 2 || got[0].Title != "first" || got[1].Variant != toast.Success {
		t.Errorf("toasts = %+v", got)
	}
	cleared := false
	for _, c := range rec2.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected toast cookie to be cleared")
	}
}

func TestMiddleware_TamperedCookieIgnored(t *testing.T) {
	n := newNotifier()
	var got []toast.Toast
	h := n.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = toast.FromContext(r)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "skillmatch-toast", Value: "forged"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if len(got) != 0 {
		t.Errorf("forged cookie produced toasts: %+v", got)
	}
}

func TestTrigger_PreservesBareEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("HX-Trigger", "closeDialog")
	toast.Trigger(rec, "projects-refresh", nil)
	m := triggers(t, rec)
	if _, ok := m["closeDialog"]; !ok {
		t.Error("bare event dropped")
	}
	if _, ok := m["projects-refresh"]; !ok {
		t.Error("new event missing")
	}
}
