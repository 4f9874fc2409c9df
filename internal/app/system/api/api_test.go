package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"go.uber.org/zap"
)

type fakeSession struct {
	uid     string
	cookies []*http.Cookie
}

func (s fakeSession) UserID() string                 { return s.uid }
func (s fakeSession) BackendCookies() []*http.Cookie { return s.cookies }

func newClient(t *testing.T, h http.HandlerFunc) (*api.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL, srv.Client(), zap.NewNop())
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c, srv
}

func TestDo_SendsFixedHeadersAndCookies(t *testing.T) {
	var gotAccept, gotType, gotCookie, gotPath string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		if ck, err := r.Cookie("backend"); err == nil {
			gotCookie = ck.Value
		}
		w.Write([]byte(`{"ok":true}`))
	})

	sess := fakeSession{uid: "u1", cookies: []*http.Cookie{{Name: "backend", Value: "abc"}}}
	var out struct {
		OK bool `json:"ok"`
	}
	if _, err := c.Do(context.Background(), sess, api.Request{Method: http.MethodGet, Path: "user/profile"}, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}

	if gotAccept != "application/json" {
		t.Errorf("Accept: got %q", gotAccept)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type: got %q", gotType)
	}
	if gotCookie != "abc" {
		t.Errorf("cookie: got %q, want %q", gotCookie, "abc")
	}
	if gotPath != "/user/profile" {
		t.Errorf("path: got %q", gotPath)
	}
	if !out.OK {
		t.Error("expected body to be decoded")
	}
}

func TestDo_PutEncodesBody(t *testing.T) {
	var got map[string]string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method: got %s", r.Method)
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.WriteHeader(http.StatusNoContent)
	})

	body := map[string]string{"uId": "u1", "firstName": "Alexa"}
	if _, err := c.Do(context.Background(), api.Anonymous{}, api.Request{Method: http.MethodPut, Path: "/user/edit/name", Body: body}, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got["firstName"] != "Alexa" || got["uId"] != "u1" {
		t.Errorf("body: got %v", got)
	}
}

func TestDo_GetSendsQuery(t *testing.T) {
	var gotUID string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUID = r.URL.Query().Get("uId")
		w.Write([]byte(`{}`))
	})

	req := api.Request{Method: http.MethodGet, Path: "user/courses", Query: map[string][]string{"uId": {"u9"}}}
	if _, err := c.Do(context.Background(), nil, req, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotUID != "u9" {
		t.Errorf("uId: got %q", gotUID)
	}
}

func TestDo_Non2xxReturnsServerMessage(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Please enter a group name"}`))
	})

	_, err := c.Do(context.Background(), nil, api.Request{Method: http.MethodPost, Path: "group/create"}, nil)
	var ae *api.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if ae.Status != http.StatusBadRequest {
		t.Errorf("status: got %d", ae.Status)
	}
	if ae.Message != "Please enter a group name" {
		t.Errorf("message: got %q", ae.Message)
	}
	if api.Message(err) != "Please enter a group name" {
		t.Errorf("Message(): got %q", api.Message(err))
	}
}

func TestDo_Non2xxWithoutBodyFallsBackToStatusText(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Do(context.Background(), nil, api.Request{Method: http.MethodGet, Path: "courses"}, nil)
	var ae *api.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if ae.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("message: got %q", ae.Message)
	}
}

func TestDo_NoRetryOnFailure(t *testing.T) {
	var calls int32
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, _ = c.Do(context.Background(), nil, api.Request{Method: http.MethodGet, Path: "groups"}, nil)
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly 1 request, got %d", n)
	}
}

func TestDo_RejectsUnsupportedMethod(t *testing.T) {
	var calls int32
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := c.Do(context.Background(), nil, api.Request{Method: http.MethodPatch, Path: "x"}, nil)
	if !errors.Is(err, api.ErrMethod) {
		t.Errorf("expected ErrMethod, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("no request should be issued for an unsupported method")
	}
}

func TestDo_ReturnsBackendCookies(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s-1"})
		w.Write([]byte(`{"uId":"u1"}`))
	})

	resp, err := c.Do(context.Background(), nil, api.Request{Method: http.MethodPost, Path: "auth/login"}, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(resp.Cookies) != 1 || resp.Cookies[0].Value != "s-1" {
		t.Errorf("cookies: got %v", resp.Cookies)
	}
}

func TestFetch_DecodesTypedResult(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"role":"academic"}`))
	})

	got, err := api.Fetch[struct {
		Role string `json:"role"`
	}](context.Background(), c, nil, api.Request{Method: http.MethodGet, Path: "user/role"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Role != "academic" {
		t.Errorf("role: got %q", got.Role)
	}
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	if _, err := api.New("backend/api", nil, nil); err == nil {
		t.Error("expected error for relative base url")
	}
}

func TestSettle_WaitsForAllAndKeepsOrder(t *testing.T) {
	boom := errors.New("boom")
	var ran int32
	errs := api.Settle(context.Background(),
		func(context.Context) error { atomic.AddInt32(&ran, 1); return nil },
		func(context.Context) error { atomic.AddInt32(&ran, 1); return boom },
		func(context.Context) error { atomic.AddInt32(&ran, 1); return nil },
	)
	if atomic.LoadInt32(&ran) != 3 {
		t.Fatalf("expected all calls to run, ran %d", ran)
	}
	if errs[0] != nil || errs[2] != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
	if !errors.Is(errs[1], boom) {
		t.Errorf("errs[1]: got %v", errs[1])
	}
}
