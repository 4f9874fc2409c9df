package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"go.uber.org/zap"
)

// Call is one request received by a FakeBackend.
type Call struct {
	Method string
	Path   string // without leading slash, e.g. "user/edit/name"
	Query  url.Values
	Body   map[string]any
	Raw    []byte
	Cookie string
}

// Responder produces the status and JSON body for a call.
type Responder func(c Call) (status int, body any)

// FakeBackend is an httptest server standing in for the REST backend.
// Unregistered routes answer 200 with {}.
type FakeBackend struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []Call
	routes map[string]Responder
}

// NewFakeBackend starts a fake backend closed at test cleanup.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{routes: map[string]Responder{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func routeKey(method, path string) string {
	return method + " " + strings.Trim(path, "/")
}

// On answers method+path with a fixed status and body.
func (f *FakeBackend) On(method, path string, status int, body any) {
	f.Handle(method, path, func(Call) (int, any) { return status, body })
}

// Handle answers method+path with fn.
func (f *FakeBackend) Handle(method, path string, fn Responder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[routeKey(method, path)] = fn
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	c := Call{
		Method: r.Method,
		Path:   strings.Trim(r.URL.Path, "/"),
		Query:  r.URL.Query(),
		Raw:    raw,
		Cookie: r.Header.Get("Cookie"),
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &c.Body)
	}

	f.mu.Lock()
	f.calls = append(f.calls, c)
	fn := f.routes[routeKey(c.Method, c.Path)]
	f.mu.Unlock()

	status, body := http.StatusOK, any(map[string]any{})
	if fn != nil {
		status, body = fn(c)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Calls returns every call received so far.
func (f *FakeBackend) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the calls made to method+path.
func (f *FakeBackend) CallsTo(method, path string) []Call {
	var out []Call
	want := routeKey(method, path)
	for _, c := range f.Calls() {
		if routeKey(c.Method, c.Path) == want {
			out = append(out, c)
		}
	}
	return out
}

// Writes returns the non-GET calls, in arrival order.
func (f *FakeBackend) Writes() []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls (routes are kept).
func (f *FakeBackend) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// APIClient returns a gateway client pointed at the fake.
func (f *FakeBackend) APIClient(t *testing.T) *api.Client {
	t.Helper()
	c, err := api.New(f.URL, f.Client(), zap.NewNop())
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c
}
