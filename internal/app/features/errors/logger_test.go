package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogBackendError_HTMXShowsToast(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodPost, "/groups/new", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	el.LogBackendError(rec, req, "create group failed", errors.New("boom"), "Please enter a group name", "/groups")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Errorf("HX-Reswap = %q", rec.Header().Get("HX-Reswap"))
	}
	var trig map[string]struct {
		Toasts []struct {
			Title   string `json:"title"`
			Variant string `json:"variant"`
		} `json:"toasts"`
	}
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trig); err != nil {
		t.Fatalf("HX-Trigger: %v", err)
	}
	ts := trig["showToast"].Toasts
	if len(ts) != 1 || ts[0].Title != "Please enter a group name" || ts[0].Variant != "destructive" {
		t.Errorf("toasts = %+v", ts)
	}
	if logs.FilterMessage("create group failed").Len() != 1 {
		t.Error("expected one log entry")
	}
}

func TestRenderUnauthorized_HTMXRedirects(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	uierrors.RenderUnauthorized(rec, req, "")

	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect = %q", got)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}
