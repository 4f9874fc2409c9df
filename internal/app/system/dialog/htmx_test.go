package dialog_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
)

func TestCloser_ForgetsAndTriggersEvents(t *testing.T) {
	reg := dialog.NewRegistry[project]("group-create", time.Minute, nil)
	defer reg.Stop()
	d := reg.Open("u1", project{})

	rec := httptest.NewRecorder()
	if err := d.Cancel(reg.Closer(rec, "u1", d.ID(), "groups-refresh")); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, ok := reg.Get("u1", d.ID()); ok {
		t.Error("closed dialog still registered")
	}
	var events map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events); err != nil {
		t.Fatalf("HX-Trigger: %v", err)
	}
	for _, ev := range []string{dialog.CloseEvent, "groups-refresh"} {
		if _, ok := events[ev]; !ok {
			t.Errorf("missing %s event", ev)
		}
	}
}

func TestAnnounce_CarriesID(t *testing.T) {
	d := dialog.New[project]("group-create", nil)
	rec := httptest.NewRecorder()
	dialog.Announce(rec, d)

	var events map[string]struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events); err != nil {
		t.Fatalf("HX-Trigger: %v", err)
	}
	got := events[dialog.OpenedEvent]
	if got.ID != d.ID() || got.Kind != "group-create" {
		t.Errorf("announced %+v", got)
	}
}
