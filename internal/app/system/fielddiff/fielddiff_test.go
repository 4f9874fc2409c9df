package fielddiff_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/system/fielddiff"
	"github.com/dalemusser/skillmatch/internal/app/system/imageprobe"
	"github.com/dalemusser/skillmatch/internal/domain/models"
)

type form struct {
	First, Last string
	School      string
	Topics      []string
	Avatar      models.Image
}

type recorder struct {
	mu    sync.Mutex
	calls map[string][]any
}

func (r *recorder) add(name string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string][]any)
	}
	r.calls[name] = args
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func fields(rec *recorder, prober imageprobe.Prober, failSchool bool) []fielddiff.Field[form] {
	return []fielddiff.Field[form]{
		fielddiff.Pair("name",
			func(f form) string { return f.First },
			func(f form) string { return f.Last },
			func(_ context.Context, first, last string) error {
				rec.add("name", first, last)
				return nil
			}),
		fielddiff.Scalar("school",
			func(f form) string { return f.School },
			func(_ context.Context, v string) error {
				rec.add("school", v)
				if failSchool {
					return errors.New("school rejected")
				}
				return nil
			}),
		fielddiff.Strings("topics",
			func(f form) []string { return f.Topics },
			func(_ context.Context, v []string) error {
				rec.add("topics", v)
				return nil
			}),
		fielddiff.Image("avatar",
			func(f form) models.Image { return f.Avatar },
			prober,
			func(_ context.Context, img models.Image) error {
				rec.add("avatar", img)
				return nil
			}),
	}
}

var okProber = imageprobe.ProbeFunc(func(context.Context, string) (imageprobe.Dimensions, error) {
	return imageprobe.Dimensions{Width: 640, Height: 480}, nil
})

var badProber = imageprobe.ProbeFunc(func(context.Context, string) (imageprobe.Dimensions, error) {
	return imageprobe.Dimensions{}, imageprobe.ErrNotImage
})

func base() form {
	return form{First: "Alex", Last: "Kim", School: "Engineering", Topics: []string{"ml"}}
}

func TestSubmit_NameChangeSendsOneCallWithBothParts(t *testing.T) {
	rec := &recorder{}
	snap := base()
	edited := base()
	edited.First = "Alexa"

	out := fielddiff.Submit(context.Background(), snap, edited, fields(rec, okProber, false))

	if rec.count() != 1 {
		t.Fatalf("calls = %d, want 1 (%v)", rec.count(), rec.calls)
	}
	got := rec.calls["name"]
	if got[0] != "Alexa" || got[1] != "Kim" {
		t.Errorf("name call = %v, want [Alexa Kim]", got)
	}
	if !out.Saved || len(out.Issued) != 1 || out.Issued[0] != "name" {
		t.Errorf("outcome = %+v", out)
	}
}

func TestSubmit_UnchangedIssuesNothing(t *testing.T) {
	rec := &recorder{}
	out := fielddiff.Submit(context.Background(), base(), base(), fields(rec, okProber, false))
	if rec.count() != 0 {
		t.Errorf("calls = %v, want none", rec.calls)
	}
	if out.Saved || len(out.Issued) != 0 || out.Err() != nil {
		t.Errorf("outcome = %+v", out)
	}
}

func TestSubmit_ArrayComparedByValue(t *testing.T) {
	rec := &recorder{}
	snap := base()
	edited := base()
	edited.Topics = []string{"ml"} // distinct slice, same content
	fielddiff.Submit(context.Background(), snap, edited, fields(rec, okProber, false))
	if rec.count() != 0 {
		t.Errorf("equal arrays should not submit: %v", rec.calls)
	}

	edited.Topics = []string{"ml", "nlp"}
	fielddiff.Submit(context.Background(), snap, edited, fields(rec, okProber, false))
	got, ok := rec.calls["topics"]
	if !ok {
		t.Fatal("topics not submitted")
	}
	if v := got[0].([]string); len(v) != 2 || v[1] != "nlp" {
		t.Errorf("topics = %v, want full array", v)
	}
}

func TestSubmit_InvalidImageBlocksEverything(t *testing.T) {
	rec := &recorder{}
	edited := base()
	edited.School = "Science"
	edited.Avatar = models.Image{URL: "https://example.com/page.html"}

	out := fielddiff.Submit(context.Background(), base(), edited, fields(rec, badProber, false))

	if rec.count() != 0 {
		t.Errorf("calls = %v, want none", rec.calls)
	}
	if !out.Blocked() {
		t.Fatal("expected blocked outcome")
	}
	if out.FieldErrors["avatar"] != fielddiff.InvalidImageURL {
		t.Errorf("avatar error = %q, want %q", out.FieldErrors["avatar"], fielddiff.InvalidImageURL)
	}
	if out.Saved {
		t.Error("blocked outcome reported saved")
	}
}

func TestSubmit_ImageCarriesProbedDimensions(t *testing.T) {
	rec := &recorder{}
	edited := base()
	edited.Avatar = models.Image{URL: " https://example.com/a.png ", TopLeftX: 20, TopLeftY: 30}

	fielddiff.Submit(context.Background(), base(), edited, fields(rec, okProber, false))

	got, ok := rec.calls["avatar"]
	if !ok {
		t.Fatal("avatar not submitted")
	}
	img := got[0].(models.Image)
	want := models.Image{URL: "https://example.com/a.png", Width: 640, Height: 480}
	if img != want {
		t.Errorf("avatar = %+v, want %+v", img, want)
	}
}

func TestSubmit_PartialFailure(t *testing.T) {
	rec := &recorder{}
	edited := base()
	edited.First = "Sam"
	edited.School = "Arts"

	out := fielddiff.Submit(context.Background(), base(), edited, fields(rec, okProber, true))

	if rec.count() != 2 {
		t.Fatalf("calls = %d, want 2", rec.count())
	}
	if !out.Saved {
		t.Error("one call succeeded, Saved should be true")
	}
	if len(out.Failures) != 1 || out.Failures[0].Field != "school" {
		t.Errorf("failures = %+v", out.Failures)
	}
	if out.Err() == nil {
		t.Error("Err() should report the failure")
	}
}

func TestSubmit_CallsRunConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)
	both := make(chan struct{})
	go func() { wg.Wait(); close(both) }()

	wait := func(ctx context.Context, _ string) error {
		wg.Done()
		select {
		case <-both:
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("calls were serialised")
		}
	}
	fs := []fielddiff.Field[form]{
		fielddiff.Scalar("first", func(f form) string { return f.First }, wait),
		fielddiff.Scalar("school", func(f form) string { return f.School }, wait),
	}
	edited := base()
	edited.First = "Jo"
	edited.School = "Law"

	out := fielddiff.Submit(context.Background(), base(), edited, fs)
	if len(out.Failures) != 0 {
		t.Errorf("failures = %+v", out.Failures)
	}
}

func TestCheck_BlocksWithMessage(t *testing.T) {
	rec := &recorder{}
	f := fielddiff.Check(
		fielddiff.Scalar("school", func(f form) string { return f.School }, func(_ context.Context, v string) error {
			rec.add("school", v)
			return nil
		}),
		func(f form) string {
			if f.School == "" {
				return "School is required"
			}
			return ""
		})

	edited := base()
	edited.School = ""
	out := fielddiff.Submit(context.Background(), base(), edited, []fielddiff.Field[form]{f})
	if out.FieldErrors["school"] != "School is required" {
		t.Errorf("field errors = %v", out.FieldErrors)
	}
	if rec.count() != 0 {
		t.Error("validation failure still submitted")
	}
}

func TestChanged(t *testing.T) {
	edited := base()
	edited.Last = "Lee"
	edited.Topics = nil
	got := fielddiff.Changed(base(), edited, fields(&recorder{}, okProber, false))
	if len(got) != 2 || got[0] != "name" || got[1] != "topics" {
		t.Errorf("Changed = %v, want [name topics]", got)
	}
}
