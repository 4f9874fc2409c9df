package projectstore_test

import (
	"context"
	"net/http"
	"testing"

	projectstore "github.com/dalemusser/skillmatch/internal/app/store/projects"
	"github.com/dalemusser/skillmatch/internal/testutil"
)

func TestSet_SendsFullArray(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	store := projectstore.New(fb.APIClient(t))

	err := store.Set(context.Background(), testutil.AcademicUser().SessionUser(), "p1", projectstore.Skills, []string{"go", "sql"})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	calls := fb.CallsTo(http.MethodPut, "project/set/skills")
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	skills, _ := calls[0].Body["skills"].([]any)
	if len(skills) != 2 || skills[0] != "go" || skills[1] != "sql" {
		t.Errorf("skills = %v", calls[0].Body["skills"])
	}
	if calls[0].Body["projectId"] != "p1" {
		t.Errorf("projectId = %v", calls[0].Body["projectId"])
	}
}

func TestSet_NilSendsEmptyArray(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	store := projectstore.New(fb.APIClient(t))

	if err := store.Set(context.Background(), testutil.AcademicUser().SessionUser(), "p1", projectstore.Topics, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	topics, ok := fb.CallsTo(http.MethodPut, "project/set/topics")[0].Body["topics"].([]any)
	if !ok || len(topics) != 0 {
		t.Errorf("topics = %v", topics)
	}
}

func TestCreate(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	store := projectstore.New(fb.APIClient(t))

	err := store.Create(context.Background(), testutil.AcademicUser().SessionUser(), projectstore.NewProject{
		Title: "Robots", MinGroupSize: 2, MaxGroupSize: 4,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b := fb.CallsTo(http.MethodPost, "project/create")[0].Body
	if b["title"] != "Robots" || b["maxGroupSize"] != float64(4) || b["uId"] != "u-academic" {
		t.Errorf("body = %v", b)
	}
}
