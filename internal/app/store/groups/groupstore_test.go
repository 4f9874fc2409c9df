package groupstore_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	groupstore "github.com/dalemusser/skillmatch/internal/app/store/groups"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/testutil"
)

func TestCreate_BackendMessage(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.On(http.MethodPost, "group/create", http.StatusBadRequest, map[string]string{"error": "Please enter a group name"})
	store := groupstore.New(fb.APIClient(t))

	err := store.Create(context.Background(), testutil.StudentUser().SessionUser(), groupstore.NewGroup{MinMembers: 1, MaxMembers: 4})
	var ae *api.Error
	if !errors.As(err, &ae) {
		t.Fatalf("want *api.Error, got %v", err)
	}
	if ae.Status != http.StatusBadRequest || ae.Message != "Please enter a group name" {
		t.Errorf("err = %+v", ae)
	}
}

func TestMembershipActions(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	store := groupstore.New(fb.APIClient(t))
	sess := testutil.StudentUser().SessionUser()
	ctx := context.Background()

	actions := []struct {
		path string
		run  func() error
	}{
		{"group/request", func() error { return store.RequestJoin(ctx, sess, "g1") }},
		{"group/invite/accept", func() error { return store.AcceptInvite(ctx, sess, "g1") }},
		{"group/invite/decline", func() error { return store.DeclineInvite(ctx, sess, "g1") }},
		{"group/leave", func() error { return store.Leave(ctx, sess, "g1") }},
	}
	for _, a := range actions {
		t.Run(a.path, func(t *testing.T) {
			if err := a.run(); err != nil {
				t.Fatalf("err: %v", err)
			}
			calls := fb.CallsTo(http.MethodPost, a.path)
			if len(calls) != 1 {
				t.Fatalf("calls = %d, want 1", len(calls))
			}
			if calls[0].Body["groupId"] != "g1" || calls[0].Body["uId"] != "u-student" {
				t.Errorf("body = %v", calls[0].Body)
			}
		})
	}
}

func TestInvite_SendsTarget(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	store := groupstore.New(fb.APIClient(t))

	if err := store.Invite(context.Background(), testutil.StudentUser().SessionUser(), "g1", "u9"); err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if got := fb.CallsTo(http.MethodPost, "group/invite")[0].Body["targetId"]; got != "u9" {
		t.Errorf("targetId = %v", got)
	}
}

func TestEditSize_BothBounds(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	store := groupstore.New(fb.APIClient(t))

	if err := store.EditSize(context.Background(), testutil.StudentUser().SessionUser(), "g1", 2, 5); err != nil {
		t.Fatalf("EditSize: %v", err)
	}
	b := fb.CallsTo(http.MethodPut, "group/edit/size")[0].Body
	if b["minMembers"] != float64(2) || b["maxMembers"] != float64(5) {
		t.Errorf("body = %v", b)
	}
}
