// Package groupstore reaches the backend's group endpoints: listing,
// creation, edits and the membership actions (request, invite, accept,
// decline, leave).
package groupstore

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/domain/models"
)

type Store struct {
	c *api.Client
}

func New(c *api.Client) *Store {
	return &Store{c: c}
}

// NewGroup is the create-dialog payload.
type NewGroup struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MinMembers  int    `json:"minMembers"`
	MaxMembers  int    `json:"maxMembers"`
}

// All lists every group.
func (s *Store) All(ctx context.Context, sess api.Session) ([]models.Group, error) {
	out, err := api.Fetch[struct {
		Groups []models.Group `json:"groups"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "groups"})
	return out.Groups, err
}

// Get loads one group.
func (s *Store) Get(ctx context.Context, sess api.Session, groupID string) (models.Group, error) {
	out, err := api.Fetch[struct {
		Group models.Group `json:"group"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "group", Query: url.Values{"groupId": {groupID}}})
	return out.Group, err
}

// Invites lists invitations addressed to the session user.
func (s *Store) Invites(ctx context.Context, sess api.Session) ([]models.GroupInvite, error) {
	out, err := api.Fetch[struct {
		Invites []models.GroupInvite `json:"invites"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "group/invites", Query: url.Values{"uId": {sess.UserID()}}})
	return out.Invites, err
}

// Requests lists the session user's pending join requests.
func (s *Store) Requests(ctx context.Context, sess api.Session) ([]models.JoinRequest, error) {
	out, err := api.Fetch[struct {
		Requests []models.JoinRequest `json:"requests"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "group/requests", Query: url.Values{"uId": {sess.UserID()}}})
	return out.Requests, err
}

// Create makes a group owned by the session user.
func (s *Store) Create(ctx context.Context, sess api.Session, g NewGroup) error {
	_, err := s.c.Do(ctx, sess, api.Request{
		Method: http.MethodPost,
		Path:   "group/create",
		Body: map[string]any{
			"uId":         sess.UserID(),
			"name":        g.Name,
			"description": g.Description,
			"minMembers":  g.MinMembers,
			"maxMembers":  g.MaxMembers,
		},
	}, nil)
	return err
}

func (s *Store) send(ctx context.Context, sess api.Session, method, path, groupID string, extra map[string]any) error {
	body := map[string]any{"uId": sess.UserID(), "groupId": groupID}
	for k, v := range extra {
		body[k] = v
	}
	_, err := s.c.Do(ctx, sess, api.Request{Method: method, Path: path, Body: body}, nil)
	return err
}

func (s *Store) EditName(ctx context.Context, sess api.Session, groupID, name string) error {
	return s.send(ctx, sess, http.MethodPut, "group/edit/name", groupID, map[string]any{"name": name})
}

func (s *Store) EditDescription(ctx context.Context, sess api.Session, groupID, desc string) error {
	return s.send(ctx, sess, http.MethodPut, "group/edit/description", groupID, map[string]any{"description": desc})
}

// EditSize sends both bounds together so the backend can check min <= max.
func (s *Store) EditSize(ctx context.Context, sess api.Session, groupID string, minMembers, maxMembers int) error {
	return s.send(ctx, sess, http.MethodPut, "group/edit/size", groupID,
		map[string]any{"minMembers": minMembers, "maxMembers": maxMembers})
}

// RequestJoin asks the group owner to admit the session user.
func (s *Store) RequestJoin(ctx context.Context, sess api.Session, groupID string) error {
	return s.send(ctx, sess, http.MethodPost, "group/request", groupID, nil)
}

// Invite asks targetID to join the group.
func (s *Store) Invite(ctx context.Context, sess api.Session, groupID, targetID string) error {
	return s.send(ctx, sess, http.MethodPost, "group/invite", groupID, map[string]any{"targetId": targetID})
}

func (s *Store) AcceptInvite(ctx context.Context, sess api.Session, groupID string) error {
	return s.send(ctx, sess, http.MethodPost, "group/invite/accept", groupID, nil)
}

func (s *Store) DeclineInvite(ctx context.Context, sess api.Session, groupID string) error {
	return s.send(ctx, sess, http.MethodPost, "group/invite/decline", groupID, nil)
}

func (s *Store) Leave(ctx context.Context, sess api.Session, groupID string) error {
	return s.send(ctx, sess, http.MethodPost, "group/leave", groupID, nil)
}
