// Package userstore reaches the backend's account and profile endpoints.
package userstore

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

func uidQuery(sess api.Session) url.Values {
	return url.Values{"uId": {sess.UserID()}}
}

// Profile loads the session user's full profile.
func (s *Store) Profile(ctx context.Context, sess api.Session) (models.User, error) {
	out, err := api.Fetch[struct {
		User models.User `json:"user"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "user/profile", Query: uidQuery(sess)})
	return out.User, err
}

// Role asks the backend for the session user's current role.
func (s *Store) Role(ctx context.Context, sess api.Session) (string, error) {
	out, err := api.Fetch[struct {
		Role string `json:"role"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "user/role", Query: uidQuery(sess)})
	return out.Role, err
}

// All lists every account. Admin only on the backend.
func (s *Store) All(ctx context.Context, sess api.Session) ([]models.User, error) {
	out, err := api.Fetch[struct {
		Users []models.User `json:"users"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "users", Query: uidQuery(sess)})
	return out.Users, err
}

func (s *Store) put(ctx context.Context, sess api.Session, path string, body map[string]any) error {
	body["uId"] = sess.UserID()
	_, err := s.c.Do(ctx, sess, api.Request{Method: http.MethodPut, Path: path, Body: body}, nil)
	return err
}

// EditName replaces both name parts in one call.
func (s *Store) EditName(ctx context.Context, sess api.Session, first, last string) error {
	return s.put(ctx, sess, "user/edit/name", map[string]any{"firstName": first, "lastName": last})
}

func (s *Store) EditSchool(ctx context.Context, sess api.Session, school string) error {
	return s.put(ctx, sess, "user/edit/school", map[string]any{"school": school})
}

func (s *Store) EditDegree(ctx context.Context, sess api.Session, degree string) error {
	return s.put(ctx, sess, "user/edit/degree", map[string]any{"degree": degree})
}

func (s *Store) EditPhone(ctx context.Context, sess api.Session, phone string) error {
	return s.put(ctx, sess, "user/edit/phone", map[string]any{"phone": phone})
}

func (s *Store) EditDescription(ctx context.Context, sess api.Session, desc string) error {
	return s.put(ctx, sess, "user/edit/description", map[string]any{"description": desc})
}

// EditAvatar stores img, whose dimensions must already be probed.
func (s *Store) EditAvatar(ctx context.Context, sess api.Session, img models.Image) error {
	return s.put(ctx, sess, "user/edit/avatar", map[string]any{"avatar": img})
}

// EditCoverPhoto stores img, whose dimensions must already be probed.
func (s *Store) EditCoverPhoto(ctx context.Context, sess api.Session, img models.Image) error {
	return s.put(ctx, sess, "user/edit/cover", map[string]any{"coverPhoto": img})
}

// EditRole changes another account's role.
func (s *Store) EditRole(ctx context.Context, sess api.Session, targetID, role string) error {
	return s.put(ctx, sess, "user/edit/role", map[string]any{"targetId": targetID, "role": role})
}

// Delete removes another account.
func (s *Store) Delete(ctx context.Context, sess api.Session, targetID string) error {
	q := uidQuery(sess)
	q.Set("targetId", targetID)
	_, err := s.c.Do(ctx, sess, api.Request{Method: http.MethodDelete, Path: "user", Query: q}, nil)
	return err
}
