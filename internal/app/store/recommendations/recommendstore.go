// Package recommendstore reads the backend's recommendation engine output.
package recommendstore

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

// Groups returns the groups recommended for the session user.
func (s *Store) Groups(ctx context.Context, sess api.Session) ([]models.Group, error) {
	out, err := api.Fetch[struct {
		Groups []models.Group `json:"groups"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "recommend/groups", Query: url.Values{"uId": {sess.UserID()}}})
	return out.Groups, err
}

// Projects returns the projects recommended for the session user.
func (s *Store) Projects(ctx context.Context, sess api.Session) ([]models.Project, error) {
	out, err := api.Fetch[struct {
		Projects []models.Project `json:"projects"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "recommend/projects", Query: url.Values{"uId": {sess.UserID()}}})
	return out.Projects, err
}

// SkillGap lists the skills projectID needs that the session user lacks,
// each with the courses that teach it.
func (s *Store) SkillGap(ctx context.Context, sess api.Session, projectID string) ([]models.SkillGap, error) {
	q := url.Values{"uId": {sess.UserID()}, "projectId": {projectID}}
	out, err := api.Fetch[struct {
		Gaps []models.SkillGap `json:"gaps"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "recommend/skillgap", Query: q})
	return out.Gaps, err
}
