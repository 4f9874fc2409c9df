// Package projectstore reaches the backend's project endpoints.
package projectstore

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

// NewProject is the create-dialog payload.
type NewProject struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	MinGroupSize int    `json:"minGroupSize"`
	MaxGroupSize int    `json:"maxGroupSize"`
}

// Array fields replaced wholesale by Set.
const (
	Topics   = "topics"
	Skills   = "skills"
	Outcomes = "outcomes"
)

// All lists every project.
func (s *Store) All(ctx context.Context, sess api.Session) ([]models.Project, error) {
	out, err := api.Fetch[struct {
		Projects []models.Project `json:"projects"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "projects"})
	return out.Projects, err
}

// Get loads one project.
func (s *Store) Get(ctx context.Context, sess api.Session, projectID string) (models.Project, error) {
	out, err := api.Fetch[struct {
		Project models.Project `json:"project"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "project", Query: url.Values{"projectId": {projectID}}})
	return out.Project, err
}

// Create makes a project owned by the session user.
func (s *Store) Create(ctx context.Context, sess api.Session, p NewProject) error {
	_, err := s.c.Do(ctx, sess, api.Request{
		Method: http.MethodPost,
		Path:   "project/create",
		Body: map[string]any{
			"uId":          sess.UserID(),
			"title":        p.Title,
			"description":  p.Description,
			"minGroupSize": p.MinGroupSize,
			"maxGroupSize": p.MaxGroupSize,
		},
	}, nil)
	return err
}

func (s *Store) put(ctx context.Context, sess api.Session, path, projectID string, extra map[string]any) error {
	extra["uId"] = sess.UserID()
	extra["projectId"] = projectID
	_, err := s.c.Do(ctx, sess, api.Request{Method: http.MethodPut, Path: path, Body: extra}, nil)
	return err
}

func (s *Store) EditTitle(ctx context.Context, sess api.Session, projectID, title string) error {
	return s.put(ctx, sess, "project/edit/title", projectID, map[string]any{"title": title})
}

func (s *Store) EditDescription(ctx context.Context, sess api.Session, projectID, desc string) error {
	return s.put(ctx, sess, "project/edit/description", projectID, map[string]any{"description": desc})
}

func (s *Store) EditSize(ctx context.Context, sess api.Session, projectID string, minSize, maxSize int) error {
	return s.put(ctx, sess, "project/edit/size", projectID,
		map[string]any{"minGroupSize": minSize, "maxGroupSize": maxSize})
}

// Set replaces one array field (Topics, Skills or Outcomes) with values.
// The full array is always sent.
func (s *Store) Set(ctx context.Context, sess api.Session, projectID, field string, values []string) error {
	if values == nil {
		values = []string{}
	}
	return s.put(ctx, sess, "project/set/"+field, projectID, map[string]any{field: values})
}
