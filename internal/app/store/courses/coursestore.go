// Package coursestore reaches the backend's course catalogue and the
// session user's completed courses.
package coursestore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/domain/models"
)

type Store struct {
	c *api.Client
}

func New(c *api.Client) *Store {
	return &Store{c: c}
}

// All lists the catalogue.
func (s *Store) All(ctx context.Context, sess api.Session) ([]models.Course, error) {
	out, err := api.Fetch[struct {
		Courses []models.Course `json:"courses"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "courses"})
	return out.Courses, err
}

// Get loads one course by code.
func (s *Store) Get(ctx context.Context, sess api.Session, code string) (models.Course, error) {
	out, err := api.Fetch[struct {
		Course models.Course `json:"course"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "course", Query: url.Values{"code": {code}}})
	return out.Course, err
}

// Completed lists the courses the session user has finished.
func (s *Store) Completed(ctx context.Context, sess api.Session) ([]models.CompletedCourse, error) {
	out, err := api.Fetch[struct {
		Courses []models.CompletedCourse `json:"courses"`
	}](ctx, s.c, sess, api.Request{Method: http.MethodGet, Path: "user/courses", Query: url.Values{"uId": {sess.UserID()}}})
	return out.Courses, err
}

// CompleteMultiple records every selected course in a single call.
func (s *Store) CompleteMultiple(ctx context.Context, sess api.Session, courses []models.CompletedCourse) error {
	type entry struct {
		Code string `json:"code"`
		Year int    `json:"year"`
	}
	list := make([]entry, len(courses))
	for i, c := range courses {
		list[i] = entry{Code: c.Code, Year: c.Year}
	}
	_, err := s.c.Do(ctx, sess, api.Request{
		Method: http.MethodPost,
		Path:   "course/complete/multiple",
		Body:   map[string]any{"uId": sess.UserID(), "courses": list},
	}, nil)
	return err
}

// RemoveCompleted drops one completed-course record.
func (s *Store) RemoveCompleted(ctx context.Context, sess api.Session, code string, year int) error {
	q := url.Values{
		"uId":  {sess.UserID()},
		"code": {code},
		"year": {strconv.Itoa(year)},
	}
	_, err := s.c.Do(ctx, sess, api.Request{Method: http.MethodDelete, Path: "course/complete", Query: q}, nil)
	return err
}
