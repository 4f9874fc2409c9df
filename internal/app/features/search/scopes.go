// internal/app/features/search/scopes.go
package search

import (
	"context"
	"net/url"

	"github.com/dalemusser/skillmatch/internal/app/features/courses"
	"github.com/dalemusser/skillmatch/internal/app/features/projects"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/listview"
	"github.com/dalemusser/skillmatch/internal/domain/models"
)

// Hit is one search result as sent to the browser.
type Hit struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Href   string `json:"href"`
}

// scope is one searchable collection bound to a socket.
type scope interface {
	load(ctx context.Context) error
	hits(q string) (shown []Hit, total int)
}

// listScope adapts a listview.List to scope.
type listScope[T any] struct {
	list  *listview.List[T]
	fetch func(context.Context) ([]T, error)
	hit   func(T) Hit
}

func (s *listScope[T]) load(ctx context.Context) error { return s.list.Load(ctx, s.fetch) }

func (s *listScope[T]) hits(q string) ([]Hit, int) {
	visible := s.list.ApplyFilter(q)
	out := make([]Hit, 0, min(len(visible), maxHits))
	for _, item := range visible {
		if len(out) == maxHits {
			break
		}
		out = append(out, s.hit(item))
	}
	return out, len(visible)
}

func courseHit(c models.Course) Hit {
	return Hit{Title: c.Code + " " + c.Title, Detail: c.Faculty, Href: "/courses/" + url.PathEscape(c.Code)}
}

func projectHit(p models.Project) Hit {
	return Hit{Title: p.Title, Href: "/projects/" + url.PathEscape(p.ID)}
}

// groupHit links to the groups list filtered by name; groups have no page
// of their own.
func groupHit(g models.Group) Hit {
	return Hit{Title: g.Name, Href: "/groups?q=" + url.QueryEscape(g.Name)}
}

// newScope returns the scope named by the socket's ?scope= parameter.
func (h *Handler) newScope(name string, sess api.Session) (scope, bool) {
	switch name {
	case "", "courses":
		return &listScope[models.Course]{
			list:  listview.New(courses.Fields),
			fetch: func(ctx context.Context) ([]models.Course, error) { return h.Courses.All(ctx, sess) },
			hit:   courseHit,
		}, true
	case "projects":
		return &listScope[models.Project]{
			list:  listview.New(projects.Fields),
			fetch: func(ctx context.Context) ([]models.Project, error) { return h.Projects.All(ctx, sess) },
			hit:   projectHit,
		}, true
	case "groups":
		return &listScope[models.Group]{
			list:  listview.New(func(g models.Group) []string { return []string{g.Name, g.Description} }),
			fetch: func(ctx context.Context) ([]models.Group, error) { return h.Groups.All(ctx, sess) },
			hit:   groupHit,
		}, true
	}
	return nil, false
}
