// internal/app/features/courses/routes.go
package courses

import (
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{code}", h.ServeCourse)
	})
	return r
}
