// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeProfile)
		pr.Get("/courses", h.ServeCompletedCourses)
		pr.Post("/courses/remove", h.HandleRemoveCourse)

		// EDIT PROFILE dialog
		pr.Get("/edit", h.ServeEditDialog)
		pr.Post("/edit/{dialog}/field", h.HandleEditField)
		pr.Post("/edit/{dialog}", h.HandleEditConfirm)
		pr.Post("/edit/{dialog}/cancel", h.HandleEditCancel)

		// ADD COURSE dialog
		pr.Get("/courses/add", h.ServeAddCourses)
		pr.Get("/courses/add/{dialog}/search", h.ServeAddCoursesSearch)
		pr.Post("/courses/add/{dialog}", h.HandleAddCoursesConfirm)
		pr.Post("/courses/add/{dialog}/cancel", h.HandleAddCoursesCancel)
	})
	return r
}
