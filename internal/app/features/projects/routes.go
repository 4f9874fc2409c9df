// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST + VIEW
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeProject)

		// CREATE dialog
		pr.Get("/new", h.ServeCreateDialog)
		pr.Post("/new/{dialog}", h.HandleCreateConfirm)
		pr.Post("/new/{dialog}/cancel", h.HandleCreateCancel)

		// EDIT dialog
		pr.Get("/{id}/edit", h.ServeEditDialog)
		pr.Post("/{id}/edit/{dialog}", h.HandleEditConfirm)
		pr.Post("/{id}/edit/{dialog}/cancel", h.HandleEditCancel)

		// TOPICS / SKILLS / OUTCOMES, one value at a time
		pr.Post("/{id}/{field}/{op}", h.HandleArrayEdit)
	})
	return r
}
