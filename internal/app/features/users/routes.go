// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts account management, typically at "/users".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)

		// Change role
		pr.Get("/{id}/role", h.ServeRoleDialog)
		pr.Post("/{id}/role/{dialog}", h.HandleRoleConfirm)
		pr.Post("/{id}/role/{dialog}/cancel", h.HandleRoleCancel)

		// Delete
		pr.Get("/{id}/delete", h.ServeDeleteDialog)
		pr.Post("/{id}/delete/{dialog}", h.HandleDeleteConfirm)
		pr.Post("/{id}/delete/{dialog}/cancel", h.HandleDeleteCancel)
	})

	return r
}
