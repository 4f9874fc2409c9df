// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST
		pr.Get("/", h.ServeGroupsList)

		// CREATE dialog
		pr.Get("/new", h.ServeCreateDialog)
		pr.Post("/new/{dialog}", h.HandleCreateConfirm)
		pr.Post("/new/{dialog}/cancel", h.HandleCreateCancel)

		// EDIT dialog
		pr.Get("/{id}/edit", h.ServeEditDialog)
		pr.Post("/{id}/edit/{dialog}", h.HandleEditConfirm)
		pr.Post("/{id}/edit/{dialog}/cancel", h.HandleEditCancel)

		// INVITE dialog
		pr.Get("/{id}/invite", h.ServeInviteDialog)
		pr.Post("/{id}/invite/{dialog}", h.HandleInviteConfirm)
		pr.Post("/{id}/invite/{dialog}/cancel", h.HandleInviteCancel)

		// MEMBERSHIP
		pr.Post("/{id}/request", h.HandleRequestJoin)
		pr.Post("/{id}/accept", h.HandleAcceptInvite)
		pr.Post("/{id}/decline", h.HandleDeclineInvite)
		pr.Post("/{id}/leave", h.HandleLeave)
	})

	return r
}
