// internal/app/features/groups/actions.go
package groups

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/navigation"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/go-chi/chi/v5"
)

type membershipCall func(ctx context.Context, sess api.Session, groupID string) error

// membership runs one membership call for the group in the URL and
// refreshes the list when it succeeds.
func (h *Handler) membership(w http.ResponseWriter, r *http.Request, call membershipCall, logMsg, done string) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	gid := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := call(ctx, u, gid); err != nil {
		h.ErrLog.LogBackendError(w, r, logMsg, err, api.Message(err), "/groups")
		return
	}

	toast.Push(w, r, toast.Info(done, ""))
	if !toast.IsHTMX(r) {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.GroupsBackURL), http.StatusSeeOther)
		return
	}
	toast.Trigger(w, Refresh, nil)
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) HandleRequestJoin(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.Groups.RequestJoin, "request to join failed", "Request sent")
}

func (h *Handler) HandleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.Groups.AcceptInvite, "accept invite failed", "Joined group")
}

func (h *Handler) HandleDeclineInvite(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.Groups.DeclineInvite, "decline invite failed", "Invitation declined")
}

func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.Groups.Leave, "leave group failed", "Left group")
}
