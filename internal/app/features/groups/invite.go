// internal/app/features/groups/invite.go
package groups

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/navigation"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// Invitation is the Invite to Group dialog state.
type Invitation struct {
	GroupID   string
	GroupName string
	TargetID  string
}

type inviteData struct {
	DialogID    string
	Form        Invitation
	FieldErrors map[string]string
}

// ServeInviteDialog opens the invite dialog. Only members may invite.
func (h *Handler) ServeInviteDialog(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.Get(ctx, u, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load group for invite failed", err, api.Message(err), "/groups")
		return
	}
	if !g.HasMember(u.ID) {
		uierrors.RenderForbidden(w, r, "Only members can invite to this group.", "/groups")
		return
	}
	if g.IsFull() {
		toast.Push(w, r, toast.Error("This group is full."))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	}

	d := h.InviteDialogs.Open(u.ID, Invitation{GroupID: g.ID, GroupName: g.Name})
	dialog.Announce(w, d)
	templates.RenderSnippet(w, "group_invite_dialog", inviteData{DialogID: d.ID(), Form: d.Pending()})
}

// HandleInviteConfirm sends the invitation.
func (h *Handler) HandleInviteConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	d, ok := h.InviteDialogs.Get(u.ID, chi.URLParam(r, "dialog"))
	if !ok {
		uierrors.RenderDialogGone(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups")
		return
	}

	if err := d.Edit(func(inv *Invitation) { inv.TargetID = strings.TrimSpace(r.PostForm.Get("target_id")) }); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	form := d.Pending()
	if form.TargetID == "" {
		errs := map[string]string{"target_id": "Choose someone to invite."}
		toast.Trigger(w, FieldErrorsEvent, errs)
		templates.RenderSnippet(w, "group_invite_dialog", inviteData{DialogID: d.ID(), Form: form, FieldErrors: errs})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := d.Confirm(ctx, func(ctx context.Context, _, pend Invitation) error {
		return h.Groups.Invite(ctx, u, pend.GroupID, pend.TargetID)
	}, h.InviteDialogs.Closer(w, u.ID, d.ID()))
	if err != nil {
		if uierrors.RenderDialogError(w, r, err) {
			return
		}
		h.ErrLog.LogBackendError(w, r, "invite to group failed", err, api.Message(err), "/groups")
		return
	}

	toast.Push(w, r, toast.Info("Invitation sent", form.GroupName))
	if !toast.IsHTMX(r) {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.GroupsBackURL), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleInviteCancel discards the dialog.
func (h *Handler) HandleInviteCancel(w http.ResponseWriter, r *http.Request) {
	cancelDialog(w, r, h.InviteDialogs)
}
