// internal/app/features/users/manage.go
package users

import (
	"context"
	"net/http"
	"slices"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/navigation"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type roleData struct {
	DialogID string
	Form     RoleChange
	Roles    []string
	Error    string
}

type deleteData struct {
	DialogID string
	User     models.User
}

// target resolves the {id} account and checks the admin may manage it.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, models.User, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return nil, models.User{}, false
	}
	id := chi.URLParam(r, "id")
	if !authz.CanManageUser(r, id) {
		uierrors.RenderForbidden(w, r, "You cannot change your own account here.", "/users")
		return nil, models.User{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	acct, found, err := h.findUser(ctx, u, id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load users failed", err, api.Message(err), "/users")
		return nil, models.User{}, false
	}
	if !found {
		uierrors.RenderNotFound(w, r, "User not found.", "/users")
		return nil, models.User{}, false
	}
	return u, acct, true
}

// ServeRoleDialog opens the Change Role dialog.
func (h *Handler) ServeRoleDialog(w http.ResponseWriter, r *http.Request) {
	u, acct, ok := h.target(w, r)
	if !ok {
		return
	}
	d := h.RoleDialogs.Open(u.ID, RoleChange{UserID: acct.ID, Name: acct.FullName(), From: acct.Role, To: acct.Role})
	dialog.Announce(w, d)
	templates.RenderSnippet(w, "user_role_dialog", roleData{DialogID: d.ID(), Form: d.Pending(), Roles: Roles})
}

// HandleRoleConfirm sends the new role. Picking the current role closes
// the dialog without a call.
func (h *Handler) HandleRoleConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	d, ok := h.RoleDialogs.Get(u.ID, chi.URLParam(r, "dialog"))
	if !ok {
		uierrors.RenderDialogGone(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/users")
		return
	}
	if err := d.Edit(func(c *RoleChange) { c.To = strings.ToLower(strings.TrimSpace(r.PostForm.Get("role"))) }); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	form := d.Pending()
	if !slices.Contains(Roles, form.To) {
		templates.RenderSnippet(w, "user_role_dialog", roleData{DialogID: d.ID(), Form: form, Roles: Roles, Error: "Choose a role."})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := d.Confirm(ctx, func(ctx context.Context, snap, pend RoleChange) error {
		if pend.To == snap.From {
			return nil
		}
		return h.Users.EditRole(ctx, u, pend.UserID, pend.To)
	}, h.RoleDialogs.Closer(w, u.ID, d.ID(), Refresh))
	if err != nil {
		if uierrors.RenderDialogError(w, r, err) {
			return
		}
		h.ErrLog.LogBackendError(w, r, "edit role failed", err, api.Message(err), "/users")
		return
	}

	if form.To != form.From {
		h.AuditLog.UserRoleChanged(ctx, r, u.ID, form.UserID, form.From, form.To)
		toast.Push(w, r, toast.Info("Role changed", form.Name+" is now "+form.To))
	}
	if !toast.IsHTMX(r) {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.UsersBackURL), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleRoleCancel discards the dialog.
func (h *Handler) HandleRoleCancel(w http.ResponseWriter, r *http.Request) {
	cancelDialog(w, r, h.RoleDialogs)
}

// ServeDeleteDialog opens the delete confirmation.
func (h *Handler) ServeDeleteDialog(w http.ResponseWriter, r *http.Request) {
	u, acct, ok := h.target(w, r)
	if !ok {
		return
	}
	d := h.DeleteDialogs.Open(u.ID, acct)
	dialog.Announce(w, d)
	templates.RenderSnippet(w, "user_delete_dialog", deleteData{DialogID: d.ID(), User: acct})
}

// HandleDeleteConfirm deletes the account.
func (h *Handler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	d, ok := h.DeleteDialogs.Get(u.ID, chi.URLParam(r, "dialog"))
	if !ok {
		uierrors.RenderDialogGone(w, r)
		return
	}
	acct := d.Snapshot()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := d.Confirm(ctx, func(ctx context.Context, snap, _ models.User) error {
		return h.Users.Delete(ctx, u, snap.ID)
	}, h.DeleteDialogs.Closer(w, u.ID, d.ID(), Refresh))
	if err != nil {
		if uierrors.RenderDialogError(w, r, err) {
			return
		}
		h.ErrLog.LogBackendError(w, r, "delete user failed", err, api.Message(err), "/users")
		return
	}

	h.AuditLog.UserDeleted(ctx, r, u.ID, acct.ID)
	toast.Push(w, r, toast.Info("User deleted", acct.FullName()))
	if !toast.IsHTMX(r) {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.UsersBackURL), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleDeleteCancel discards the dialog.
func (h *Handler) HandleDeleteCancel(w http.ResponseWriter, r *http.Request) {
	cancelDialog(w, r, h.DeleteDialogs)
}

func cancelDialog[T any](w http.ResponseWriter, r *http.Request, reg *dialog.Registry[T]) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	id := chi.URLParam(r, "dialog")
	d, ok := reg.Get(u.ID, id)
	if !ok {
		toast.Trigger(w, dialog.CloseEvent, nil)
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := d.Cancel(reg.Closer(w, u.ID, id)); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
