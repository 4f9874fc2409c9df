// internal/app/features/groups/create.go
package groups

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	groupstore "github.com/dalemusser/skillmatch/internal/app/store/groups"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/inputval"
	"github.com/dalemusser/skillmatch/internal/app/system/navigation"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// FieldErrorsEvent carries inline field messages to the open dialog.
const FieldErrorsEvent = "fieldErrors"

// Default size bounds offered by the create dialog.
const (
	defaultMinMembers = 2
	defaultMaxMembers = 5
)

type createData struct {
	DialogID    string
	Form        groupstore.NewGroup
	FieldErrors map[string]string
}

// readSize parses a size input, keeping cur when the input is absent or
// not a number.
func readSize(r *http.Request, key string, cur int) int {
	if !r.PostForm.Has(key) {
		return cur
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get(key)))
	if err != nil {
		return 0
	}
	return n
}

func validateGroup(name, desc string, minMembers, maxMembers int) map[string]string {
	errs := inputval.Struct(inputval.Group{
		Name:        name,
		Description: desc,
		MinMembers:  minMembers,
		MaxMembers:  maxMembers,
	})
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ServeCreateDialog opens the Create Group dialog.
func (h *Handler) ServeCreateDialog(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if !authz.CanJoinGroups(r) {
		uierrors.RenderForbidden(w, r, "Only students can start groups.", "/groups")
		return
	}

	d := h.CreateDialogs.Open(u.ID, groupstore.NewGroup{MinMembers: defaultMinMembers, MaxMembers: defaultMaxMembers})
	dialog.Announce(w, d)
	templates.RenderSnippet(w, "group_create_dialog", createData{DialogID: d.ID(), Form: d.Pending()})
}

// HandleCreateConfirm creates the group. On success the dialog closes and
// the list refreshes. A backend rejection is shown verbatim in a toast and
// the dialog stays open with what the user typed.
func (h *Handler) HandleCreateConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	d, ok := h.CreateDialogs.Get(u.ID, chi.URLParam(r, "dialog"))
	if !ok {
		uierrors.RenderDialogGone(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups")
		return
	}

	if err := d.Edit(func(g *groupstore.NewGroup) {
		g.Name = strings.TrimSpace(r.PostForm.Get("name"))
		g.Description = strings.TrimSpace(r.PostForm.Get("description"))
		g.MinMembers = readSize(r, "min_members", g.MinMembers)
		g.MaxMembers = readSize(r, "max_members", g.MaxMembers)
	}); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	form := d.Pending()
	if errs := validateGroup(form.Name, form.Description, form.MinMembers, form.MaxMembers); errs != nil {
		toast.Trigger(w, FieldErrorsEvent, errs)
		templates.RenderSnippet(w, "group_create_dialog", createData{DialogID: d.ID(), Form: form, FieldErrors: errs})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := d.Confirm(ctx, func(ctx context.Context, _, pend groupstore.NewGroup) error {
		return h.Groups.Create(ctx, u, pend)
	}, h.CreateDialogs.Closer(w, u.ID, d.ID(), Refresh))
	if err != nil {
		if uierrors.RenderDialogError(w, r, err) {
			return
		}
		h.ErrLog.LogBackendError(w, r, "create group failed", err, api.Message(err), "/groups")
		return
	}

	h.AuditLog.GroupCreated(ctx, r, u.ID, form.Name)
	toast.Push(w, r, toast.Info("Group created", form.Name))
	if !toast.IsHTMX(r) {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.GroupsBackURL), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleCreateCancel discards the dialog.
func (h *Handler) HandleCreateCancel(w http.ResponseWriter, r *http.Request) {
	cancelDialog(w, r, h.CreateDialogs, Refresh)
}

// cancelDialog closes the caller's dialog named in the URL. A dialog that
// is already gone is still dismissed in the browser.
func cancelDialog[T any](w http.ResponseWriter, r *http.Request, reg *dialog.Registry[T], refresh ...string) {
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
	if err := d.Cancel(reg.Closer(w, u.ID, id, refresh...)); err != nil {
		uierrors.RenderDialogError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
