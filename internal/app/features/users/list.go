// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/listview"
	"github.com/dalemusser/skillmatch/internal/app/system/paging"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type userRow struct {
	ID        string
	FullName  string
	Email     string
	Role      string
	CanManage bool
}

type listData struct {
	viewdata.BaseVM

	Q       string
	Role    string
	Roles   []string
	Page    paging.Page[userRow]
	Loaded  bool
	LoadErr string
}

// Roles lists every role an account can hold, in display order.
var Roles = []string{models.RoleStudent, models.RoleAcademic, models.RoleAdmin}

// Fields is what the user search matches against.
func Fields(u models.User) []string {
	return []string{u.FullName(), u.Email, u.Role}
}

// ServeList handles GET /users: every account, filtered by the search
// text and optionally by role.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Users", "/dashboard"),
		Q:      query.Get(r, "q"),
		Role:   strings.ToLower(query.Get(r, "role")),
		Roles:  Roles,
	}

	list := listview.New(Fields)
	if err := list.Load(ctx, func(ctx context.Context) ([]models.User, error) { return h.Users.All(ctx, u) }); err != nil {
		h.Log.Warn("load users failed", zap.Error(err))
		data.LoadErr = api.Message(err)
	}

	var rows []userRow
	for _, acct := range list.ApplyFilter(data.Q) {
		if data.Role != "" && acct.Role != data.Role {
			continue
		}
		rows = append(rows, userRow{
			ID:        acct.ID,
			FullName:  acct.FullName(),
			Email:     strings.ToLower(acct.Email),
			Role:      acct.Role,
			CanManage: authz.CanManageUser(r, acct.ID),
		})
	}
	data.Page = paging.Slice(rows, paging.ParseStart(r))
	data.Loaded = list.Loaded()

	if r.Header.Get("HX-Target") == "users-list" {
		templates.RenderSnippet(w, "users_list", data)
		return
	}
	templates.Render(w, r, "users_page", data)
}

// findUser loads the account list and picks id out of it. The backend has
// no single-account lookup for admins.
func (h *Handler) findUser(ctx context.Context, sess api.Session, id string) (models.User, bool, error) {
	all, err := h.Users.All(ctx, sess)
	if err != nil {
		return models.User{}, false, err
	}
	for _, acct := range all {
		if acct.ID == id {
			return acct, true, nil
		}
	}
	return models.User{}, false, nil
}
