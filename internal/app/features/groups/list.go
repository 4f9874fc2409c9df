// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skillmatch/internal/app/system/listview"
	"github.com/dalemusser/skillmatch/internal/app/system/paging"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Buckets the list is split into, in precedence order.
const (
	BucketInvited = "invited"
	BucketPending = "pending"
	BucketMember  = "member"
	BucketOther   = "other"
)

type groupRow struct {
	models.Group
	Blurb   string
	Size    int
	Full    bool
	CanEdit bool
}

type listData struct {
	viewdata.BaseVM

	Q       string
	Invited []groupRow
	Pending []groupRow
	Member  []groupRow
	Other   paging.Page[groupRow]
	Empty   bool
	LoadErr string
	CanJoin bool
}

func groupFields(g models.Group) []string {
	return []string{g.Name, g.Description}
}

// Partition splits groups for uid by precedence: invited, then pending
// request, then member. Everything else is "other".
func Partition(groups []models.Group, uid string, invites []models.GroupInvite, requests []models.JoinRequest) listview.Buckets[models.Group] {
	invited := listview.NewIDSet(invites, func(i models.GroupInvite) string { return i.GroupID })
	pending := listview.NewIDSet(requests, func(j models.JoinRequest) string { return j.GroupID })
	return listview.Partition(groups, []listview.Rule[models.Group]{
		{Name: BucketInvited, Match: func(g models.Group) bool { return invited.Has(g.ID) }},
		{Name: BucketPending, Match: func(g models.Group) bool { return pending.Has(g.ID) }},
		{Name: BucketMember, Match: func(g models.Group) bool { return g.HasMember(uid) }},
	}, BucketOther)
}

// ServeGroupsList loads groups, invites and join requests concurrently,
// filters by the search string and renders the buckets. htmx requests
// aimed at the list container get only the list.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var (
		invites  []models.GroupInvite
		requests []models.JoinRequest
	)
	list := listview.New(groupFields)
	errs := api.Settle(ctx,
		func(ctx context.Context) error {
			return list.Load(ctx, func(ctx context.Context) ([]models.Group, error) { return h.Groups.All(ctx, u) })
		},
		func(ctx context.Context) (err error) { invites, err = h.Groups.Invites(ctx, u); return },
		func(ctx context.Context) (err error) { requests, err = h.Groups.Requests(ctx, u); return },
	)

	data := listData{
		BaseVM:  viewdata.NewBaseVM(r, "Groups", "/dashboard"),
		Q:       query.Get(r, "q"),
		CanJoin: authz.CanJoinGroups(r),
	}
	if errs[0] != nil {
		h.Log.Warn("load groups failed", zap.Error(errs[0]))
		data.LoadErr = api.Message(errs[0])
		toast.Push(w, r, toast.Error(data.LoadErr))
	}
	for _, err := range errs[1:] {
		if err != nil {
			// The list still renders; invites and requests just go unmarked.
			h.Log.Warn("load group invites/requests failed", zap.Error(err))
		}
	}

	visible := list.ApplyFilter(data.Q)
	b := Partition(visible, u.ID, invites, requests)
	rows := func(gs []models.Group) []groupRow {
		out := make([]groupRow, 0, len(gs))
		for _, g := range gs {
			out = append(out, groupRow{
				Group:   g,
				Blurb:   htmlsanitize.Sanitize(g.Description),
				Size:    len(g.Members),
				Full:    g.IsFull(),
				CanEdit: authz.CanEditGroup(r, g),
			})
		}
		return out
	}
	data.Invited = rows(b.Get(BucketInvited))
	data.Pending = rows(b.Get(BucketPending))
	data.Member = rows(b.Get(BucketMember))
	data.Other = paging.Slice(rows(b.Get(BucketOther)), paging.ParseStart(r))
	data.Empty = list.Loaded() && list.Empty()

	if toast.IsHTMX(r) && r.Header.Get("HX-Target") == "groups-list" {
		templates.RenderSnippet(w, "groups_list", data)
		return
	}
	templates.Render(w, r, "groups_page", data)
}
