// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/store/audit"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const pageSize = 50

// ServeList handles GET /audit - the audit log with category, event and
// date filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Audit Log", "/dashboard"),
		Category:   query.Get(r, "category"),
		EventType:  query.Get(r, "event_type"),
		StartDate:  query.Get(r, "start_date"),
		EndDate:    query.Get(r, "end_date"),
		Categories: allCategories(),
		Page:       1,
		TotalPages: 1,
	}
	data.EventTypes = eventTypesForCategory(data.Category)
	if h.Events == nil {
		data.Disabled = true
		templates.Render(w, r, "audit_list", data)
		return
	}

	if p, err := strconv.Atoi(query.Get(r, "page")); err == nil && p > 0 {
		data.Page = p
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	filter := audit.QueryFilter{
		Category:  data.Category,
		EventType: data.EventType,
		Limit:     pageSize,
		Offset:    int64((data.Page - 1) * pageSize),
	}
	if t, err := time.Parse("2006-01-02", data.StartDate); err == nil {
		filter.StartTime = &t
	}
	if t, err := time.Parse("2006-01-02", data.EndDate); err == nil {
		endOfDay := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &endOfDay
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "A database error occurred.", "/dashboard")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "A database error occurred.", "/dashboard")
		return
	}

	// Names come from the backend; an unknown id is shown as-is.
	names := map[string]string{}
	if users, err := h.Users.All(ctx, u); err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
	} else {
		for _, acct := range users {
			names[acct.ID] = acct.FullName()
		}
	}
	nameOf := func(id string) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return id
	}

	data.Items = make([]listItem, 0, len(events))
	for _, e := range events {
		data.Items = append(data.Items, listItem{
			ID:         e.ID.Hex(),
			Timestamp:  e.Timestamp,
			Category:   e.Category,
			EventType:  strings.ReplaceAll(e.EventType, "_", " "),
			ActorName:  nameOf(e.ActorID),
			TargetName: nameOf(e.UserID),
			IP:         e.IP,
			Success:    e.Success,
			Reason:     e.FailureReason,
			Details:    e.Details,
		})
	}

	data.Total = total
	data.Shown = len(data.Items)
	data.TotalPages = max(int((total+pageSize-1)/pageSize), 1)
	data.HasPrev = data.Page > 1
	data.HasNext = data.Page < data.TotalPages
	data.PrevPage = max(data.Page-1, 1)
	data.NextPage = min(data.Page+1, data.TotalPages)

	templates.Render(w, r, "audit_list", data)
}
