// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/skillmatch/internal/app/store/audit"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	ID         string
	Timestamp  time.Time
	Category   string
	EventType  string
	ActorName  string // resolved from ActorID
	TargetName string // resolved from UserID
	IP         string
	Success    bool
	Reason     string
	Details    map[string]string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	// Disabled is set when events are only written to the log stream.
	Disabled bool

	Items []listItem

	// Filters
	Category  string
	EventType string
	StartDate string
	EndDate   string

	// Filter options
	Categories []categoryOption
	EventTypes []string

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	Shown      int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

type categoryOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
		audit.EventRegistered,
		audit.EventVerified,
		audit.EventVerificationFailed,
	}
	adminEvents := []string{
		audit.EventUserRoleChanged,
		audit.EventUserDeleted,
		audit.EventGroupCreated,
		audit.EventProjectCreated,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}
