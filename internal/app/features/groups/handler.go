// internal/app/features/groups/handler.go
package groups

import (
	"slices"
	"time"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	groupstore "github.com/dalemusser/skillmatch/internal/app/store/groups"
	"github.com/dalemusser/skillmatch/internal/app/system/auditlog"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"go.uber.org/zap"
)

// Refresh is the client event that reloads the groups list.
const Refresh = "groups-refresh"

// Handler owns the groups list and its create, edit and invite dialogs.
type Handler struct {
	Groups   *groupstore.Store
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	CreateDialogs *dialog.Registry[groupstore.NewGroup]
	EditDialogs   *dialog.Registry[models.Group]
	InviteDialogs *dialog.Registry[Invitation]
}

func NewHandler(groups *groupstore.Store, audit *auditlog.Logger, dialogTTL time.Duration, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:        groups,
		AuditLog:      audit,
		ErrLog:        errLog,
		Log:           logger,
		CreateDialogs: dialog.NewRegistry[groupstore.NewGroup]("group-create", dialogTTL, nil),
		EditDialogs:   dialog.NewRegistry("group-edit", dialogTTL, cloneGroup),
		InviteDialogs: dialog.NewRegistry[Invitation]("group-invite", dialogTTL, nil),
	}
}

// Stop ends the dialog expiry loops.
func (h *Handler) Stop() {
	h.CreateDialogs.Stop()
	h.EditDialogs.Stop()
	h.InviteDialogs.Stop()
}

func cloneGroup(g models.Group) models.Group {
	g.Members = slices.Clone(g.Members)
	return g
}
