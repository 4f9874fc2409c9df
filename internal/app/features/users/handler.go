// internal/app/features/users/handler.go
package users

import (
	"time"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"github.com/dalemusser/skillmatch/internal/app/system/auditlog"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"go.uber.org/zap"
)

// Refresh is the client event that reloads the user table.
const Refresh = "users-refresh"

// RoleChange is the Change Role dialog state.
type RoleChange struct {
	UserID string
	Name   string
	From   string
	To     string
}

// Handler serves admin account management.
type Handler struct {
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	RoleDialogs   *dialog.Registry[RoleChange]
	DeleteDialogs *dialog.Registry[models.User]
}

// NewHandler constructs the admin users handler.
func NewHandler(users *userstore.Store, audit *auditlog.Logger, dialogTTL time.Duration, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:         users,
		AuditLog:      audit,
		ErrLog:        errLog,
		Log:           logger,
		RoleDialogs:   dialog.NewRegistry[RoleChange]("user-role", dialogTTL, nil),
		DeleteDialogs: dialog.NewRegistry[models.User]("user-delete", dialogTTL, nil),
	}
}

// Stop ends the dialog expiry loops.
func (h *Handler) Stop() {
	h.RoleDialogs.Stop()
	h.DeleteDialogs.Stop()
}
