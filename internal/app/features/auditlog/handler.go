// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	"github.com/dalemusser/skillmatch/internal/app/store/audit"
	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler serves the admin audit log. Events is nil when no audit
// database is configured.
type Handler struct {
	Events *audit.Store
	Users  *userstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an Audit Log feature handler.
func NewHandler(events *audit.Store, users *userstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Users:  users,
		Log:    logger,
		ErrLog: errLog,
	}
}
