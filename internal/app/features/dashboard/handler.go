// internal/app/features/dashboard/handler.go
package dashboard

import (
	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	recommendstore "github.com/dalemusser/skillmatch/internal/app/store/recommendations"
	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves the signed-in landing page: recommended groups and
// projects for the user, plus a role refresh.
type Handler struct {
	Recs       *recommendstore.Store
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(recs *recommendstore.Store, users *userstore.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Recs:       recs,
		Users:      users,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}
