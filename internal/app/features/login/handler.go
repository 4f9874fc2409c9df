// internal/app/features/login/handler.go
package login

import (
	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"github.com/dalemusser/skillmatch/internal/app/system/auditlog"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/formutil"
	"github.com/dalemusser/skillmatch/internal/app/system/ratelimit"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	formutil.Form
	Email     string
	ReturnURL string
}

type registerFormData struct {
	viewdata.BaseVM
	formutil.Form
	FirstName string
	LastName  string
	Email     string
}

type verifyFormData struct {
	viewdata.BaseVM
	formutil.Form
	UserID string
}
