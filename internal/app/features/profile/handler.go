// internal/app/features/profile/handler.go
package profile

import (
	"slices"
	"time"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	coursestore "github.com/dalemusser/skillmatch/internal/app/store/courses"
	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/app/system/imageprobe"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"go.uber.org/zap"
)

// Client events that make the profile page reload its sections.
const (
	ProfileRefresh = "profile-refresh"
	CoursesRefresh = "courses-refresh"
)

// Handler owns the profile page, the Edit Profile dialog and the Add
// Course dialog.
type Handler struct {
	Users   *userstore.Store
	Courses *coursestore.Store
	Prober  imageprobe.Prober
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	EditDialogs   *dialog.Registry[models.User]
	CourseDialogs *dialog.Registry[CourseSelection]
}

// NewHandler constructs a Handler. dialogTTL bounds how long an abandoned
// dialog is kept; call Stop on shutdown.
func NewHandler(users *userstore.Store, courses *coursestore.Store, prober imageprobe.Prober, dialogTTL time.Duration, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:         users,
		Courses:       courses,
		Prober:        prober,
		ErrLog:        errLog,
		Log:           logger,
		EditDialogs:   dialog.NewRegistry("profile-edit", dialogTTL, cloneUser),
		CourseDialogs: dialog.NewRegistry("course-add", dialogTTL, cloneSelection),
	}
}

// Stop ends the dialog expiry loops.
func (h *Handler) Stop() {
	h.EditDialogs.Stop()
	h.CourseDialogs.Stop()
}

func cloneUser(u models.User) models.User {
	u.Skills = slices.Clone(u.Skills)
	return u
}
