// internal/app/features/projects/handler.go
package projects

import (
	"slices"
	"time"

	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	projectstore "github.com/dalemusser/skillmatch/internal/app/store/projects"
	"github.com/dalemusser/skillmatch/internal/app/system/auditlog"
	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"go.uber.org/zap"
)

// Refresh is the client event that reloads project lists and details.
const Refresh = "projects-refresh"

// FieldErrorsEvent carries inline field messages to the open dialog.
const FieldErrorsEvent = "fieldErrors"

// Handler owns the project list, detail page and dialogs.
type Handler struct {
	Projects *projectstore.Store
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	CreateDialogs *dialog.Registry[projectstore.NewProject]
	EditDialogs   *dialog.Registry[models.Project]
}

func NewHandler(projects *projectstore.Store, audit *auditlog.Logger, dialogTTL time.Duration, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Projects:      projects,
		AuditLog:      audit,
		ErrLog:        errLog,
		Log:           logger,
		CreateDialogs: dialog.NewRegistry[projectstore.NewProject]("project-create", dialogTTL, nil),
		EditDialogs:   dialog.NewRegistry("project-edit", dialogTTL, cloneProject),
	}
}

// Stop ends the dialog expiry loops.
func (h *Handler) Stop() {
	h.CreateDialogs.Stop()
	h.EditDialogs.Stop()
}

func cloneProject(p models.Project) models.Project {
	p.Topics = slices.Clone(p.Topics)
	p.Skills = slices.Clone(p.Skills)
	p.Outcomes = slices.Clone(p.Outcomes)
	return p
}
