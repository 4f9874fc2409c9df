// internal/app/features/recommendations/handler.go
package recommendations

import (
	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	projectstore "github.com/dalemusser/skillmatch/internal/app/store/projects"
	recommendstore "github.com/dalemusser/skillmatch/internal/app/store/recommendations"
	"go.uber.org/zap"
)

// Handler serves the skill-gap page for one project.
type Handler struct {
	Recs     *recommendstore.Store
	Projects *projectstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(recs *recommendstore.Store, projects *projectstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Recs: recs, Projects: projects, ErrLog: errLog, Log: logger}
}
