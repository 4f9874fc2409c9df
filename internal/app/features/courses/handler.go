// internal/app/features/courses/handler.go
package courses

import (
	uierrors "github.com/dalemusser/skillmatch/internal/app/features/errors"
	coursestore "github.com/dalemusser/skillmatch/internal/app/store/courses"
	"go.uber.org/zap"
)

// Handler serves the course catalogue.
type Handler struct {
	Courses *coursestore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(courses *coursestore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Courses: courses, ErrLog: errLog, Log: logger}
}
