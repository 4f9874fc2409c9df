// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and then shows the
// user a friendly message. Full-page requests get an error page; htmx
// requests get a destructive toast.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

// LogServerError logs at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	if toast.IsHTMX(r) {
		toastOnly(w, r, http.StatusInternalServerError, userMsg)
		return
	}
	render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, fallback(backURL))
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	if toast.IsHTMX(r) {
		toastOnly(w, r, http.StatusBadRequest, userMsg)
		return
	}
	render(w, r, http.StatusBadRequest, "Bad request", userMsg, fallback(backURL))
}

// LogForbidden logs at warn level and renders the access denied page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogBackendError handles a failed backend call made for the user. htmx
// requests get a 200 with a destructive toast and no swap, so the dialog
// or list on screen stays as it was.
func (e *ErrorLogger) LogBackendError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	if toast.IsHTMX(r) {
		toastOnly(w, r, http.StatusOK, userMsg)
		return
	}
	render(w, r, http.StatusBadGateway, "Something went wrong", userMsg, fallback(backURL))
}

func fallback(u string) string {
	if u == "" {
		return "/"
	}
	return u
}
