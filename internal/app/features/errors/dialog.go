package errors

import (
	"errors"
	"net/http"

	"github.com/dalemusser/skillmatch/internal/app/system/dialog"
)

// Messages shown when a dialog request cannot be served.
const (
	DialogGoneMsg = "This dialog is no longer open. Please open it again."
	DialogBusyMsg = "Still saving. Please wait."
)

// RenderDialogError answers a request against a dialog that expired, was
// closed or is mid-submission. It reports false for any other error so
// the caller can handle it.
func RenderDialogError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case errors.Is(err, dialog.ErrBusy):
		toastOnly(w, r, http.StatusConflict, DialogBusyMsg)
		return true
	case errors.Is(err, dialog.ErrNotOpen):
		RenderNotFound(w, r, DialogGoneMsg, "")
		return true
	}
	return false
}

// RenderDialogGone is RenderDialogError for a dialog id with no entry.
func RenderDialogGone(w http.ResponseWriter, r *http.Request) {
	RenderNotFound(w, r, DialogGoneMsg, "")
}
