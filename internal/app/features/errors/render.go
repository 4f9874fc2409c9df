// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	nav "github.com/dalemusser/waffle/pantry/httpnav"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	if toast.IsHTMX(r) {
		w.Header().Set("HX-Redirect", backURL)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	render(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = nav.ResolveBackURL(r, "/")
	}
	if toast.IsHTMX(r) {
		toastOnly(w, r, http.StatusForbidden, msg)
		return
	}
	render(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}

// RenderNotFound shows the not-found page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = nav.ResolveBackURL(r, "/")
	}
	if toast.IsHTMX(r) {
		toastOnly(w, r, http.StatusNotFound, msg)
		return
	}
	render(w, r, http.StatusNotFound, "Not found", msg, backURL)
}

// toastOnly answers an htmx request with a destructive toast and no swap,
// so whatever the user was looking at stays on screen.
func toastOnly(w http.ResponseWriter, r *http.Request, status int, msg string) {
	toast.Push(w, r, toast.Error(msg))
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(status)
}
