package dialog

import (
	"net/http"

	"github.com/dalemusser/skillmatch/internal/app/system/toast"
)

// Client events sent to the dialog element.
const (
	OpenedEvent = "dialogOpened"
	CloseEvent  = "closeDialog"
)

// Announce tells the browser which dialog instance it is now showing.
func Announce[T any](w http.ResponseWriter, d *Dialog[T]) {
	toast.Trigger(w, OpenedEvent, map[string]string{"id": d.ID(), "kind": d.Kind()})
}

// Closer returns a close action that drops the dialog from r, dismisses
// it in the browser and fires each refresh event once.
func (r *Registry[T]) Closer(w http.ResponseWriter, owner, id string, refresh ...string) func() {
	return func() {
		r.Forget(owner, id)
		toast.Trigger(w, CloseEvent, nil)
		for _, ev := range refresh {
			toast.Trigger(w, ev, nil)
		}
	}
}
