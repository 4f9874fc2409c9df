// Package toast delivers transient notifications to the browser.
//
// HTMX requests receive them as a "showToast" event in the HX-Trigger
// response header, merged with any other events the handler triggers (list
// refreshes). Full-page requests that redirect carry them across the
// redirect in a short-lived signed cookie; Middleware moves that cookie
// into the request context for the next render and clears it.
package toast

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// Variant selects the toast styling.
type Variant string

const (
	Default     Variant = "default"
	Success     Variant = "success"
	Destructive Variant = "destructive"
)

// Toast is one notification.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant"`
}

// Error builds a destructive toast whose title is msg verbatim.
func Error(msg string) Toast { return Toast{Title: msg, Variant: Destructive} }

// Info builds a success toast.
func Info(title, desc string) Toast { return Toast{Title: title, Description: desc, Variant: Success} }

// Event is the client-side event name a toast is delivered under.
const Event = "showToast"

const cookieName = "skillmatch-toast"

// Notifier pushes toasts for one application.
type Notifier struct {
	codec  *securecookie.SecureCookie
	secure bool
	log    *zap.Logger
}

// New returns a Notifier signing its cookie with hashKey.
func New(hashKey []byte, secure bool, logger *zap.Logger) *Notifier {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(60)
	return &Notifier{codec: codec, secure: secure, log: logger}
}

type ctxKey struct{}

var std = New(securecookie.GenerateRandomKey(32), false, zap.NewNop())

// Use installs n as the notifier behind the package-level Push. Call it
// once at startup.
func Use(n *Notifier) {
	if n != nil {
		std = n
	}
}

// Push queues toasts through the notifier installed with Use.
func Push(w http.ResponseWriter, r *http.Request, ts ...Toast) {
	std.Push(w, r, ts...)
}

// Push queues toasts for the user. It must run before the response
// status is written.
func (n *Notifier) Push(w http.ResponseWriter, r *http.Request, ts ...Toast) {
	if len(ts) == 0 {
		return
	}
	if IsHTMX(r) {
		for _, t := range ts {
			appendTrigger(w, t)
		}
		return
	}

	pending := append(n.pendingFrom(w), ts...)
	val, err := n.codec.Encode(cookieName, pending)
	if err != nil {
		n.log.Warn("toast cookie encode failed", zap.Error(err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    val,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   n.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware loads toasts carried across a redirect into the request
// context and expires the cookie.
func (n *Notifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(cookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		var ts []Toast
		if err := n.codec.Decode(cookieName, c.Value, &ts); err != nil {
			n.log.Debug("discarding unreadable toast cookie", zap.Error(err))
		}
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
		if len(ts) > 0 {
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, ts))
		}
		next.ServeHTTP(w, r)
	})
}

// FromContext returns the toasts carried into this request.
func FromContext(r *http.Request) []Toast {
	ts, _ := r.Context().Value(ctxKey{}).([]Toast)
	return ts
}

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Trigger adds a client event to the HX-Trigger header, keeping events
// already set. detail may be nil.
func Trigger(w http.ResponseWriter, event string, detail any) {
	events := readTriggers(w)
	if detail == nil {
		detail = map[string]any{}
	}
	events[event] = detail
	writeTriggers(w, events)
}

/*─────────────────────────────────────────────────────────────────────────────*/

type toastBatch struct {
	Toasts []Toast `json:"toasts"`
}

func appendTrigger(w http.ResponseWriter, t Toast) {
	events := readTriggers(w)
	var batch toastBatch
	if raw, ok := events[Event]; ok {
		if b, err := json.Marshal(raw); err == nil {
			_ = json.Unmarshal(b, &batch)
		}
	}
	batch.Toasts = append(batch.Toasts, t)
	events[Event] = batch
	writeTriggers(w, events)
}

func readTriggers(w http.ResponseWriter) map[string]any {
	events := map[string]any{}
	if cur := w.Header().Get("HX-Trigger"); cur != "" {
		if err := json.Unmarshal([]byte(cur), &events); err != nil {
			// A bare event name.
			events = map[string]any{cur: map[string]any{}}
		}
	}
	return events
}

func writeTriggers(w http.ResponseWriter, events map[string]any) {
	b, err := json.Marshal(events)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}

// pendingFrom decodes (and removes) a toast cookie already set on this
// response so repeated Push calls accumulate.
func (n *Notifier) pendingFrom(w http.ResponseWriter) []Toast {
	var out []Toast
	kept := w.Header()["Set-Cookie"][:0]
	for _, line := range w.Header()["Set-Cookie"] {
		c, err := http.ParseSetCookie(line)
		if err != nil || c.Name != cookieName {
			kept = append(kept, line)
			continue
		}
		var ts []Toast
		if err := n.codec.Decode(cookieName, c.Value, &ts); err == nil {
			out = append(out, ts...)
		}
	}
	if len(kept) == 0 {
		w.Header().Del("Set-Cookie")
	} else {
		w.Header()["Set-Cookie"] = kept
	}
	return out
}
