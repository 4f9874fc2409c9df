// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/system/authz"
	"github.com/dalemusser/skillmatch/internal/app/system/debounce"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string
	UserID     string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// Search inputs debounce for this long before requesting results.
	SearchQuietMS int64

	// Toasts carried across a redirect.
	Toasts []toast.Toast
}

var (
	mu       sync.RWMutex
	siteName = models.DefaultSiteName
	quiet    = debounce.DefaultQuiet
)

// Init sets site-wide values. Call this once at startup from bootstrap.
func Init(name string, searchQuiet time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if name != "" {
		siteName = name
	}
	if searchQuiet > 0 {
		quiet = searchQuiet
	}
}

// SearchQuiet returns the configured search debounce period.
func SearchQuiet() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return quiet
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, uid, signedIn := authz.UserCtx(r)

	mu.RLock()
	vm := BaseVM{
		SiteName:      siteName,
		SearchQuietMS: quiet.Milliseconds(),
	}
	mu.RUnlock()

	vm.IsLoggedIn = signedIn
	vm.Role = role
	vm.UserName = name
	vm.UserID = uid
	vm.Title = title
	vm.BackURL = httpnav.ResolveBackURL(r, backDefault)
	vm.CurrentPath = httpnav.CurrentPath(r)
	vm.CSRFToken = csrf.Token(r)
	vm.Toasts = toast.FromContext(r)
	return vm
}
