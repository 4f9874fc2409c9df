// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/groups", "/projects").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit", "/delete", "/new").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string

	// PreserveQueryParam is an optional query parameter to preserve in the fallback URL.
	// For example, "q" keeps the list's search text when returning to it.
	PreserveQueryParam string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect), optionally validates the prefix,
// and excludes specified subpaths to prevent redirect loops.
//
// Example usage:
//
//	back := navigation.SafeBackURL(r, navigation.BackURLOptions{
//	    AllowedPrefix:      "/projects",
//	    ExcludedSubpaths:   []string{"/edit"},
//	    Fallback:           "/projects",
//	    PreserveQueryParam: "q",
//	})
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	// Try query parameter first, then form value
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	// Validate against allowed prefix if specified
	if ret != "" {
		valid := true

		if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
			valid = false
		}

		// Check excluded subpaths
		for _, excluded := range opts.ExcludedSubpaths {
			if strings.Contains(ret, excluded) {
				valid = false
				break
			}
		}

		if valid {
			return ret
		}
	}

	// Build fallback URL, optionally preserving a query parameter
	fallback := opts.Fallback
	if opts.PreserveQueryParam != "" {
		param := query.Get(r, opts.PreserveQueryParam)
		if param == "" {
			param = strings.TrimSpace(r.FormValue(opts.PreserveQueryParam))
		}
		if param != "" {
			sep := "?"
			if strings.Contains(fallback, "?") {
				sep = "&"
			}
			fallback += sep + opts.PreserveQueryParam + "=" + url.QueryEscape(param)
		}
	}

	return fallback
}

// Back URL configurations for the list pages.
var (
	CoursesBackURL = BackURLOptions{
		AllowedPrefix: "/courses",
		Fallback:      "/courses",
	}

	GroupsBackURL = BackURLOptions{
		AllowedPrefix:    "/groups",
		ExcludedSubpaths: []string{"/edit", "/new", "/dialog"},
		Fallback:         "/groups",
	}

	ProjectsBackURL = BackURLOptions{
		AllowedPrefix:    "/projects",
		ExcludedSubpaths: []string{"/edit", "/new", "/dialog"},
		Fallback:         "/projects",
	}

	UsersBackURL = BackURLOptions{
		AllowedPrefix:    "/users",
		ExcludedSubpaths: []string{"/role", "/delete", "/dialog"},
		Fallback:         "/users",
	}
)
