// Package htmlsanitize renders user-authored descriptions safely.
//
// Group, project and profile descriptions come back from the backend
// exactly as users typed them. Most are plain text; some carry simple
// markup. PrepareForDisplay handles both.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").OnElements("table", "tr", "td", "th", "code", "pre")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Sanitize strips anything not permitted for user content.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s contains no tag-like sequence.
func IsPlainText(s string) bool {
	lt := strings.Index(s, "<")
	return lt < 0 || !strings.Contains(s[lt:], ">")
}

// PlainTextToHTML escapes s and wraps it in a paragraph, turning newlines
// into <br>.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	esc := html.EscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return "<p>" + strings.ReplaceAll(esc, "\n", "<br>") + "</p>"
}

// PrepareForDisplay returns markup safe to embed in a page.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}

// FuncMap exposes PrepareForDisplay to templates as "richtext".
func FuncMap() template.FuncMap {
	return template.FuncMap{"richtext": PrepareForDisplay}
}
