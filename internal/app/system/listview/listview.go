// Package listview holds a fetched collection in memory and derives the
// subset a page shows from a search string.
//
// A List is owned by one page (or one live-search socket). Load replaces
// the collection from the backend; ApplyFilter only recomputes the visible
// subset and never re-fetches. Matching is case- and diacritic-insensitive
// substring search over the fields returned by the List's extractor.
package listview

import (
	"context"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/text"
)

// Fields returns the searchable text of an item.
type Fields[T any] func(T) []string

// List is safe for concurrent use.
type List[T any] struct {
	mu      sync.RWMutex
	fields  Fields[T]
	items   []T
	visible []T
	query   string
	loaded  bool
}

// New returns an empty List searching the given fields.
func New[T any](fields func(T) []string) *List[T] {
	return &List[T]{fields: fields}
}

// Load fetches the full collection. On error the previous collection and
// visible subset are left untouched and the error is returned for the
// caller to surface.
func (l *List[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	items, err := fetch(ctx)
	if err != nil {
		return err
	}
	l.Replace(items)
	return nil
}

// Replace installs items as the collection and re-applies the current query.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	l.loaded = true
	l.visible = Filter(l.items, l.fields, l.query)
}

// ApplyFilter sets the search string and returns the new visible subset.
func (l *List[T]) ApplyFilter(q string) []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = q
	l.visible = Filter(l.items, l.fields, q)
	return append([]T(nil), l.visible...)
}

// Visible returns a copy of the current visible subset.
func (l *List[T]) Visible() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.visible...)
}

// Items returns a copy of the whole collection.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

// Query returns the active search string.
func (l *List[T]) Query() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.query
}

// Loaded reports whether a collection has been installed.
func (l *List[T]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Empty reports whether nothing is visible. Pages render their
// empty-state (or a loading skeleton before Loaded) in that case.
func (l *List[T]) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.visible) == 0
}

// Filter returns the items whose fields contain q. A blank q returns all
// items.
func Filter[T any](items []T, fields func(T) []string, q string) []T {
	q = strings.TrimSpace(q)
	if q == "" || fields == nil {
		return append([]T(nil), items...)
	}
	needle := text.Fold(q)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matchFolded(fields(it), needle) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether any field contains q.
func Matches(fields []string, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	return matchFolded(fields, text.Fold(q))
}

func matchFolded(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(text.Fold(f), needle) {
			return true
		}
	}
	return false
}
