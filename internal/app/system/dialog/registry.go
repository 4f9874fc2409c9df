package dialog

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultTTL bounds how long an abandoned dialog is kept.
const DefaultTTL = 30 * time.Minute

// Registry keeps the open dialogs of one kind across requests. Dialogs are
// keyed by owner (the signed-in user's id) and dialog id so a user can
// only reach their own. Entries expire after the TTL.
type Registry[T any] struct {
	kind  string
	clone func(T) T
	cache *ttlcache.Cache[string, *Dialog[T]]
}

// NewRegistry starts a registry and its expiry loop. Call Stop on shutdown.
func NewRegistry[T any](kind string, ttl time.Duration, clone func(T) T) *Registry[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := ttlcache.New[string, *Dialog[T]](
		ttlcache.WithTTL[string, *Dialog[T]](ttl),
	)
	go cache.Start()
	return &Registry[T]{kind: kind, clone: clone, cache: cache}
}

func key(owner, id string) string { return owner + "|" + id }

// Open creates a dialog for owner, opens it on snapshot and stores it.
func (r *Registry[T]) Open(owner string, snapshot T) *Dialog[T] {
	d := New(r.kind, r.clone)
	_ = d.Open(snapshot)
	r.cache.Set(key(owner, d.ID()), d, ttlcache.DefaultTTL)
	return d
}

// Get returns owner's dialog with the given id.
func (r *Registry[T]) Get(owner, id string) (*Dialog[T], bool) {
	item := r.cache.Get(key(owner, id))
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Forget drops a dialog, normally from its close action.
func (r *Registry[T]) Forget(owner, id string) {
	r.cache.Delete(key(owner, id))
}

// Len reports how many dialogs are tracked.
func (r *Registry[T]) Len() int { return r.cache.Len() }

// Stop ends the expiry loop.
func (r *Registry[T]) Stop() { r.cache.Stop() }
