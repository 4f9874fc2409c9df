// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// Limiter is a per-key token bucket. Buckets idle for longer than the
// refill window are evicted. It is safe for concurrent use.
type Limiter struct {
	limit  rate.Limit
	burst  int
	bucket *ttlcache.Cache[string, *rate.Limiter]
}

// New allows `limit` requests per `window` per key, refilling evenly.
func New(limit int, window time.Duration) *Limiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	cache := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](2 * window),
	)
	go cache.Start()
	return &Limiter{
		limit:  rate.Every(window / time.Duration(limit)),
		burst:  limit,
		bucket: cache,
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	item, _ := l.bucket.GetOrSet(key, rate.NewLimiter(l.limit, l.burst))
	return item.Value()
}

// Allow reports whether a request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Remaining returns roughly how many requests key may still make now.
func (l *Limiter) Remaining(key string) int {
	item := l.bucket.Get(key, ttlcache.WithDisableTouchOnHit[string, *rate.Limiter]())
	if item == nil {
		return l.burst
	}
	n := int(item.Value().Tokens())
	if n < 0 {
		return 0
	}
	return n
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.bucket.Delete(key)
}

// Stop ends the eviction loop.
func (l *Limiter) Stop() {
	l.bucket.Stop()
}

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter guards the sign-in and verification forms by client IP and
// by the email being attempted.
type LoginLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewLoginLimiter allows ipLimit attempts per window per IP, and half as
// many (at least one) per email.
func NewLoginLimiter(ipLimit int, window time.Duration) *LoginLimiter {
	emailLimit := ipLimit / 2
	if emailLimit < 1 {
		emailLimit = 1
	}
	return &LoginLimiter{
		ip:    New(ipLimit, window),
		email: New(emailLimit, window),
	}
}

// Check verifies if a login attempt should be allowed.
// Returns (allowed, reason) where reason is user-facing.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if key := emailKey(email); key != "" {
		if !ll.email.Allow(key) {
			return false, "Too many login attempts for this account. Please wait a few minutes."
		}
	}
	return true, ""
}

// ResetEmail clears the per-account limit after a successful login.
func (ll *LoginLimiter) ResetEmail(email string) {
	if key := emailKey(email); key != "" {
		ll.email.Reset(key)
	}
}

// Stop ends both eviction loops.
func (ll *LoginLimiter) Stop() {
	ll.ip.Stop()
	ll.email.Stop()
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
