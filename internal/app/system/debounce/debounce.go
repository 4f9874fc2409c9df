// Package debounce delays propagation of a changing value until input has
// been quiet for a fixed period.
//
// A Debouncer is Idle until Push stages a value, which makes it Pending
// and (re)starts the quiet-period timer. When the timer elapses with no
// further Push, the staged value is emitted exactly once and the
// Debouncer returns to Idle. Flush emits immediately and skips the timer
// (the Enter key). Stop cancels any pending emission permanently.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period used by search inputs.
const DefaultQuiet = 350 * time.Millisecond

// Stopper is the part of *time.Timer the Debouncer needs.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via
// the default option; tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Stopper

type options struct {
	after AfterFunc
}

// Option configures a Debouncer.
type Option func(*options)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(f AfterFunc) Option {
	return func(o *options) { o.after = f }
}

func realAfter(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) }

// Debouncer is safe for concurrent use.
type Debouncer[V any] struct {
	mu      sync.Mutex
	quiet   time.Duration
	emit    func(V)
	after   AfterFunc
	timer   Stopper
	gen     uint64
	pending bool
	stopped bool
	value   V
}

// New returns an idle Debouncer that calls emit with settled values.
// A non-positive quiet uses DefaultQuiet.
func New[V any](quiet time.Duration, emit func(V), opts ...Option) *Debouncer[V] {
	o := options{after: realAfter}
	for _, opt := range opts {
		opt(&o)
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer[V]{quiet: quiet, emit: emit, after: o.after}
}

// Quiet returns the configured quiet period.
func (d *Debouncer[V]) Quiet() time.Duration { return d.quiet }

// Push stages v, replacing any staged value, and restarts the timer.
func (d *Debouncer[V]) Push(v V) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.value = v
	d.pending = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.after(d.quiet, func() { d.fire(gen) })
}

// Flush cancels the timer and emits v now.
func (d *Debouncer[V]) Flush(v V) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	d.mu.Unlock()
	d.emit(v)
}

// Stop cancels any pending emission. Nothing is emitted after Stop.
func (d *Debouncer[V]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.cancelLocked()
}

// Pending reports whether a value is staged and waiting for the timer.
func (d *Debouncer[V]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer[V]) cancelLocked() {
	d.gen++
	d.pending = false
	var zero V
	d.value = zero
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire runs on the timer goroutine. A callback from a superseded timer
// sees a stale generation and does nothing.
func (d *Debouncer[V]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	d.emit(v)
}
