// Package dialog implements the edit-dialog state machine shared by every
// create/edit/delete modal.
//
//	Closed --Open--> Open --Confirm--> Submitting --ok--> Closed
//	                  |                    |
//	                  |                    +--error--> Open (edits kept)
//	                  +--Cancel--> Closed (edits discarded)
//
// While Submitting, Confirm and Cancel both return ErrBusy, so a dialog
// never has more than one submission in flight and cannot be dismissed
// underneath one. Every transition into Closed runs the close action
// supplied with that transition exactly once; owners use it to refresh
// the list the dialog was opened from.
package dialog

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// State of a Dialog.
type State int

const (
	Closed State = iota
	Open
	Submitting
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	default:
		return "closed"
	}
}

var (
	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("dialog: submission in progress")
	// ErrNotOpen is returned when editing or confirming a closed dialog.
	ErrNotOpen = errors.New("dialog: not open")
)

// SubmitFunc sends the pending edits. snapshot is the entity as it was
// when the dialog opened.
type SubmitFunc[T any] func(ctx context.Context, snapshot, pending T) error

// Dialog holds one entity snapshot and its pending edit copy.
type Dialog[T any] struct {
	mu       sync.Mutex
	id       string
	kind     string
	state    State
	snapshot T
	pending  T
	clone    func(T) T
}

// New returns a Closed dialog. clone deep-copies T so edits never alias
// the snapshot; nil means T is copied by value.
func New[T any](kind string, clone func(T) T) *Dialog[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Dialog[T]{id: uuid.NewString(), kind: kind, clone: clone}
}

// ID uniquely identifies this dialog instance.
func (d *Dialog[T]) ID() string { return d.id }

// Kind names what the dialog edits, e.g. "group-edit".
func (d *Dialog[T]) Kind() string { return d.kind }

// State returns the current state.
func (d *Dialog[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Open moves a Closed dialog to Open with a fresh copy of snapshot.
// Opening an already open dialog keeps its current edits.
func (d *Dialog[T]) Open(snapshot T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case Submitting:
		return ErrBusy
	case Open:
		return nil
	}
	d.snapshot = d.clone(snapshot)
	d.pending = d.clone(snapshot)
	d.state = Open
	return nil
}

// Snapshot returns a copy of the entity as it was when opened.
func (d *Dialog[T]) Snapshot() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clone(d.snapshot)
}

// Pending returns a copy of the current edits.
func (d *Dialog[T]) Pending() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clone(d.pending)
}

// Edit applies fn to the pending copy.
func (d *Dialog[T]) Edit(fn func(*T)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case Submitting:
		return ErrBusy
	case Closed:
		return ErrNotOpen
	}
	fn(&d.pending)
	return nil
}

// Rebase applies fn to the snapshot of an open dialog. Fields saved on
// their own (on blur) are rebased so a later Confirm does not send them
// again.
func (d *Dialog[T]) Rebase(fn func(snapshot *T)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case Submitting:
		return ErrBusy
	case Closed:
		return ErrNotOpen
	}
	fn(&d.snapshot)
	return nil
}

// Confirm submits the pending edits. On success the dialog closes and
// onClose runs. On failure the dialog returns to Open with edits intact,
// onClose does not run and the submit error is returned.
func (d *Dialog[T]) Confirm(ctx context.Context, submit SubmitFunc[T], onClose func()) error {
	d.mu.Lock()
	switch d.state {
	case Submitting:
		d.mu.Unlock()
		return ErrBusy
	case Closed:
		d.mu.Unlock()
		return ErrNotOpen
	}
	d.state = Submitting
	snap, pend := d.clone(d.snapshot), d.clone(d.pending)
	d.mu.Unlock()

	if err := submit(ctx, snap, pend); err != nil {
		d.mu.Lock()
		d.state = Open
		d.mu.Unlock()
		return err
	}

	d.closeWith(onClose)
	return nil
}

// Cancel discards the pending edits and closes the dialog. Cancelling a
// closed dialog does nothing.
func (d *Dialog[T]) Cancel(onClose func()) error {
	d.mu.Lock()
	switch d.state {
	case Submitting:
		d.mu.Unlock()
		return ErrBusy
	case Closed:
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()
	d.closeWith(onClose)
	return nil
}

func (d *Dialog[T]) closeWith(onClose func()) {
	d.mu.Lock()
	var zero T
	d.snapshot, d.pending = zero, zero
	d.state = Closed
	d.mu.Unlock()
	if onClose != nil {
		onClose()
	}
}
