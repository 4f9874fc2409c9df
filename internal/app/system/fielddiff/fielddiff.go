// Package fielddiff converges backend state with an edited form by issuing
// one call per changed field instead of one combined update.
//
// Each Field knows how to tell whether it changed relative to the snapshot
// and how to turn the form into the call that saves it. Submit first
// prepares every changed field (local checks such as probing an image URL)
// and issues nothing if any preparation fails. Otherwise it fires all calls
// concurrently, waits for every one of them, and reports which saved and
// which failed. A failed call does not cancel the others.
package fielddiff

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Call saves one field.
type Call func(ctx context.Context) error

// Field is one independently saved field, or a group of fields the backend
// validates together (first/last name, min/max size).
type Field[T any] struct {
	Name    string
	Changed func(snapshot, form T) bool
	// Prepare builds the call for the form's value. An error becomes an
	// inline message for this field and blocks the whole submission.
	Prepare func(ctx context.Context, form T) (Call, error)
}

// Invalid is a local, user-facing field error.
type Invalid struct {
	Message string
	Err     error
}

func (e *Invalid) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Invalid) Unwrap() error { return e.Err }

// Failure is a field whose call was rejected.
type Failure struct {
	Field string
	Err   error
}

// Outcome summarises one submission.
type Outcome struct {
	Issued      []string          // fields whose calls were sent, in field order
	Saved       bool              // at least one call succeeded
	Failures    []Failure         // rejected calls, in field order
	FieldErrors map[string]string // local errors; when set nothing was sent
}

// Blocked reports whether local errors prevented any call.
func (o Outcome) Blocked() bool { return len(o.FieldErrors) > 0 }

// Err combines every failure, or returns nil.
func (o Outcome) Err() error {
	var err error
	for _, f := range o.Failures {
		err = multierr.Append(err, fmt.Errorf("%s: %w", f.Field, f.Err))
	}
	for name, msg := range o.FieldErrors {
		err = multierr.Append(err, fmt.Errorf("%s: %s", name, msg))
	}
	return err
}

// Changed returns the names of the fields that differ between snapshot
// and form.
func Changed[T any](snapshot, form T, fields []Field[T]) []string {
	var out []string
	for _, f := range fields {
		if f.Changed(snapshot, form) {
			out = append(out, f.Name)
		}
	}
	return out
}

// Submit issues one call for each field that changed. Unchanged forms
// produce no calls.
func Submit[T any](ctx context.Context, snapshot, form T, fields []Field[T]) Outcome {
	type ready struct {
		name string
		call Call
	}

	var calls []ready
	var out Outcome
	for _, f := range fields {
		if !f.Changed(snapshot, form) {
			continue
		}
		call, err := f.Prepare(ctx, form)
		if err != nil {
			if out.FieldErrors == nil {
				out.FieldErrors = make(map[string]string)
			}
			out.FieldErrors[f.Name] = Message(err)
			continue
		}
		calls = append(calls, ready{name: f.Name, call: call})
	}
	if out.Blocked() || len(calls) == 0 {
		return out
	}

	errs := make([]error, len(calls))
	var g errgroup.Group
	for i, c := range calls {
		g.Go(func() error {
			errs[i] = c.call(ctx)
			return nil
		})
	}
	_ = g.Wait()

	for i, c := range calls {
		out.Issued = append(out.Issued, c.name)
		if errs[i] != nil {
			out.Failures = append(out.Failures, Failure{Field: c.name, Err: errs[i]})
			continue
		}
		out.Saved = true
	}
	return out
}

// Message returns the inline text for a Prepare error.
func Message(err error) string {
	var inv *Invalid
	if errors.As(err, &inv) {
		return inv.Message
	}
	return err.Error()
}

// Scalar is a field holding one comparable value.
func Scalar[T any, V comparable](name string, get func(T) V, submit func(context.Context, V) error) Field[T] {
	return Field[T]{
		Name:    name,
		Changed: func(s, f T) bool { return get(s) != get(f) },
		Prepare: func(_ context.Context, form T) (Call, error) {
			v := get(form)
			return func(ctx context.Context) error { return submit(ctx, v) }, nil
		},
	}
}

// Pair is two values saved by a single call. A change to either sends both.
func Pair[T any, A, B comparable](name string, getA func(T) A, getB func(T) B, submit func(context.Context, A, B) error) Field[T] {
	return Field[T]{
		Name: name,
		Changed: func(s, f T) bool {
			return getA(s) != getA(f) || getB(s) != getB(f)
		},
		Prepare: func(_ context.Context, form T) (Call, error) {
			a, b := getA(form), getB(form)
			return func(ctx context.Context) error { return submit(ctx, a, b) }, nil
		},
	}
}

// Strings is a list field compared by value.
func Strings[T any](name string, get func(T) []string, submit func(context.Context, []string) error) Field[T] {
	return Field[T]{
		Name:    name,
		Changed: func(s, f T) bool { return !slices.Equal(get(s), get(f)) },
		Prepare: func(_ context.Context, form T) (Call, error) {
			v := slices.Clone(get(form))
			return func(ctx context.Context) error { return submit(ctx, v) }, nil
		},
	}
}

// Check wraps a field with a local validation that runs before anything
// is sent. check returns a user-facing message, or "" when valid.
func Check[T any](f Field[T], check func(T) string) Field[T] {
	prepare := f.Prepare
	f.Prepare = func(ctx context.Context, form T) (Call, error) {
		if msg := check(form); msg != "" {
			return nil, &Invalid{Message: msg}
		}
		return prepare(ctx, form)
	}
	return f
}
