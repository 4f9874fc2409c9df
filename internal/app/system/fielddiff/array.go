package fielddiff

import (
	"context"
	"slices"
	"strings"
)

// ArrayOp is an edit to a list field.
type ArrayOp int

const (
	Add ArrayOp = iota
	Remove
)

// ParseArrayOp maps a form value ("add" or "remove").
func ParseArrayOp(s string) (ArrayOp, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add":
		return Add, true
	case "remove":
		return Remove, true
	}
	return 0, false
}

// ApplyArrayEdit returns the list after op and whether its content
// changed. current is never modified. Adding a blank or present value and
// removing an absent one are no-ops.
func ApplyArrayEdit(current []string, op ArrayOp, value string) ([]string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return slices.Clone(current), false
	}
	idx := slices.Index(current, value)
	switch op {
	case Add:
		if idx >= 0 {
			return slices.Clone(current), false
		}
		return append(slices.Clone(current), value), true
	case Remove:
		if idx < 0 {
			return slices.Clone(current), false
		}
		return slices.Delete(slices.Clone(current), idx, idx+1), true
	}
	return slices.Clone(current), false
}

// SubmitArrayEdit applies op and, when the content changed, immediately
// sends the complete resulting list. It returns the list the caller
// should show: the new one on success, the original otherwise.
func SubmitArrayEdit(ctx context.Context, current []string, op ArrayOp, value string, submit func(context.Context, []string) error) ([]string, bool, error) {
	next, changed := ApplyArrayEdit(current, op, value)
	if !changed {
		return current, false, nil
	}
	if err := submit(ctx, next); err != nil {
		return current, false, err
	}
	return next, true, nil
}
