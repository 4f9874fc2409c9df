// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 50

// ModalPageSize is a smaller page size for pickers inside dialogs.
const ModalPageSize = 10

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start     int // 1-based start index (0 if no results)
	End       int // 1-based end index (0 if no results)
	PrevStart int // start value for previous page link
	NextStart int // start value for next page link
}

// computeRangeWithSize calculates display range values given the current
// start index and number of items shown.
func computeRangeWithSize(start, shown, pageSize int) Range {
	if shown == 0 {
		return Range{Start: 0, End: 0, PrevStart: 1, NextStart: 1}
	}

	prevStart := start - pageSize
	if prevStart < 1 {
		prevStart = 1
	}

	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: prevStart,
		NextStart: start + shown,
	}
}

// Page is one window over an in-memory list.
type Page[T any] struct {
	Rows    []T
	Total   int
	HasPrev bool
	HasNext bool
	Range
}

// Slice windows items starting at the 1-based index start. The whole
// collection is already in memory (the backend returns it unpaged), so
// this is purely presentational. A start past the end clamps to the last
// page.
func Slice[T any](items []T, start int) Page[T] {
	return sliceWithSize(items, start, PageSize)
}

// SliceModal is like Slice but uses ModalPageSize.
func SliceModal[T any](items []T, start int) Page[T] {
	return sliceWithSize(items, start, ModalPageSize)
}

func sliceWithSize[T any](items []T, start, pageSize int) Page[T] {
	total := len(items)
	if start < 1 {
		start = 1
	}
	if total == 0 {
		return Page[T]{Range: computeRangeWithSize(1, 0, pageSize)}
	}
	if start > total {
		start = ((total-1)/pageSize)*pageSize + 1
	}
	end := start - 1 + pageSize
	if end > total {
		end = total
	}
	rows := items[start-1 : end]
	return Page[T]{
		Rows:    rows,
		Total:   total,
		HasPrev: start > 1,
		HasNext: end < total,
		Range:   computeRangeWithSize(start, len(rows), pageSize),
	}
}
