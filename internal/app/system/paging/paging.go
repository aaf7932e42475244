// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows in a listing page.
const PageSize = 50

// MaxPageSize bounds ?size=.
const MaxPageSize = 500

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	return parsePositive(query.Get(r, "start"), 1)
}

// ParseSize reads ?size=, defaulting to PageSize and capping at MaxPageSize.
func ParseSize(r *http.Request) int {
	n := parsePositive(query.Get(r, "size"), PageSize)
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func parsePositive(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start     int  `json:"start"`      // 1-based start index (0 if no results)
	End       int  `json:"end"`        // 1-based end index (0 if no results)
	PrevStart int  `json:"prev_start"` // start value for previous page link
	NextStart int  `json:"next_start"` // start value for next page link
	Total     int  `json:"total"`
	HasPrev   bool `json:"has_prev"`
	HasNext   bool `json:"has_next"`
}

// ComputeRange calculates display range values given the current start index
// and number of items shown.
func ComputeRange(start, shown int) Range {
	return computeRangeWithSize(start, shown, PageSize)
}

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

// Slice returns the page of rows beginning at the 1-based start, together
// with its range. A start past the end yields an empty page.
func Slice[T any](rows []T, start, size int) ([]T, Range) {
	if start < 1 {
		start = 1
	}
	if size < 1 {
		size = PageSize
	}
	lo := start - 1
	if lo > len(rows) {
		lo = len(rows)
	}
	hi := lo + size
	if hi > len(rows) {
		hi = len(rows)
	}
	page := rows[lo:hi]

	rg := computeRangeWithSize(start, len(page), size)
	rg.Total = len(rows)
	rg.HasPrev = start > 1
	rg.HasNext = hi < len(rows)
	return page, rg
}

// FromRequest pages rows using ?start= and ?size=.
func FromRequest[T any](r *http.Request, rows []T) ([]T, Range) {
	return Slice(rows, ParseStart(r), ParseSize(r))
}
