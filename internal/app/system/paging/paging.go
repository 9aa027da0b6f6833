// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 50

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

// Window converts a 1-based start into skip and a look-ahead limit
// (PageSize+1, so the extra row signals a next page).
func Window(start int) (skip, limit int64) {
	if start < 1 {
		start = 1
	}
	return int64(start - 1), int64(PageSize + 1)
}

// Trim drops the look-ahead row and reports whether there is a next page.
func Trim[T any](rows []T) ([]T, bool) {
	if len(rows) > PageSize {
		return rows[:PageSize], true
	}
	return rows, false
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start     int // 1-based start index (0 if no results)
	End       int // 1-based end index (0 if no results)
	PrevStart int // start value for previous page link
	NextStart int // start value for next page link
	HasPrev   bool
	HasNext   bool
	Total     int64
}

// ComputeRange calculates display range values given the current start
// index, the rows shown, whether more rows follow, and the total.
func ComputeRange(start, shown int, hasNext bool, total int64) Range {
	if shown == 0 {
		return Range{PrevStart: 1, NextStart: 1, HasPrev: start > 1, Total: total}
	}
	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: max(start-PageSize, 1),
		NextStart: start + shown,
		HasPrev:   start > 1,
		HasNext:   hasNext,
		Total:     total,
	}
}
