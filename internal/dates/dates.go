// Package dates holds the calendar-day helpers used by quotation ingestion and
// the investment result calculation: comparison horizons and
// nearest-earlier-or-equal lookups over date-ordered series.
package dates

import (
	"sort"
	"time"
)

// Layout is the storage and API format of every date in the system.
const Layout = "2006-01-02"

// Period identifies one of the trailing comparison windows.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Yearly
)

// Periods lists all comparison windows in the order results expose them.
var Periods = [...]Period{Daily, Weekly, Monthly, Yearly}

// Days returns the length of the period in calendar days.
func (p Period) Days() int {
	switch p {
	case Daily:
		return 1
	case Weekly:
		return 7
	case Monthly:
		return 30
	case Yearly:
		return 365
	}
	return 0
}

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	}
	return "unknown"
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current day according to now.
func Today(now func() time.Time) time.Time {
	return Day(now())
}

// AddDays moves a day forward (or backward for negative n) by whole calendar days.
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// Horizons returns the comparison target date of every period relative to day.
func Horizons(day time.Time) [len(Periods)]time.Time {
	var targets [len(Periods)]time.Time
	for i, p := range Periods {
		targets[i] = AddDays(day, -p.Days())
	}
	return targets
}

// Format renders a day using Layout.
func Format(day time.Time) string {
	return day.Format(Layout)
}

// Parse reads a day in Layout format.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// Dated is anything positioned on a calendar day.
type Dated interface {
	GetDate() time.Time
}

// FindOnOrBefore returns the latest element of items whose date is on or
// before target. items must be in ascending date order. The scan runs from the
// most recently appended element backwards and the first match wins.
func FindOnOrBefore[T Dated](items []T, target time.Time) (T, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		if !items[i].GetDate().After(target) {
			return items[i], true
		}
	}
	var zero T
	return zero, false
}

// Series is an append-only, strictly date-ascending sequence supporting
// O(log n) nearest-earlier-or-equal lookups. For strictly increasing dates the
// result is identical to FindOnOrBefore.
type Series[T Dated] struct {
	items []T
}

// NewSeries wraps items, which must already be in strictly ascending date order.
func NewSeries[T Dated](items []T) *Series[T] {
	s := &Series[T]{items: make([]T, len(items))}
	copy(s.items, items)
	return s
}

// Append adds an element dated after every element already in the series.
func (s *Series[T]) Append(item T) {
	s.items = append(s.items, item)
}

// Len returns the number of elements.
func (s *Series[T]) Len() int {
	return len(s.items)
}

// Last returns the most recent element.
func (s *Series[T]) Last() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// OnOrBefore returns the latest element dated on or before target.
func (s *Series[T]) OnOrBefore(target time.Time) (T, bool) {
	// first index dated strictly after target
	i := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].GetDate().After(target)
	})
	if i == 0 {
		var zero T
		return zero, false
	}
	return s.items[i-1], true
}
