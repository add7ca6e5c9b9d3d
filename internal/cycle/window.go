// Package cycle resolves budget cycles and aggregates the expenses that fall inside them.
//
// Every function in this package is a pure function of its arguments: nothing is read from
// or written to storage, no input slice is modified, and all of them are safe for concurrent use.
// The intended pipeline is ResolveCycle -> FilterByWindow -> AggregateByCategory /
// AggregateSummary -> EvaluateBudget, which Summarize wires together.
package cycle

import (
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/util"
)

// Precision is the gap between a cycle's inclusive end and the next cycle's start
const Precision = time.Millisecond

// Window is an inclusive [Start, End] range covering one budget cycle
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, both ends included
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Location returns the location the window was resolved in
func (w Window) Location() *time.Location {
	return w.Start.Location()
}

// ResolveCycle returns the cycle containing now for a cycle anchored on startDay.
//
// The cycle starts at local midnight on startDay of now's month, or of the previous month when
// that day has not been reached yet. It ends one Precision before the same day of the
// following month. startDay must be within [1, 28]; validation happens when settings are
// updated, not here.
func ResolveCycle(startDay int, now time.Time) Window {
	loc := now.Location()
	year, month := now.Year(), int(now.Month())

	start := util.LocalMidnight(year, month, startDay, loc)
	if start.After(now) {
		year, month = util.PreviousMonth(year, month)
		start = util.LocalMidnight(year, month, startDay, loc)
	}

	nextYear, nextMonth := util.NextMonth(year, month)
	boundary := util.LocalMidnight(nextYear, nextMonth, startDay, loc)

	return Window{
		Start: start,
		End:   boundary.Add(-Precision),
	}
}
