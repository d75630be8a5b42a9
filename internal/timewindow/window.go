// Package timewindow computes the collection window for a daily run.
package timewindow

import "time"

// DateWindow is the half-open interval [After, Before) of messages gathered
// for one labeled day. Label names the calendar day After falls in — the day
// the messages are "from" — never the day of invocation.
type DateWindow struct {
	After  time.Time
	Before time.Time
	Label  string
}

// Window derives the collection window from the reference instant. Before is
// now's date at 03:00 local, After is the previous calendar day at 03:45
// local. The caller passes now explicitly; this package never reads a clock.
func Window(now time.Time) DateWindow {
	loc := now.Location()
	before := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, loc)
	prev := before.AddDate(0, 0, -1)
	after := time.Date(prev.Year(), prev.Month(), prev.Day(), 3, 45, 0, 0, loc)
	return DateWindow{
		After:  after,
		Before: before,
		Label:  after.Format("2006-01-02"),
	}
}

// FetchRange truncates the window to whole calendar days for upstream
// sources that filter by day, not by instant: the start of After's date
// through the end of Before's date. The pipeline still filters fetched
// messages to the exact [After, Before) instants afterwards.
func (w DateWindow) FetchRange() (from, to time.Time) {
	loc := w.After.Location()
	from = time.Date(w.After.Year(), w.After.Month(), w.After.Day(), 0, 0, 0, 0, loc)
	to = time.Date(w.Before.Year(), w.Before.Month(), w.Before.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return from, to
}

// Contains reports whether t falls inside the half-open window.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.After) && t.Before(w.Before)
}
