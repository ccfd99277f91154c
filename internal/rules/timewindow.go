// internal/rules/timewindow.go
package rules

import (
	"time"

	"github.com/soluna/dayrate/internal/types"
)

/*
 * Booking-time validation.
 *
 * A selected purchase datetime must land on an available date and inside
 * the configured daily booking window. The window is a pair of inclusive
 * "HH:MM" bounds; an empty bound is unbounded. "HH:MM" strings in 24-hour
 * form compare correctly as plain strings, same trick as canonical dates.
 */

const timeOfDayLayout = "15:04"

// ParseTimeOfDay validates an "HH:MM" window bound. Empty is valid and
// means unbounded.
func ParseTimeOfDay(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return "", types.ErrInvalidTime
	}
	return t.Format(timeOfDayLayout), nil
}

// WithinWindow reports whether an "HH:MM" time falls inside the window.
func WithinWindow(hhmm string, w types.TimeWindow) bool {
	if w.Start != "" && hhmm < w.Start {
		return false
	}
	if w.End != "" && hhmm > w.End {
		return false
	}
	return true
}

// ValidateSelection checks a selected purchase datetime against the blackout
// records and the booking window. Returns ErrDateUnavailable when the date
// is blacked out and ErrTimeOutsideWindow when the time of day is out of
// bounds; nil when the selection is acceptable.
func ValidateSelection(sel time.Time, loc *time.Location, w types.TimeWindow, blackouts []types.BlackoutRule) error {
	ec := ContextAt(sel, loc)
	if IsDateBlackedOut(blackouts, ec.Date, &ec.DayOfWeek) {
		return types.ErrDateUnavailable
	}
	if loc == nil {
		loc = time.UTC
	}
	if !WithinWindow(sel.In(loc).Format(timeOfDayLayout), w) {
		return types.ErrTimeOutsideWindow
	}
	return nil
}
