package types

import "errors"

// Sentinel errors for dayrate operations.
var (
	// ErrNotRecord indicates a raw value that should be a rule record is not
	// a string-keyed mapping.
	ErrNotRecord = errors.New("raw value is not a rule record")

	// ErrNotList indicates a raw value that should be a rule collection is
	// not a list.
	ErrNotList = errors.New("raw value is not a rule list")

	// ErrInvalidDate indicates a date string failed strict boundary parsing.
	ErrInvalidDate = errors.New("invalid calendar date")

	// ErrInvalidTime indicates a time-of-day string is not HH:MM.
	ErrInvalidTime = errors.New("invalid time of day")

	// ErrDateUnavailable indicates the selected date falls on a blackout.
	ErrDateUnavailable = errors.New("date is unavailable")

	// ErrTimeOutsideWindow indicates the selected time is outside the
	// configured booking window.
	ErrTimeOutsideWindow = errors.New("time is outside the booking window")

	// ErrScopeNotFound indicates no rule set is stored under a scope key.
	ErrScopeNotFound = errors.New("rule scope not found")
)
