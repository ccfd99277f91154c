// Package types provides domain models shared across dayrate components.
//
// Zero-dependency design: types.go, rules.go and errors.go use only the
// standard library so the core evaluation engine stays embeddable. ID
// utilities in ids.go import uuid but are isolated for selective inclusion.
//
// Separation from storage: raw rule records live here as Record (an untyped
// mapping exactly as decoded from form submission or the key-value store);
// canonical rules live in rules.go. Coercion between the two happens in
// internal/rules, never here.
package types

import "time"

// Record represents a raw, untyped rule record as decoded from storage or a
// form submission. Keys are field names; values may be strings, numbers,
// booleans or nil depending on the source encoding.
type Record map[string]any

// Context is the evaluation context a rule set is matched against.
// DayOfWeek uses 0=Sunday..6=Saturday; Date is a canonical YYYY-MM-DD string.
type Context struct {
	DayOfWeek int
	Date      string
}

// DecodeRecord validates that a decoded value is a structured record.
// Returns ErrNotRecord for anything that is not a string-keyed mapping;
// field-level issues are never rejected here (normalization coerces them).
func DecodeRecord(v any) (Record, error) {
	switch m := v.(type) {
	case Record:
		return m, nil
	case map[string]any:
		return Record(m), nil
	default:
		return nil, ErrNotRecord
	}
}

// DecodeRecordList validates that a decoded value is a list of records.
// Returns ErrNotList when the value is not a list. Elements that are not
// mappings are silently skipped, matching the save-path behavior of dropping
// structurally unusable entries rather than failing the whole collection.
func DecodeRecordList(v any) ([]Record, error) {
	var items []any
	switch l := v.(type) {
	case []Record:
		return l, nil
	case []any:
		items = l
	case nil:
		return nil, nil
	default:
		return nil, ErrNotList
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		r, err := DecodeRecord(item)
		if err != nil {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// DateLayout is the canonical calendar date encoding used throughout the
// engine. Canonical dates compare correctly as plain strings, which is the
// only comparison the match and blackout paths perform.
const DateLayout = "2006-01-02"

// ParseDate validates a date string at the ingestion boundary and returns
// its canonical YYYY-MM-DD form. The core itself never deep-validates stored
// dates; callers feeding external input (CLI flags, API payloads) parse here
// first so the engine only ever compares canonical values.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(DateLayout), nil
}

// Weekday derives the 0=Sunday..6=Saturday day-of-week for a canonical date.
// Civil dates have a timezone-independent weekday, so no location is needed.
func Weekday(date string) (int, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, ErrInvalidDate
	}
	return int(t.Weekday()), nil
}
