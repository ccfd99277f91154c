// internal/types/rules.go
package types

/*
 * Domain types for pricing and blackout rules.
 *
 * Provides PricingRule, BlackoutRule and TimeWindow structures used by
 * internal/rules for normalization, matching and price adjustment. These
 * types are storage-format agnostic - Record-to-type coercion happens in
 * internal/rules, persistence encoding via the Record() methods below.
 *
 * Key types:
 *   - PricingRule: canonical pricing rule (enabled, day/date scope, adjustment)
 *   - BlackoutRule: canonical blackout rule, tagged by Kind
 *   - TimeWindow: daily HH:MM booking window bounds
 *
 * Field conventions: optional date bounds and day-of-week are empty strings
 * when unset. DayOfWeek is kept as the lenient digits-only string produced
 * by normalization rather than a parsed int, so over-long values like "13"
 * survive verbatim and simply never equal a 0..6 context day.
 */

// AdjustmentType selects how a rule's amount is applied to the base price.
type AdjustmentType string

const (
	AdjustPercent AdjustmentType = "percent"
	AdjustFixed   AdjustmentType = "fixed"
)

// Direction selects whether a rule raises or lowers the base price.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// BlackoutKind discriminates the two blackout rule variants.
type BlackoutKind string

const (
	BlackoutDateRange BlackoutKind = "date_range"
	BlackoutDayOfWeek BlackoutKind = "day_of_week"
)

// PricingRule is a canonical, normalized pricing rule.
type PricingRule struct {
	Enabled   bool           `json:"enabled"`
	DayOfWeek string         `json:"dow"`        // digits in 0-6, "" = any day
	DateStart string         `json:"date_start"` // inclusive YYYY-MM-DD, "" = unbounded
	DateEnd   string         `json:"date_end"`   // inclusive YYYY-MM-DD, "" = unbounded
	Type      AdjustmentType `json:"type"`
	Direction Direction      `json:"direction"`
	Amount    string         `json:"amount"` // cleaned numeric string
}

// BlackoutRule is a canonical, normalized blackout rule. Exactly one of the
// date bounds or the day-of-week carries data, selected by Kind; the
// normalizer clears the fields the kind does not own.
type BlackoutRule struct {
	Enabled   bool         `json:"enabled"`
	Kind      BlackoutKind `json:"type"`
	DayOfWeek string       `json:"dow"`        // "" never matches for day_of_week kind
	DateStart string       `json:"date_start"` // inclusive, independently optional
	DateEnd   string       `json:"date_end"`
}

// TimeWindow bounds the selectable time of day for a booking, both ends
// inclusive. Bounds are "HH:MM" strings; an empty bound is unbounded.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Record encodes the rule back into its raw storage form. Enabled round-trips
// as "1"/"0" so stored payloads normalize identically on the next read.
func (r PricingRule) Record() Record {
	return Record{
		"enabled":    boolField(r.Enabled),
		"dow":        r.DayOfWeek,
		"date_start": r.DateStart,
		"date_end":   r.DateEnd,
		"type":       string(r.Type),
		"direction":  string(r.Direction),
		"amount":     r.Amount,
	}
}

// Record encodes the blackout rule back into its raw storage form.
func (b BlackoutRule) Record() Record {
	return Record{
		"enabled":    boolField(b.Enabled),
		"type":       string(b.Kind),
		"dow":        b.DayOfWeek,
		"date_start": b.DateStart,
		"date_end":   b.DateEnd,
	}
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
