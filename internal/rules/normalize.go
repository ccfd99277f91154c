// internal/rules/normalize.go
package rules

import (
	"strconv"
	"strings"
	"time"

	"github.com/soluna/dayrate/internal/types"
)

/*
 * Rule normalization.
 *
 * Converts raw, untyped rule records into canonical PricingRule and
 * BlackoutRule values. All field-level problems are coerced or defaulted,
 * never rejected; only a structurally wrong value (not a mapping where one
 * is required) fails, and that happens upstream in types.DecodeRecord.
 *
 * Two paths with different guarantees:
 *   - NormalizeRule/NormalizeBlackout: pure field coercion. Used on the read
 *     path, so rules saved long ago keep their stored bounds and a rule with
 *     a now-past date_end simply never matches again (natural expiry).
 *   - Normalizer.SanitizeRule/SanitizeBlackout: coercion plus clamping of
 *     date bounds against "today". Used on the save path only. Today comes
 *     from the injected Clock in the configured location, never from ambient
 *     wall-clock reads inside the engine.
 *
 * Coercion is deliberately lenient: enabled is true only for the exact
 * string form "1", day-of-week keeps just the digits 0-6 from whatever was
 * entered, unknown adjustment types fall back to percent and unknown
 * directions to increase. The blank-record drop applies only to the list
 * being saved, not to stored sets being read.
 */

// Normalizer sanitizes raw rule records for persistence. It carries the
// clock and location that define "today" for date-bound clamping.
type Normalizer struct {
	clock Clock
	loc   *time.Location
}

// NewNormalizer creates a save-path normalizer. A nil clock uses the system
// clock; a nil location uses UTC.
func NewNormalizer(clock Clock, loc *time.Location) *Normalizer {
	if clock == nil {
		clock = SystemClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{clock: clock, loc: loc}
}

// Today returns the current canonical date in the normalizer's location.
func (n *Normalizer) Today() string {
	return n.clock.Now().In(n.loc).Format(types.DateLayout)
}

// NormalizeRule coerces a raw record into a canonical pricing rule without
// touching the date bounds. Read-path counterpart of SanitizeRule.
func NormalizeRule(raw types.Record) types.PricingRule {
	rule := types.PricingRule{
		Enabled:   stringField(raw, "enabled") == "1",
		DayOfWeek: cleanDayOfWeek(stringField(raw, "dow")),
		DateStart: strings.TrimSpace(stringField(raw, "date_start")),
		DateEnd:   strings.TrimSpace(stringField(raw, "date_end")),
		Type:      types.AdjustPercent,
		Direction: types.DirectionIncrease,
		Amount:    amountField(raw),
	}
	if stringField(raw, "type") == string(types.AdjustFixed) {
		rule.Type = types.AdjustFixed
	}
	if stringField(raw, "direction") == string(types.DirectionDecrease) {
		rule.Direction = types.DirectionDecrease
	}
	return rule
}

// SanitizeRule coerces a raw record and clamps its date bounds against
// today: a past start moves to today, a past end clears to unbounded, and
// an inverted range collapses to end == start.
func (n *Normalizer) SanitizeRule(raw types.Record) types.PricingRule {
	rule := NormalizeRule(raw)
	rule.DateStart, rule.DateEnd = clampDates(rule.DateStart, rule.DateEnd, n.Today())
	return rule
}

// SanitizeRuleList sanitizes a collection for saving, dropping fully-blank
// records. A record is blank when it is not enabled, has no day or date
// scope, and carries no amount. Idempotent: sanitizing an already-sanitized
// list yields the same list.
func (n *Normalizer) SanitizeRuleList(raws []types.Record) []types.PricingRule {
	clean := make([]types.PricingRule, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		rule := n.SanitizeRule(raw)
		if ruleBlank(rule) {
			continue
		}
		clean = append(clean, rule)
	}
	return clean
}

// NormalizeBlackout coerces a raw record into a canonical blackout rule.
// The kind decides which fields carry data: date_range keeps only the date
// bounds, day_of_week keeps only the day. Unknown kinds fall back to
// date_range.
func NormalizeBlackout(raw types.Record) types.BlackoutRule {
	b := types.BlackoutRule{
		Enabled: stringField(raw, "enabled") == "1",
		Kind:    types.BlackoutDateRange,
	}
	if stringField(raw, "type") == string(types.BlackoutDayOfWeek) {
		b.Kind = types.BlackoutDayOfWeek
	}
	switch b.Kind {
	case types.BlackoutDayOfWeek:
		b.DayOfWeek = cleanDayOfWeek(stringField(raw, "dow"))
	default:
		b.DateStart = strings.TrimSpace(stringField(raw, "date_start"))
		b.DateEnd = strings.TrimSpace(stringField(raw, "date_end"))
	}
	return b
}

// SanitizeBlackout coerces a raw record and, for date_range rules, clamps
// the bounds against today the same way pricing rules are clamped.
func (n *Normalizer) SanitizeBlackout(raw types.Record) types.BlackoutRule {
	b := NormalizeBlackout(raw)
	if b.Kind == types.BlackoutDateRange {
		b.DateStart, b.DateEnd = clampDates(b.DateStart, b.DateEnd, n.Today())
	}
	return b
}

// SanitizeBlackoutList sanitizes a blackout collection for saving, dropping
// blank records. Blankness is kind-specific: a date_range record with no
// bounds, or a day_of_week record with no day, and not enabled.
func (n *Normalizer) SanitizeBlackoutList(raws []types.Record) []types.BlackoutRule {
	clean := make([]types.BlackoutRule, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		b := n.SanitizeBlackout(raw)
		if blackoutBlank(b) {
			continue
		}
		clean = append(clean, b)
	}
	return clean
}

// clampDates applies the save-time date invariants in order: past start
// clamps to today, past end clears, then an inverted range collapses.
func clampDates(start, end, today string) (string, string) {
	if start != "" && start < today {
		start = today
	}
	if end != "" && end < today {
		end = ""
	}
	if start != "" && end != "" && start > end {
		end = start
	}
	return start, end
}

func ruleBlank(r types.PricingRule) bool {
	return !r.Enabled &&
		r.DayOfWeek == "" &&
		r.DateStart == "" &&
		r.DateEnd == "" &&
		(r.Amount == "0" || r.Amount == "")
}

func blackoutBlank(b types.BlackoutRule) bool {
	if b.Enabled {
		return false
	}
	if b.Kind == types.BlackoutDateRange {
		return b.DateStart == "" && b.DateEnd == ""
	}
	return b.DayOfWeek == ""
}

// stringField extracts a record field as its canonical string form.
// Missing keys and nil values become "". Booleans stringify as "1"/"" so an
// enabled flag stored as JSON true still satisfies the exact-"1" check.
func stringField(raw types.Record, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "1"
		}
		return ""
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case nil:
		return ""
	default:
		return ""
	}
}

// amountField extracts the amount as a cleaned numeric string. A missing
// key defaults to "0"; a present-but-empty value stays empty so the blank
// check can distinguish "never filled in" from "cleared".
func amountField(raw types.Record) string {
	if _, ok := raw["amount"]; !ok {
		return "0"
	}
	return strings.TrimSpace(stringField(raw, "amount"))
}

// cleanDayOfWeek trims the value and keeps only the digits 0-6. Empty input
// and the literal "any" mean unset. The strip is intentionally lenient: a
// value like "1x" becomes "1" rather than being rejected, and an over-long
// survivor like "13" is kept verbatim (it can never equal a context day).
func cleanDayOfWeek(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "any" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '6' {
			return r
		}
		return -1
	}, raw)
}

// floatVal parses the leading numeric prefix of a string, so "10abc" reads
// as 10, "1e5" as 100000 and a non-numeric string as 0. Stored amounts were
// cleaned but not validated, and evaluation must not start rejecting what
// save accepted.
func floatVal(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit := false
	seenDot := false
	for i, r := range s {
		switch {
		case r == '+' || r == '-':
			if i != 0 {
				goto done
			}
		case r == '.':
			if seenDot {
				goto done
			}
			seenDot = true
		case r >= '0' && r <= '9':
			seenDigit = true
		default:
			goto done
		}
		end = i + 1
	}
done:
	if !seenDigit {
		return 0
	}

	// An exponent extends the value only when complete ("1e5", "2E-3");
	// a bare "1e" or "1e+" cuts off before the e, matching PHP's floatval
	mantissa := end
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j {
			end = k
		}
	}

	num := s[:end]
	if end == mantissa {
		num = strings.TrimRight(num, ".")
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return f
}
