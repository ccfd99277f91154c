// internal/rules/blackout.go
package rules

import (
	"strconv"

	"github.com/soluna/dayrate/internal/types"
)

/*
 * Blackout evaluation.
 *
 * Decides whether a date is unavailable for purchase. Unlike pricing there
 * is no winning rule: availability is a boolean OR across all enabled
 * blackout records, and the first match short-circuits.
 *
 * Asymmetry with pricing rules: a day_of_week blackout with no day selected
 * is inert and never matches anything, whereas an unset day on a pricing
 * rule means "any day". The inert form is what an admin gets from an
 * untouched dropdown, and making it match every day would black out the
 * whole calendar.
 */

// IsDateBlackedOut reports whether any enabled blackout record covers the
// date. The day-of-week may be supplied precomputed; when nil it is derived
// from the date itself. The date must be canonical YYYY-MM-DD.
func IsDateBlackedOut(blackouts []types.BlackoutRule, date string, dow *int) bool {
	for _, b := range blackouts {
		if !b.Enabled {
			continue
		}
		switch b.Kind {
		case types.BlackoutDayOfWeek:
			if b.DayOfWeek == "" {
				continue
			}
			ruleDow, err := strconv.Atoi(b.DayOfWeek)
			if err != nil {
				continue
			}
			if dow == nil {
				derived, err := types.Weekday(date)
				if err != nil {
					continue
				}
				dow = &derived
			}
			if ruleDow == *dow {
				return true
			}
		default:
			if b.DateStart != "" && date < b.DateStart {
				continue
			}
			if b.DateEnd != "" && date > b.DateEnd {
				continue
			}
			return true
		}
	}
	return false
}
