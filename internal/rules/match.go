// internal/rules/match.go
package rules

import (
	"strconv"

	"github.com/soluna/dayrate/internal/types"
)

/*
 * Rule matching.
 *
 * Decides which pricing rule in a stored set governs an evaluation context.
 * Matching is three independent gates (day-of-week, start bound, end bound);
 * an unset gate always passes. Dates are canonical YYYY-MM-DD strings, so
 * the bound checks are plain string comparisons.
 *
 * Precedence: rules are iterated in stored order and the last match wins.
 * Later entries override earlier ones - the stored order is the sole
 * precedence signal, there is no specificity scoring. Do not replace this
 * with a stable sort by specificity; admins rely on list position.
 *
 * Applicability is a separate, earlier gate: only enabled rules with a
 * strictly positive amount participate in matching at all. The amount check
 * is type-aware - percent amounts read as plain decimals, fixed amounts as
 * currency-decimal strings.
 */

// Matches reports whether a rule applies to the given context. Disabled
// rules never match. The day-of-week gate parses the stored digits; a value
// outside 0..6 (lenient normalization survivor) can never equal a context
// day and so never matches.
func Matches(rule types.PricingRule, ctx types.Context) bool {
	if !rule.Enabled {
		return false
	}
	if rule.DayOfWeek != "" {
		dow, err := strconv.Atoi(rule.DayOfWeek)
		if err != nil || dow != ctx.DayOfWeek {
			return false
		}
	}
	if rule.DateStart != "" && ctx.Date < rule.DateStart {
		return false
	}
	if rule.DateEnd != "" && ctx.Date > rule.DateEnd {
		return false
	}
	return true
}

// FindMatch returns the last rule in stored order that matches the context,
// or nil when none does. Absence is a normal result, not an error.
func FindMatch(rules []types.PricingRule, ctx types.Context) *types.PricingRule {
	var match *types.PricingRule
	for i := range rules {
		if Matches(rules[i], ctx) {
			match = &rules[i]
		}
	}
	if match == nil {
		return nil
	}
	picked := *match
	return &picked
}

// FilterApplicable reduces a normalized rule set to the rules eligible for
// matching: enabled, with a strictly positive amount. Amounts are rewritten
// to their numeric canonical form - percent as a plain decimal string, fixed
// as a currency-decimal string rounded to the given precision. A zero or
// negative amount disables the rule's effect even when enabled.
func FilterApplicable(rules []types.PricingRule, decimals int) []types.PricingRule {
	applicable := make([]types.PricingRule, 0, len(rules))
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if rule.Type == types.AdjustPercent {
			v := floatVal(rule.Amount)
			if v <= 0 {
				continue
			}
			rule.Amount = strconv.FormatFloat(v, 'f', -1, 64)
		} else {
			v := roundTo(floatVal(rule.Amount), decimals)
			if v <= 0 {
				continue
			}
			rule.Amount = strconv.FormatFloat(v, 'f', decimals, 64)
		}
		applicable = append(applicable, rule)
	}
	return applicable
}
