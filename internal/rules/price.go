// internal/rules/price.go
package rules

import (
	"math"

	"github.com/soluna/dayrate/internal/types"
)

/*
 * Price adjustment arithmetic.
 *
 * Applies a matched rule to a base monetary amount:
 *   percent + increase: base * (1 + amount/100)
 *   percent + decrease: base * (1 - amount/100)
 *   fixed   + increase: base + amount
 *   fixed   + decrease: base - amount
 *
 * The result is floored at zero and rounded half away from zero to the host
 * currency's decimal precision. The precision is caller-supplied; the engine
 * has no currency table of its own.
 */

// AdjustPrice applies a rule to a base price and rounds to the currency
// precision. A nil rule leaves the price unchanged apart from rounding.
// The result is never negative.
func AdjustPrice(base float64, rule *types.PricingRule, decimals int) float64 {
	if rule == nil {
		return roundTo(base, decimals)
	}

	amount := floatVal(rule.Amount)
	var adjusted float64
	if rule.Type == types.AdjustPercent {
		if rule.Direction == types.DirectionDecrease {
			adjusted = base * (1 - amount/100)
		} else {
			adjusted = base * (1 + amount/100)
		}
	} else {
		if rule.Direction == types.DirectionDecrease {
			adjusted = base - amount
		} else {
			adjusted = base + amount
		}
	}

	return roundTo(math.Max(0, adjusted), decimals)
}

// roundTo rounds half away from zero to the given number of decimal places.
func roundTo(v float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*shift) / shift
}
