package rules

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/soluna/dayrate/internal/types"
)

func enabledPercentRule(amount string) types.PricingRule {
	return types.PricingRule{
		Enabled:   true,
		Type:      types.AdjustPercent,
		Direction: types.DirectionIncrease,
		Amount:    amount,
	}
}

func TestMatches_Gates(t *testing.T) {
	sunday := types.Context{DayOfWeek: 0, Date: "2026-06-07"}

	tests := []struct {
		name string
		rule types.PricingRule
		ctx  types.Context
		want bool
	}{
		{
			name: "disabled never matches",
			rule: types.PricingRule{Enabled: false},
			ctx:  sunday,
			want: false,
		},
		{
			name: "unset gates match any context",
			rule: types.PricingRule{Enabled: true},
			ctx:  sunday,
			want: true,
		},
		{
			name: "dow equal",
			rule: types.PricingRule{Enabled: true, DayOfWeek: "0"},
			ctx:  sunday,
			want: true,
		},
		{
			name: "dow different",
			rule: types.PricingRule{Enabled: true, DayOfWeek: "1"},
			ctx:  sunday,
			want: false,
		},
		{
			name: "lenient dow survivor 13 never matches",
			rule: types.PricingRule{Enabled: true, DayOfWeek: "13"},
			ctx:  sunday,
			want: false,
		},
		{
			name: "date inside inclusive range",
			rule: types.PricingRule{Enabled: true, DateStart: "2026-06-07", DateEnd: "2026-06-07"},
			ctx:  sunday,
			want: true,
		},
		{
			name: "date before start",
			rule: types.PricingRule{Enabled: true, DateStart: "2026-06-08"},
			ctx:  sunday,
			want: false,
		},
		{
			name: "date after end",
			rule: types.PricingRule{Enabled: true, DateEnd: "2026-06-06"},
			ctx:  sunday,
			want: false,
		},
		{
			name: "all gates together",
			rule: types.PricingRule{Enabled: true, DayOfWeek: "0", DateStart: "2026-06-01", DateEnd: "2026-06-30"},
			ctx:  sunday,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.rule, tt.ctx); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindMatch_LastMatchWins(t *testing.T) {
	ctx := types.Context{DayOfWeek: 0, Date: "2026-06-07"}

	first := enabledPercentRule("10")
	second := enabledPercentRule("5")
	second.Direction = types.DirectionDecrease

	match := FindMatch([]types.PricingRule{first, second}, ctx)
	if match == nil {
		t.Fatal("FindMatch() = nil, want the second rule")
	}
	if match.Direction != types.DirectionDecrease || match.Amount != "5" {
		t.Errorf("FindMatch() = %+v, want the later rule to win", match)
	}

	// The later rule wins even when it is less specific than the earlier one
	specific := enabledPercentRule("10")
	specific.DayOfWeek = "0"
	broad := enabledPercentRule("5")
	match = FindMatch([]types.PricingRule{specific, broad}, ctx)
	if match == nil || match.Amount != "5" {
		t.Errorf("FindMatch() = %+v, want the later broad rule", match)
	}
}

func TestFindMatch_NoMatchIsAbsence(t *testing.T) {
	ctx := types.Context{DayOfWeek: 3, Date: "2026-06-10"}
	rule := enabledPercentRule("10")
	rule.DayOfWeek = "0"

	if match := FindMatch([]types.PricingRule{rule}, ctx); match != nil {
		t.Errorf("FindMatch() = %+v, want nil", match)
	}
	if match := FindMatch(nil, ctx); match != nil {
		t.Errorf("FindMatch(nil) = %+v, want nil", match)
	}
}

func TestFindMatch_ReturnsCopy(t *testing.T) {
	ctx := types.Context{DayOfWeek: 0, Date: "2026-06-07"}
	set := []types.PricingRule{enabledPercentRule("10")}

	match := FindMatch(set, ctx)
	if match == nil {
		t.Fatal("FindMatch() = nil, want match")
	}
	match.Amount = "99"
	if set[0].Amount != "10" {
		t.Error("FindMatch() returned a reference into the input set")
	}
}

func TestFilterApplicable_AmountGate(t *testing.T) {
	tests := []struct {
		name string
		rule types.PricingRule
		kept bool
		want string // canonical amount when kept
	}{
		{"positive percent kept", enabledPercentRule("10"), true, "10"},
		{"zero amount dropped", enabledPercentRule("0"), false, ""},
		{"negative amount dropped", enabledPercentRule("-5"), false, ""},
		{"empty amount dropped", enabledPercentRule(""), false, ""},
		{"non-numeric amount dropped", enabledPercentRule("abc"), false, ""},
		{"lenient numeric prefix kept", enabledPercentRule("10abc"), true, "10"},
		{"percent amount canonicalized", enabledPercentRule("007.50"), true, "7.5"},
		{
			"fixed amount gets currency decimals",
			types.PricingRule{Enabled: true, Type: types.AdjustFixed, Direction: types.DirectionIncrease, Amount: "7.5"},
			true, "7.50",
		},
		{
			"fixed amount rounding half away from zero",
			types.PricingRule{Enabled: true, Type: types.AdjustFixed, Direction: types.DirectionIncrease, Amount: "7.125"},
			true, "7.13",
		},
		{
			"disabled dropped regardless of amount",
			types.PricingRule{Enabled: false, Type: types.AdjustPercent, Amount: "10"},
			false, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterApplicable([]types.PricingRule{tt.rule}, 2)
			if tt.kept != (len(got) == 1) {
				t.Fatalf("FilterApplicable() kept %d rules, want kept=%v", len(got), tt.kept)
			}
			if tt.kept && got[0].Amount != tt.want {
				t.Errorf("canonical amount = %q, want %q", got[0].Amount, tt.want)
			}
		})
	}
}

func TestFilterApplicable_NonPositiveNeverSelected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("rules with amount <= 0 are never matchable", prop.ForAll(
		func(amount int, dow int, fixed bool) bool {
			rule := enabledPercentRule("")
			if fixed {
				rule.Type = types.AdjustFixed
			}
			rule.Amount = strconv.Itoa(amount)
			ctx := types.Context{DayOfWeek: dow, Date: "2026-06-07"}

			match := FindMatch(FilterApplicable([]types.PricingRule{rule}, 2), ctx)
			if amount <= 0 {
				return match == nil
			}
			return match != nil
		},
		gen.IntRange(-100, 100),
		gen.IntRange(0, 6),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
