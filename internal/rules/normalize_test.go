package rules

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/soluna/dayrate/internal/types"
)

// Frozen clock for deterministic "today" clamping: Wednesday 2026-06-10.
func testNormalizer() *Normalizer {
	return NewNormalizer(FixedClock(time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)), time.UTC)
}

func TestNormalizeRule_FieldCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  types.Record
		want types.PricingRule
	}{
		{
			name: "enabled only for exact string 1",
			raw:  types.Record{"enabled": "1", "amount": "10"},
			want: types.PricingRule{Enabled: true, Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "enabled json true stringifies to 1",
			raw:  types.Record{"enabled": true, "amount": "10"},
			want: types.PricingRule{Enabled: true, Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "enabled json number 1",
			raw:  types.Record{"enabled": float64(1), "amount": "10"},
			want: types.PricingRule{Enabled: true, Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "enabled yes is not enabled",
			raw:  types.Record{"enabled": "yes", "amount": "10"},
			want: types.PricingRule{Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "dow keeps digit",
			raw:  types.Record{"dow": "3", "amount": "10"},
			want: types.PricingRule{DayOfWeek: "3", Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "dow lenient strip keeps valid digits",
			raw:  types.Record{"dow": "1x", "amount": "10"},
			want: types.PricingRule{DayOfWeek: "1", Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "dow any means unset",
			raw:  types.Record{"dow": "any", "amount": "10"},
			want: types.PricingRule{Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "dow 7 strips to empty",
			raw:  types.Record{"dow": "7", "amount": "10"},
			want: types.PricingRule{Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "dow 13 survives verbatim",
			raw:  types.Record{"dow": "13", "amount": "10"},
			want: types.PricingRule{DayOfWeek: "13", Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "type fixed kept, unknown direction falls back",
			raw:  types.Record{"type": "fixed", "direction": "sideways", "amount": "10"},
			want: types.PricingRule{Type: types.AdjustFixed, Direction: types.DirectionIncrease, Amount: "10"},
		},
		{
			name: "unknown type falls back to percent",
			raw:  types.Record{"type": "multiplier", "direction": "decrease", "amount": "10"},
			want: types.PricingRule{Type: types.AdjustPercent, Direction: types.DirectionDecrease, Amount: "10"},
		},
		{
			name: "missing amount defaults to 0",
			raw:  types.Record{"enabled": "1"},
			want: types.PricingRule{Enabled: true, Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "0"},
		},
		{
			name: "present empty amount stays empty",
			raw:  types.Record{"amount": "  "},
			want: types.PricingRule{Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: ""},
		},
		{
			name: "numeric amount stringifies",
			raw:  types.Record{"amount": float64(12.5)},
			want: types.PricingRule{Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "12.5"},
		},
		{
			name: "dates trimmed, not validated",
			raw:  types.Record{"date_start": " 2099-01-01 ", "date_end": "not-a-date", "amount": "10"},
			want: types.PricingRule{DateStart: "2099-01-01", DateEnd: "not-a-date", Type: types.AdjustPercent, Direction: types.DirectionIncrease, Amount: "10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRule(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeRule() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSanitizeRule_DateClamping(t *testing.T) {
	n := testNormalizer()
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
	}{
		{"future range untouched", "2026-07-01", "2026-07-10", "2026-07-01", "2026-07-10"},
		{"past start clamps to today", "2026-01-01", "2026-07-10", "2026-06-10", "2026-07-10"},
		{"past end clears to unbounded", "2026-07-01", "2026-01-01", "2026-07-01", ""},
		{"both past: start today, end cleared", "2026-01-01", "2026-02-01", "2026-06-10", ""},
		{"inverted future range collapses to start", "2026-08-01", "2026-07-01", "2026-08-01", "2026-08-01"},
		{"today is not past", "2026-06-10", "2026-06-10", "2026-06-10", "2026-06-10"},
		{"unbounded stays unbounded", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := n.SanitizeRule(types.Record{
				"enabled": "1", "amount": "10",
				"date_start": tt.start, "date_end": tt.end,
			})
			if rule.DateStart != tt.wantStart || rule.DateEnd != tt.wantEnd {
				t.Errorf("clamped to (%q, %q), want (%q, %q)",
					rule.DateStart, rule.DateEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSanitizeRuleList_DropsBlankRows(t *testing.T) {
	n := testNormalizer()
	raws := []types.Record{
		{"enabled": "0", "dow": "", "date_start": "", "date_end": "", "amount": "0"},
		{"enabled": "1", "amount": "10"},
		nil,
		{},
		{"enabled": "0", "dow": "2", "amount": "0"}, // day scope set: kept
		{"enabled": "0", "amount": "5"},             // amount set: kept
	}

	clean := n.SanitizeRuleList(raws)
	if len(clean) != 3 {
		t.Fatalf("SanitizeRuleList() kept %d rules, want 3", len(clean))
	}
	if !clean[0].Enabled || clean[0].Amount != "10" {
		t.Errorf("first kept rule = %+v, want the enabled rule", clean[0])
	}
	if clean[1].DayOfWeek != "2" {
		t.Errorf("second kept rule = %+v, want the day-scoped rule", clean[1])
	}
}

func TestSanitizeRuleList_Idempotent(t *testing.T) {
	n := testNormalizer()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("sanitize(sanitize(x)) == sanitize(x)", prop.ForAll(
		func(enabled bool, dow string, start string, end string, amount string) bool {
			raws := []types.Record{{
				"enabled":    enabled,
				"dow":        dow,
				"date_start": start,
				"date_end":   end,
				"amount":     amount,
			}}
			once := n.SanitizeRuleList(raws)

			again := make([]types.Record, 0, len(once))
			for _, r := range once {
				again = append(again, r.Record())
			}
			twice := n.SanitizeRuleList(again)

			return reflect.DeepEqual(once, twice)
		},
		gen.Bool(),
		gen.OneConstOf("", "any", "0", "3", "6", "1x", "13", "7"),
		gen.OneConstOf("", "2026-01-01", "2026-06-10", "2026-08-01", "2027-12-31"),
		gen.OneConstOf("", "2026-01-01", "2026-06-10", "2026-08-01", "2027-12-31"),
		gen.OneConstOf("", "0", "10", "-5", "12.5", "abc", "10abc"),
	))

	properties.TestingRun(t)
}

func TestSanitizeRule_InvertedBoundsCollapse(t *testing.T) {
	n := testNormalizer()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// Future-dated inverted ranges always come out with end == start.
	properties.Property("start > end yields end == start", prop.ForAll(
		func(startDay int, delta int) bool {
			start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, startDay)
			end := start.AddDate(0, 0, -delta)
			rule := n.SanitizeRule(types.Record{
				"enabled":    "1",
				"amount":     "10",
				"date_start": start.Format(types.DateLayout),
				"date_end":   end.Format(types.DateLayout),
			})
			return rule.DateEnd == rule.DateStart
		},
		gen.IntRange(1, 60),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}

func TestNormalizeBlackout_KindBranching(t *testing.T) {
	tests := []struct {
		name string
		raw  types.Record
		want types.BlackoutRule
	}{
		{
			name: "date_range clears dow",
			raw:  types.Record{"enabled": "1", "type": "date_range", "dow": "3", "date_start": "2026-12-24", "date_end": "2026-12-26"},
			want: types.BlackoutRule{Enabled: true, Kind: types.BlackoutDateRange, DateStart: "2026-12-24", DateEnd: "2026-12-26"},
		},
		{
			name: "day_of_week clears dates",
			raw:  types.Record{"enabled": "1", "type": "day_of_week", "dow": "0", "date_start": "2026-12-24"},
			want: types.BlackoutRule{Enabled: true, Kind: types.BlackoutDayOfWeek, DayOfWeek: "0"},
		},
		{
			name: "unknown kind falls back to date_range",
			raw:  types.Record{"enabled": "1", "type": "holiday", "date_start": "2026-12-24"},
			want: types.BlackoutRule{Enabled: true, Kind: types.BlackoutDateRange, DateStart: "2026-12-24"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBlackout(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeBlackout() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSanitizeBlackoutList_DropsBlankRows(t *testing.T) {
	n := testNormalizer()
	raws := []types.Record{
		{"enabled": "0", "type": "date_range"},              // blank: dropped
		{"enabled": "0", "type": "day_of_week", "dow": ""},  // blank: dropped
		{"enabled": "0", "type": "day_of_week", "dow": "4"}, // has data: kept
		{"enabled": "1", "type": "date_range"},              // enabled: kept
	}

	clean := n.SanitizeBlackoutList(raws)
	if len(clean) != 2 {
		t.Fatalf("SanitizeBlackoutList() kept %d rules, want 2", len(clean))
	}
}

func TestFloatVal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{"12.5", 12.5},
		{"-3", -3},
		{"  42  ", 42},
		{"10abc", 10},
		{"10.", 10},
		{"abc", 0},
		{"", 0},
		{".5", 0.5},
		{"10-5", 10},
		{"1e5", 100000},
		{"2E-3", 0.002},
		{"1.5e2", 150},
		{"1e", 1},   // incomplete exponent cuts off
		{"1e+", 1},  // sign without digits too
		{"1e5x", 100000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := floatVal(tt.in); got != tt.want {
				t.Errorf("floatVal(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
