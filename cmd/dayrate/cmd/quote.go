package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soluna/dayrate/internal/rules"
	"github.com/soluna/dayrate/internal/types"
)

const selectionLayout = "2006-01-02T15:04"

var (
	quoteProduct string
	quotePrice   float64
	quoteAt      string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute the adjusted price for a product at a date/time",
	Long: `Resolves the governing pricing rule for a product (product rules first,
global fallback second) and applies it to the base price. Also reports
whether the selected date is available for purchase.`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&quoteProduct, "product", "", "product identifier")
	quoteCmd.Flags().Float64Var(&quotePrice, "price", 0, "base price")
	quoteCmd.Flags().StringVar(&quoteAt, "at", "", "selected datetime (YYYY-MM-DDTHH:MM, default now)")
	quoteCmd.MarkFlagRequired("product")
	quoteCmd.MarkFlagRequired("price")
	rootCmd.AddCommand(quoteCmd)
}

// quoteResult is the CLI's JSON output: the engine's quote plus the
// availability verdict for the selected datetime.
type quoteResult struct {
	rules.Quote
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func runQuote(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	loc := rt.cfg.Location()
	sel := time.Now().In(loc)
	if quoteAt != "" {
		sel, err = time.ParseInLocation(selectionLayout, quoteAt, loc)
		if err != nil {
			return fmt.Errorf("invalid --at value %q (want YYYY-MM-DDTHH:MM)", quoteAt)
		}
	}

	ctx := cmd.Context()
	resolver := rules.NewResolver(rt.store, rules.SystemClock(), loc, rt.cfg.CurrencyDecimals)
	quote, err := resolver.Quote(ctx, quoteProduct, quotePrice, rules.ContextAt(sel, loc))
	if err != nil {
		return err
	}

	result := quoteResult{Quote: quote, Available: true}

	records, err := rt.store.BlackoutRules(ctx)
	if err != nil {
		return err
	}
	blackouts := make([]types.BlackoutRule, 0, len(records))
	for _, raw := range records {
		blackouts = append(blackouts, rules.NormalizeBlackout(raw))
	}
	switch err := rules.ValidateSelection(sel, loc, rt.cfg.BookingWindow, blackouts); {
	case errors.Is(err, types.ErrDateUnavailable):
		result.Available = false
		result.Reason = "date is unavailable"
	case errors.Is(err, types.ErrTimeOutsideWindow):
		result.Available = false
		result.Reason = "time is outside the booking window"
	case err != nil:
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
