package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soluna/dayrate/internal/rules"
	"github.com/soluna/dayrate/internal/types"
)

var availabilityDate string

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Check whether a date is blacked out",
	RunE:  runAvailability,
}

func init() {
	availabilityCmd.Flags().StringVar(&availabilityDate, "date", "", "calendar date (YYYY-MM-DD)")
	availabilityCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(availabilityCmd)
}

func runAvailability(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	date, err := types.ParseDate(availabilityDate)
	if err != nil {
		return fmt.Errorf("invalid --date value %q (want YYYY-MM-DD)", availabilityDate)
	}

	resolver := rules.NewResolver(rt.store, rules.SystemClock(), rt.cfg.Location(), rt.cfg.CurrencyDecimals)
	blackedOut, err := resolver.IsBlackedOut(cmd.Context(), date, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"date":      date,
		"available": !blackedOut,
	})
}
