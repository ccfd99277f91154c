// Package config provides configuration management for dayrate services.
package config

import (
	"fmt"
	"time"

	"github.com/soluna/dayrate/internal/rules"
	"github.com/soluna/dayrate/internal/types"
)

// Config holds runtime configuration for the dayrate CLI and store.
type Config struct {
	DatabaseURL      string
	Timezone         string
	CurrencyDecimals int
	BookingWindow    types.TimeWindow
	LogLevel         string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		DatabaseURL:      "sqlite://dayrate.db",
		Timezone:         "UTC",
		CurrencyDecimals: 2,
		BookingWindow:    types.TimeWindow{},
		LogLevel:         "info",
	}
}

// Location resolves the configured timezone. Validate guarantees this
// cannot fail after a successful load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks timezone, currency precision and window bounds.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url must be set")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.CurrencyDecimals < 0 || c.CurrencyDecimals > 4 {
		return fmt.Errorf("currency_decimals must be between 0 and 4, got %d", c.CurrencyDecimals)
	}
	start, err := rules.ParseTimeOfDay(c.BookingWindow.Start)
	if err != nil {
		return fmt.Errorf("invalid booking window start %q: %w", c.BookingWindow.Start, err)
	}
	end, err := rules.ParseTimeOfDay(c.BookingWindow.End)
	if err != nil {
		return fmt.Errorf("invalid booking window end %q: %w", c.BookingWindow.End, err)
	}
	if start != "" && end != "" && start > end {
		return fmt.Errorf("booking window start %q is after end %q", start, end)
	}
	c.BookingWindow.Start = start
	c.BookingWindow.End = end
	return nil
}
