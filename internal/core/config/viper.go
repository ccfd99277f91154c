package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration using viper.
// CLI flags > environment > config file > defaults precedence; the flag
// layer is applied by the CLI after Load returns.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults matching Default()
	v.SetDefault("database_url", "sqlite://dayrate.db")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("currency_decimals", 2)
	v.SetDefault("booking_window.start", "")
	v.SetDefault("booking_window.end", "")
	v.SetDefault("log_level", "info")

	// Bind environment variables with DR_ prefix
	v.SetEnvPrefix("DR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:      v.GetString("database_url"),
		Timezone:         v.GetString("timezone"),
		CurrencyDecimals: v.GetInt("currency_decimals"),
		LogLevel:         v.GetString("log_level"),
	}
	cfg.BookingWindow.Start = v.GetString("booking_window.start")
	cfg.BookingWindow.End = v.GetString("booking_window.end")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
