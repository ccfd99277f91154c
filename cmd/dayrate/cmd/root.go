package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/soluna/dayrate/internal/core/config"
	"github.com/soluna/dayrate/internal/core/db"
	"github.com/soluna/dayrate/internal/core/store"
	"github.com/soluna/dayrate/internal/log"
)

var (
	configFile string
	dbURL      string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "dayrate",
	Short: "dayrate date-driven pricing engine",
	Long:  `dayrate adjusts item prices by day-of-week and date range, with per-product and global rule sets plus blackout dates.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func Execute() error {
	// Local development reads DR_* variables from .env when present
	_ = godotenv.Load()
	return rootCmd.Execute()
}

// runtime bundles the dependencies every subcommand needs.
type runtime struct {
	cfg   *config.Config
	db    *sqlx.DB
	store *store.Store
	close func()
}

// loadRuntime loads config, initializes logging, and opens the rule store.
// Flags override config file and environment values.
func loadRuntime() (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := log.Init(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to init logging: %w", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	queries, err := db.LoadQueries(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to load queries: %w", err)
	}

	return &runtime{
		cfg:   cfg,
		db:    conn,
		store: store.New(queries),
		close: func() {
			conn.Close()
			log.Sync()
		},
	}, nil
}
