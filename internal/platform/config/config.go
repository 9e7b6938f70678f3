package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	LogLevel     string

	// BaseCurrency is the reporting currency every journal is balanced in.
	BaseCurrency string

	// EnableStartupCheck runs the full-ledger integrity sweep on boot.
	EnableStartupCheck bool

	// RebuildInterval is how often the rebuild worker drains its queue even
	// without an explicit wake-up.
	RebuildInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("ENABLE_STARTUP_CHECK", true)
	viper.SetDefault("REBUILD_INTERVAL", "30s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "USD"
		log.Printf("Warning: BASE_CURRENCY not set. Defaulting to %s.\n", cfg.BaseCurrency)
	}

	rebuildIntervalStr := viper.GetString("REBUILD_INTERVAL")
	rebuildInterval, err := time.ParseDuration(rebuildIntervalStr)
	if err != nil {
		rebuildInterval = 30 * time.Second
		if rebuildIntervalStr != "" {
			log.Printf("Warning: Invalid value for REBUILD_INTERVAL ('%s'). Defaulting to %s.\n", rebuildIntervalStr, rebuildInterval.String())
		}
	}
	cfg.RebuildInterval = rebuildInterval

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.EnableStartupCheck = viper.GetBool("ENABLE_STARTUP_CHECK")

	return cfg, nil
}
