package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	LogLevel      string

	// Rate limiting for the API surface.
	RateLimitEnabled bool
	RateLimitPeriod  time.Duration
	RateLimitCount   int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("RATE_LIMIT_COUNT", 300)

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

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	cfg.RateLimitEnabled = viper.GetBool("RATE_LIMIT_ENABLED")
	cfg.RateLimitCount = viper.GetInt64("RATE_LIMIT_COUNT")

	rateLimitPeriodStr := viper.GetString("RATE_LIMIT_PERIOD")
	rateLimitPeriod, err := time.ParseDuration(rateLimitPeriodStr)
	if err != nil {
		rateLimitPeriod = time.Minute
		if rateLimitPeriodStr != "" {
			log.Printf("Warning: Invalid value for RATE_LIMIT_PERIOD ('%s'). Defaulting to %s.\n", rateLimitPeriodStr, rateLimitPeriod.String())
		}
	}
	cfg.RateLimitPeriod = rateLimitPeriod

	return cfg, nil
}
