package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	Port            string
	IsProduction    bool
	FrontendBaseURL string

	// Per-provider credentials. An empty value marks the provider unconfigured.
	CurrencyFreaksAPIKey string
	OXRAppID             string
	APILayerKey          string

	// Raw tier overrides; alias normalization and validation happen in the
	// strategy service so that an unknown value yields a warning tag, never a
	// startup failure.
	DailyProviderRaw     string
	BackfillPrimaryRaw   string
	BackfillSecondaryRaw string
	BackfillMaxCalls     int
	ProviderTimeout      time.Duration

	DefaultStore       string
	DailyCron          string
	RateCacheTTL       time.Duration
	ApplyMaxWindowDays int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.SetDefault("CURRENCYFREAKS_API_KEY", "")
	viper.SetDefault("OXR_APP_ID", "")
	viper.SetDefault("APILAYER_EXCHANGE_RATES_KEY", "")

	viper.SetDefault("EXCHANGE_RATE_DAILY_PROVIDER", "")
	viper.SetDefault("EXCHANGE_RATE_BACKFILL_PRIMARY_PROVIDER", "")
	viper.SetDefault("EXCHANGE_RATE_BACKFILL_PROVIDER", "")
	viper.SetDefault("EXCHANGE_RATE_HISTORICAL_PROVIDER", "")
	viper.SetDefault("EXCHANGE_RATE_BACKFILL_SECONDARY_PROVIDER", "")
	viper.SetDefault("EXCHANGE_RATE_BACKFILL_MAX_CALLS", 50)
	viper.SetDefault("FX_PROVIDER_TIMEOUT", "10s")

	viper.SetDefault("DEFAULT_STORE", "shawq")
	viper.SetDefault("FX_DAILY_CRON", "15 4 * * *")
	viper.SetDefault("FX_RATE_CACHE_TTL", "5m")
	viper.SetDefault("FX_APPLY_MAX_WINDOW_DAYS", 370)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	cfg.CurrencyFreaksAPIKey = viper.GetString("CURRENCYFREAKS_API_KEY")
	cfg.OXRAppID = viper.GetString("OXR_APP_ID")
	cfg.APILayerKey = viper.GetString("APILAYER_EXCHANGE_RATES_KEY")

	cfg.DailyProviderRaw = viper.GetString("EXCHANGE_RATE_DAILY_PROVIDER")

	// EXCHANGE_RATE_BACKFILL_PROVIDER and EXCHANGE_RATE_HISTORICAL_PROVIDER are
	// accepted aliases for the primary backfill override.
	cfg.BackfillPrimaryRaw = viper.GetString("EXCHANGE_RATE_BACKFILL_PRIMARY_PROVIDER")
	if cfg.BackfillPrimaryRaw == "" {
		cfg.BackfillPrimaryRaw = viper.GetString("EXCHANGE_RATE_BACKFILL_PROVIDER")
	}
	if cfg.BackfillPrimaryRaw == "" {
		cfg.BackfillPrimaryRaw = viper.GetString("EXCHANGE_RATE_HISTORICAL_PROVIDER")
	}
	cfg.BackfillSecondaryRaw = viper.GetString("EXCHANGE_RATE_BACKFILL_SECONDARY_PROVIDER")

	cfg.BackfillMaxCalls = viper.GetInt("EXCHANGE_RATE_BACKFILL_MAX_CALLS")
	if cfg.BackfillMaxCalls <= 0 {
		cfg.BackfillMaxCalls = 50
	}

	providerTimeoutStr := viper.GetString("FX_PROVIDER_TIMEOUT")
	providerTimeout, err := time.ParseDuration(providerTimeoutStr)
	if err != nil || providerTimeout <= 0 {
		providerTimeout = 10 * time.Second
		if providerTimeoutStr != "" && err != nil {
			log.Printf("Warning: Invalid value for FX_PROVIDER_TIMEOUT ('%s'). Defaulting to %s.\n", providerTimeoutStr, providerTimeout)
		}
	}
	cfg.ProviderTimeout = providerTimeout

	cfg.DefaultStore = viper.GetString("DEFAULT_STORE")
	cfg.DailyCron = viper.GetString("FX_DAILY_CRON")

	cacheTTLStr := viper.GetString("FX_RATE_CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil || cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
		if cacheTTLStr != "" && err != nil {
			log.Printf("Warning: Invalid value for FX_RATE_CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL)
		}
	}
	cfg.RateCacheTTL = cacheTTL

	cfg.ApplyMaxWindowDays = viper.GetInt("FX_APPLY_MAX_WINDOW_DAYS")
	if cfg.ApplyMaxWindowDays <= 0 {
		cfg.ApplyMaxWindowDays = 370
	}

	return cfg, nil
}
