// Package config loads pipeline configuration from a YAML file and the
// environment. Environment variables win over file values so the same
// binary can run locally (.env) and on a scheduler with injected secrets.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete configuration for the ingestion pipeline and API.
type Config struct {
	// DartAPIKey is the static credential for the DART OpenAPI.
	DartAPIKey string `mapstructure:"dart_api_key"`
	// DatabaseURL is the Neon Postgres connection string.
	DatabaseURL string `mapstructure:"database_url"`

	// MaxCalls is the daily outbound call ceiling. The real DART quota is
	// 20,000/day; the default stays below it as a safety margin.
	MaxCalls int `mapstructure:"max_calls"`

	// ReportCode selects the filing type. "11011" is the annual report.
	ReportCode string `mapstructure:"report_code"`
	// VariantPriority is the fixed fetch order of statement variants.
	VariantPriority []string `mapstructure:"variant_priority"`

	// LookbackYears is how many fiscal years back from last year to ingest.
	LookbackYears int `mapstructure:"lookback_years"`
	// TargetTickers restricts ingestion to these stock codes. Empty = all.
	TargetTickers []string `mapstructure:"target_tickers"`

	// Timezone governs the quota day boundary.
	Timezone string `mapstructure:"timezone"`

	// FetchTimeout bounds a single registry call.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`

	// HTTPAddr is the listen address for the dashboard API.
	HTTPAddr string `mapstructure:"http_addr"`
	// CronSpec, when set, schedules ingestion runs inside `serve`.
	CronSpec string `mapstructure:"cron_spec"`
}

// Load reads configuration from the optional file at path and the
// environment. Pass "" to use environment and defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("max_calls", 19000)
	v.SetDefault("report_code", "11011")
	v.SetDefault("variant_priority", []string{"CFS", "OFS"})
	v.SetDefault("lookback_years", 5)
	v.SetDefault("timezone", "Asia/Seoul")
	v.SetDefault("fetch_timeout", 15*time.Second)
	v.SetDefault("http_addr", ":8090")

	v.SetEnvPrefix("DART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The original deployment exported these without a prefix; keep honoring
	// them so existing .env files work as-is.
	_ = v.BindEnv("dart_api_key", "DART_API_KEY")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("max_calls", "MAX_CALLS")
	_ = v.BindEnv("target_tickers", "TARGET_TICKERS")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// TARGET_TICKERS arrives comma-separated from the environment, possibly
	// with spaces around the codes. Normalize either way.
	var tickers []string
	for _, raw := range cfg.TargetTickers {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				tickers = append(tickers, p)
			}
		}
	}
	cfg.TargetTickers = tickers

	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ValidateIngest checks the settings the ingestion pipeline cannot run
// without. Only configuration errors are fatal at startup.
func (c *Config) ValidateIngest() error {
	if c.DartAPIKey == "" {
		return fmt.Errorf("DART_API_KEY is not set")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.MaxCalls <= 0 {
		return fmt.Errorf("max_calls must be positive, got %d", c.MaxCalls)
	}
	if len(c.VariantPriority) == 0 {
		return fmt.Errorf("variant_priority must not be empty")
	}
	return nil
}
