package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 19000, cfg.MaxCalls)
	assert.Equal(t, "11011", cfg.ReportCode)
	assert.Equal(t, []string{"CFS", "OFS"}, cfg.VariantPriority)
	assert.Equal(t, 5, cfg.LookbackYears)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ":8090", cfg.HTTPAddr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DART_API_KEY", "abc123")
	t.Setenv("DATABASE_URL", "postgres://u:p@host/db")
	t.Setenv("MAX_CALLS", "100")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.DartAPIKey)
	assert.Equal(t, "postgres://u:p@host/db", cfg.DatabaseURL)
	assert.Equal(t, 100, cfg.MaxCalls)
}

func TestLoadTargetTickersCommaSplit(t *testing.T) {
	t.Setenv("TARGET_TICKERS", "005930, 000660,,035420")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"005930", "000660", "035420"}, cfg.TargetTickers)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"lookback_years: 3\nhttp_addr: \":9000\"\ncron_spec: \"0 6 * * *\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.LookbackYears)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "0 6 * * *", cfg.CronSpec)
	// Untouched keys keep their defaults.
	assert.Equal(t, 19000, cfg.MaxCalls)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateIngest(t *testing.T) {
	cfg := &Config{
		DartAPIKey:      "k",
		DatabaseURL:     "postgres://",
		MaxCalls:        19000,
		VariantPriority: []string{"CFS", "OFS"},
	}
	assert.NoError(t, cfg.ValidateIngest())

	missingKey := *cfg
	missingKey.DartAPIKey = ""
	assert.Error(t, missingKey.ValidateIngest())

	badBudget := *cfg
	badBudget.MaxCalls = 0
	assert.Error(t, badBudget.ValidateIngest())

	noVariants := *cfg
	noVariants.VariantPriority = nil
	assert.Error(t, noVariants.ValidateIngest())
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Seoul"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())

	cfg.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}
