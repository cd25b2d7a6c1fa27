package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no stray .env is picked up.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://www.ndbc.noaa.gov", cfg.NDBCBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "WeatherandTideReport/1.0", cfg.UserAgent)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 500, cfg.CacheMaxEntries)
	assert.Equal(t, 0.1, cfg.CacheSweepProbability)
	assert.Zero(t, cfg.CacheSweepInterval)
	assert.False(t, cfg.CoalesceFetches)
	assert.False(t, cfg.UseMockData)
	assert.Empty(t, cfg.WarmStations)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "3000")
	t.Setenv("NDBC_BASE_URL", "http://localhost:9999")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CACHE_MAX_ENTRIES", "25")
	t.Setenv("CACHE_SWEEP_INTERVAL", "1m")
	t.Setenv("WARM_STATIONS", "46042,46086")
	t.Setenv("COALESCE_FETCHES", "true")
	t.Setenv("USE_MOCK_DATA", "true")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:9999", cfg.NDBCBaseURL)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 25, cfg.CacheMaxEntries)
	assert.Equal(t, time.Minute, cfg.CacheSweepInterval)
	assert.Equal(t, []string{"46042", "46086"}, cfg.WarmStations)
	assert.True(t, cfg.CoalesceFetches)
	assert.True(t, cfg.UseMockData)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadReportsMissingDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.DotEnvErr())
}

func TestLoadReadsDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("CACHE_MAX_ENTRIES=42\n"), 0o600))
	t.Setenv("CACHE_MAX_ENTRIES", "")
	os.Unsetenv("CACHE_MAX_ENTRIES")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.DotEnvErr())
	assert.Equal(t, 42, cfg.CacheMaxEntries)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CACHE_TTL", "five minutes")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() AppConfig {
		return AppConfig{
			NDBCBaseURL:           "https://www.ndbc.noaa.gov",
			HTTPTimeout:           10 * time.Second,
			CacheTTL:              5 * time.Minute,
			CacheMaxEntries:       500,
			CacheSweepProbability: 0.1,
			WarmInterval:          5 * time.Minute,
			LogFormat:             "json",
		}
	}

	base := valid()
	require.NoError(t, base.Validate())

	tests := map[string]func(*AppConfig){
		"zero ttl":            func(c *AppConfig) { c.CacheTTL = 0 },
		"zero capacity":       func(c *AppConfig) { c.CacheMaxEntries = 0 },
		"probability above 1": func(c *AppConfig) { c.CacheSweepProbability = 1.5 },
		"negative sweep":      func(c *AppConfig) { c.CacheSweepInterval = -time.Second },
		"zero timeout":        func(c *AppConfig) { c.HTTPTimeout = 0 },
		"relative url":        func(c *AppConfig) { c.NDBCBaseURL = "/data" },
		"ftp url":             func(c *AppConfig) { c.NDBCBaseURL = "ftp://example.com" },
		"warm without period": func(c *AppConfig) { c.WarmStations = []string{"46042"}; c.WarmInterval = 0 },
		"unknown log format":  func(c *AppConfig) { c.LogFormat = "xml" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
