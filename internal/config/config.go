package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Upstream provider.
	NDBCBaseURL string        `env:"NDBC_BASE_URL" envDefault:"https://www.ndbc.noaa.gov"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	UserAgent   string        `env:"USER_AGENT" envDefault:"WeatherandTideReport/1.0"`
	UseMockData bool          `env:"USE_MOCK_DATA" envDefault:"false"`

	// Observation cache.
	CacheTTL              time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	CacheMaxEntries       int           `env:"CACHE_MAX_ENTRIES" envDefault:"500"`
	CacheSweepProbability float64       `env:"CACHE_SWEEP_PROBABILITY" envDefault:"0.1"`
	CacheSweepInterval    time.Duration `env:"CACHE_SWEEP_INTERVAL" envDefault:"0s"` // 0 = no scheduled sweep

	// CoalesceFetches shares one upstream fetch between concurrent misses for a station.
	CoalesceFetches bool `env:"COALESCE_FETCHES" envDefault:"false"`

	// Stations refreshed in the background so they are always warm.
	WarmStations []string      `env:"WARM_STATIONS" envSeparator:","`
	WarmInterval time.Duration `env:"WARM_INTERVAL" envDefault:"5m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json or console

	dotenvErr error
}

// DotEnvErr reports why no .env file was loaded, or nil if one was.
func (c *AppConfig) DotEnvErr() error {
	return c.dotenvErr
}

// Load reads configuration from the environment (and an optional .env file) with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{dotenvErr: godotenv.Load()}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *AppConfig) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.CacheMaxEntries)
	}
	if c.CacheSweepProbability < 0 || c.CacheSweepProbability > 1 {
		return fmt.Errorf("CACHE_SWEEP_PROBABILITY must be between 0 and 1, got %g", c.CacheSweepProbability)
	}
	if c.CacheSweepInterval < 0 {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL must not be negative, got %s", c.CacheSweepInterval)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if len(c.WarmStations) > 0 && c.WarmInterval <= 0 {
		return fmt.Errorf("WARM_INTERVAL must be positive when WARM_STATIONS is set")
	}
	u, err := url.Parse(c.NDBCBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid NDBC_BASE_URL %q", c.NDBCBaseURL)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}
