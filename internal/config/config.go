// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and FTCSCOPE_ environment variables on top.
// - Errors wrap ErrInvalidConfig or ErrLoadConfig for errors.Is checks.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// APIBaseURL is the root of the FTCScout REST API.
	APIBaseURL string `koanf:"api_base_url"`

	// CacheTTLMS is how long a cached upstream response stays fresh.
	CacheTTLMS int `koanf:"cache_ttl_ms"`

	// HTTPTimeoutMS bounds each upstream request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// CurrentSeason is the newest selectable season and the lookup default.
	CurrentSeason int `koanf:"current_season"`

	// DefaultRookieYear is the oldest season offered when a team has no
	// rookie year on record.
	DefaultRookieYear int `koanf:"default_rookie_year"`

	// UserAgent is sent on upstream requests.
	UserAgent string `koanf:"user_agent"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// MetricsRefreshMS is how often runtime gauges are sampled.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`

	// MetricsBucketsMS overrides the latency histogram buckets. Empty keeps
	// the built-in buckets.
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`

	// MetricsLabels are constant labels added to every metric series.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		APIBaseURL:         "https://api.ftcscout.org/rest/v1",
		CacheTTLMS:         300_000,
		HTTPTimeoutMS:      15_000,
		CurrentSeason:      2024,
		DefaultRookieYear:  2024,
		UserAgent:          "ftcscope/1.0",
		CORSAllowedOrigins: []string{"*"},
		MetricsRefreshMS:   10_000,
	}
}

// CacheTTL returns CacheTTLMS as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMS) * time.Millisecond
}

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.APIBaseURL == "":
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	case c.CacheTTLMS <= 0:
		return fmt.Errorf("%w: cache_ttl_ms must be positive", ErrInvalidConfig)
	case c.HTTPTimeoutMS <= 0:
		return fmt.Errorf("%w: http_timeout_ms must be positive", ErrInvalidConfig)
	case c.MetricsRefreshMS <= 0:
		return fmt.Errorf("%w: metrics_refresh_ms must be positive", ErrInvalidConfig)
	case c.CurrentSeason <= 0:
		return fmt.Errorf("%w: current_season must be positive", ErrInvalidConfig)
	case c.CurrentSeason < c.DefaultRookieYear:
		return fmt.Errorf("%w: current_season %d is before default_rookie_year %d",
			ErrInvalidConfig, c.CurrentSeason, c.DefaultRookieYear)
	}
	return nil
}
