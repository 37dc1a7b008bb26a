package service

import (
	"net/http"
	"time"

	"github.com/okian/ftcscope/pkg/logger"
)

// Option applies a configuration option to a Session or Service.
type Option func(*settings)

type settings struct {
	baseURL           string
	cacheTTL          time.Duration
	httpTimeout       time.Duration
	httpClient        *http.Client
	userAgent         string
	currentSeason     int
	defaultRookieYear int
	logger            logger.Logger
}

// WithBaseURL sets the statistics API root.
func WithBaseURL(base string) Option {
	return func(s *settings) {
		if base != "" {
			s.baseURL = base
		}
	}
}

// WithCacheTTL sets how long upstream responses stay fresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithHTTPTimeout bounds each upstream request.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		if timeout > 0 {
			s.httpTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the upstream HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// WithUserAgent sets the upstream User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithCurrentSeason sets the newest selectable season.
func WithCurrentSeason(season int) Option {
	return func(s *settings) {
		if season > 0 {
			s.currentSeason = season
		}
	}
}

// WithDefaultRookieYear sets the oldest season offered to teams without a
// rookie year.
func WithDefaultRookieYear(year int) Option {
	return func(s *settings) {
		if year > 0 {
			s.defaultRookieYear = year
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
