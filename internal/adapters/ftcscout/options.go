// Package ftcscout is a client for the FTCScout REST API.
package ftcscout

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/ftcscope/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the REST base path, e.g. "https://api.ftcscout.org/rest/v1".
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithTTL sets how long responses are served from the cache.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// TransportOption applies a configuration option to the Transport.
type TransportOption func(*Transport)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) TransportOption {
	return func(t *Transport) {
		if hc != nil {
			t.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(timeout time.Duration) TransportOption {
	return func(t *Transport) {
		if timeout > 0 {
			t.httpClient.Timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) TransportOption {
	return func(t *Transport) {
		if ua != "" {
			t.userAgent = ua
		}
	}
}
