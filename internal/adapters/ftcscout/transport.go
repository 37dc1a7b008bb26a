package ftcscout

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/ftcscope/pkg/metrics"
)

// Transport defaults.
const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "ftcscope/1.0"
	maxErrorBody     = 512
)

// Transport performs single GET requests against the API. It implements
// cache.Fetcher and never retries.
type Transport struct {
	httpClient *http.Client
	userAgent  string
}

// NewTransport creates a Transport with a timeout-bounded http.Client.
func NewTransport(opts ...TransportOption) *Transport {
	t := &Transport{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fetch issues GET rawURL and returns the body of a 2xx response.
func (t *Transport) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	const op = "ftcscout.fetch"
	endpoint := endpointLabel(rawURL)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Op: op, URL: rawURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error")
		return nil, &FetchError{Op: op, URL: rawURL, Err: fmt.Errorf("making request: %w", err)}
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	metrics.RecordUpstreamRequest(endpoint, status)
	metrics.RecordUpstreamLatency(endpoint, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{
			Op:         op,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Op: op, URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}

// endpointLabel collapses a request URL into a low-cardinality metric label.
func endpointLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	path := strings.TrimRight(u.Path, "/")
	switch {
	case strings.HasSuffix(path, "/quick-stats"):
		return "quick_stats"
	case strings.HasSuffix(path, "/matches"):
		return "event_matches"
	case strings.Contains(path, "/teams/") && strings.Contains(path, "/events/"):
		return "team_events"
	case strings.Contains(path, "/teams/"):
		return "team"
	default:
		return "other"
	}
}
