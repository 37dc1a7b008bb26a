package ftcscout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/ftcscope/internal/domain/model"
	"github.com/okian/ftcscope/pkg/logger"
)

// Client defaults.
const (
	DefaultBaseURL = "https://api.ftcscout.org/rest/v1"
	DefaultTTL     = 5 * time.Minute
)

// Getter returns the JSON body for a URL, possibly from a cache.
type Getter interface {
	Get(ctx context.Context, url string, ttl time.Duration) (json.RawMessage, error)
}

// Client issues the four lookups the pipeline needs. Each call is one GET
// through the Getter with no retry.
type Client struct {
	getter  Getter
	baseURL string
	ttl     time.Duration
	logger  logger.Logger
}

// New creates a Client reading through getter.
func New(getter Getter, opts ...Option) *Client {
	c := &Client{
		getter:  getter,
		baseURL: DefaultBaseURL,
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Default().Named("ftcscout")
	}
	return c
}

// BaseURL returns the configured REST base path.
func (c *Client) BaseURL() string { return c.baseURL }

// TeamURL is GET /teams/{number}.
func (c *Client) TeamURL(number int) string {
	return fmt.Sprintf("%s/teams/%d", c.baseURL, number)
}

// TeamEventsURL is GET /teams/{number}/events/{season}.
func (c *Client) TeamEventsURL(number, season int) string {
	return fmt.Sprintf("%s/teams/%d/events/%d", c.baseURL, number, season)
}

// EventMatchesURL is GET /events/{season}/{eventCode}/matches.
func (c *Client) EventMatchesURL(season int, eventCode string) string {
	return fmt.Sprintf("%s/events/%d/%s/matches", c.baseURL, season, url.PathEscape(eventCode))
}

// QuickStatsURL is GET /teams/{number}/quick-stats?season={season}.
func (c *Client) QuickStatsURL(number, season int) string {
	q := url.Values{"season": []string{strconv.Itoa(season)}}
	return fmt.Sprintf("%s/teams/%d/quick-stats?%s", c.baseURL, number, q.Encode())
}

// Team fetches team metadata. An empty payload yields a NotFoundError.
func (c *Client) Team(ctx context.Context, number int) (model.Team, error) {
	var team model.Team
	if err := c.get(ctx, "ftcscout.team", c.TeamURL(number), &team); err != nil {
		return model.Team{}, err
	}
	if team.Empty() {
		return model.Team{}, &NotFoundError{Resource: "team", Key: strconv.Itoa(number)}
	}
	return team, nil
}

// TeamEvents fetches the events a team attended in a season, in API order.
func (c *Client) TeamEvents(ctx context.Context, number, season int) ([]model.RawEvent, error) {
	var events []model.RawEvent
	if err := c.get(ctx, "ftcscout.team_events", c.TeamEventsURL(number, season), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventMatches fetches every match played at an event, not only one team's.
func (c *Client) EventMatches(ctx context.Context, season int, eventCode string) ([]model.RawMatch, error) {
	var matches []model.RawMatch
	if err := c.get(ctx, "ftcscout.event_matches", c.EventMatchesURL(season, eventCode), &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// QuickStats fetches season-wide ranking metrics for a team.
func (c *Client) QuickStats(ctx context.Context, number, season int) (model.QuickStats, error) {
	var qs model.QuickStats
	if err := c.get(ctx, "ftcscout.quick_stats", c.QuickStatsURL(number, season), &qs); err != nil {
		return model.QuickStats{}, err
	}
	return qs, nil
}

func (c *Client) get(ctx context.Context, op, rawURL string, out any) error {
	if c.getter == nil {
		return &FetchError{Op: op, URL: rawURL, Err: errors.New("client has no getter")}
	}
	body, err := c.getter.Get(ctx, rawURL, c.ttl)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return err
		}
		return &FetchError{Op: op, URL: rawURL, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Op: op, URL: rawURL, Err: fmt.Errorf("decoding response: %w", err)}
	}
	c.logger.Debug(ctx, "fetched", logger.String("op", op), logger.String("url", rawURL))
	return nil
}
