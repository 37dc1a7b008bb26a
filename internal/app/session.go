package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/ftcscope/internal/adapters/cache"
	"github.com/okian/ftcscope/internal/adapters/ftcscout"
	"github.com/okian/ftcscope/internal/domain/analytics"
	"github.com/okian/ftcscope/internal/domain/model"
	"github.com/okian/ftcscope/internal/domain/normalize"
	"github.com/okian/ftcscope/internal/domain/stats"
	"github.com/okian/ftcscope/pkg/logger"
	"github.com/okian/ftcscope/pkg/metrics"
)

// Season defaults.
const (
	DefaultCurrentSeason     = 2024
	DefaultRookieYear        = 2024
	DefaultCacheTTL          = 5 * time.Minute
	DefaultUpstreamTimeout   = 15 * time.Second
	DefaultUpstreamUserAgent = "ftcscope/1.0"
)

// MatchCard is a normalized match with its display label and outcome.
type MatchCard struct {
	model.NormalizedMatch
	Label  string       `json:"label"`
	Result stats.Result `json:"result"`
}

// EventResult is one event section of a lookup.
type EventResult struct {
	Code    string             `json:"code"`
	Details model.EventDetails `json:"details"`
	Record  model.Record       `json:"record"`
	Matches []MatchCard        `json:"matches"`
}

// Lookup is everything the presentation layer needs for one team season.
type Lookup struct {
	ID        string                  `json:"id"`
	Team      model.Team              `json:"team"`
	Season    int                     `json:"season"`
	Seasons   []int                   `json:"seasons"`
	Events    []EventResult           `json:"events"`
	Record    model.Record            `json:"record"`
	Stats     model.SeasonStats       `json:"stats"`
	Rankings  []stats.CategoryRanking `json:"rankings"`
	Analytics analytics.Analytics     `json:"analytics"`

	Buckets *model.EventBuckets `json:"-"`
}

// SeasonList is the season selector for a team.
type SeasonList struct {
	Team    model.Team `json:"team"`
	Seasons []int      `json:"seasons"`
}

// Session owns the response cache and the pipeline stages built on it.
// It is safe for concurrent lookups. Close drops every cached response.
type Session struct {
	cache      *cache.Cache
	client     *ftcscout.Client
	normalizer *normalize.Normalizer

	currentSeason     int
	defaultRookieYear int
	logger            logger.Logger
}

func defaults() settings {
	return settings{
		baseURL:           ftcscout.DefaultBaseURL,
		cacheTTL:          DefaultCacheTTL,
		httpTimeout:       DefaultUpstreamTimeout,
		userAgent:         DefaultUpstreamUserAgent,
		currentSeason:     DefaultCurrentSeason,
		defaultRookieYear: DefaultRookieYear,
	}
}

// NewSession wires transport, cache, client and normalizer.
func NewSession(opts ...Option) *Session {
	st := defaults()
	for _, opt := range opts {
		opt(&st)
	}
	if st.logger == nil {
		st.logger = logger.Default().Named("app")
	}
	if st.defaultRookieYear > st.currentSeason {
		st.defaultRookieYear = st.currentSeason
	}

	topts := []ftcscout.TransportOption{
		ftcscout.WithTimeout(st.httpTimeout),
		ftcscout.WithUserAgent(st.userAgent),
	}
	if st.httpClient != nil {
		topts = append(topts, ftcscout.WithHTTPClient(st.httpClient))
	}
	c := cache.New(ftcscout.NewTransport(topts...),
		cache.WithDefaultTTL(st.cacheTTL),
		cache.WithLogger(st.logger.Named("cache")),
	)
	client := ftcscout.New(c,
		ftcscout.WithBaseURL(st.baseURL),
		ftcscout.WithTTL(st.cacheTTL),
		ftcscout.WithLogger(st.logger.Named("ftcscout")),
	)
	return &Session{
		cache:             c,
		client:            client,
		normalizer:        normalize.New(client, normalize.WithLogger(st.logger.Named("normalize"))),
		currentSeason:     st.currentSeason,
		defaultRookieYear: st.defaultRookieYear,
		logger:            st.logger,
	}
}

// CurrentSeason is the newest selectable season.
func (s *Session) CurrentSeason() int { return s.currentSeason }

// CachedResponses reports how many upstream responses are cached.
func (s *Session) CachedResponses() int { return s.cache.Len() }

// Close drops all cached responses.
func (s *Session) Close() error {
	s.cache.Clear()
	return nil
}

// Seasons lists selectable seasons, newest first, from currentSeason down to
// rookieYear. A missing rookie year falls back to defaultRookieYear; a rookie
// year after currentSeason yields only currentSeason.
func Seasons(rookieYear, currentSeason, defaultRookieYear int) []int {
	if rookieYear <= 0 {
		rookieYear = defaultRookieYear
	}
	if rookieYear <= 0 || rookieYear > currentSeason {
		rookieYear = currentSeason
	}
	out := make([]int, 0, currentSeason-rookieYear+1)
	for y := currentSeason; y >= rookieYear; y-- {
		out = append(out, y)
	}
	return out
}

// TeamSeasons fetches the team and returns its season selector.
func (s *Session) TeamSeasons(ctx context.Context, number int) (SeasonList, error) {
	if number <= 0 {
		return SeasonList{}, fmt.Errorf("%w: %d", ErrInvalidTeam, number)
	}
	team, err := s.client.Team(ctx, number)
	if err != nil {
		return SeasonList{}, err
	}
	return SeasonList{
		Team:    team,
		Seasons: Seasons(team.RookieYear, s.currentSeason, s.defaultRookieYear),
	}, nil
}

// Lookup runs the whole pipeline for one team season. Season 0 means the
// current season. Failure to fetch the team or its event list aborts the
// lookup; a single event's matches failing only drops that event.
func (s *Session) Lookup(ctx context.Context, number, season int) (*Lookup, error) {
	start := time.Now()
	res, err := s.lookup(ctx, number, season)
	metrics.RecordLookup(outcome(err))
	metrics.RecordLookupLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.logger.Warn(ctx, "lookup failed",
			logger.Int("team", number),
			logger.Int("season", season),
			logger.Error(err),
		)
		return nil, err
	}
	s.logger.Info(ctx, "lookup complete",
		logger.String("id", res.ID),
		logger.Int("team", number),
		logger.Int("season", res.Season),
		logger.Int("events", len(res.Events)),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (s *Session) lookup(ctx context.Context, number, season int) (*Lookup, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTeam, number)
	}
	if season == 0 {
		season = s.currentSeason
	}

	team, err := s.client.Team(ctx, number)
	if err != nil {
		return nil, err
	}
	seasons := Seasons(team.RookieYear, s.currentSeason, s.defaultRookieYear)
	if season > seasons[0] || season < seasons[len(seasons)-1] {
		return nil, fmt.Errorf("%w: %d not in %d..%d", ErrInvalidSeason,
			season, seasons[len(seasons)-1], seasons[0])
	}

	events, err := s.client.TeamEvents(ctx, number, season)
	if err != nil {
		return nil, fmt.Errorf("team events: %w", err)
	}
	quick, err := s.client.QuickStats(ctx, number, season)
	switch {
	case errors.Is(err, ftcscout.ErrNotFound):
		quick = model.QuickStats{Season: season, Number: number}
	case err != nil:
		return nil, fmt.Errorf("quick stats: %w", err)
	}

	buckets, err := s.normalizer.Normalize(ctx, number, season, events)
	if err != nil {
		return nil, err
	}

	out := &Lookup{
		ID:      uuid.NewString(),
		Team:    team,
		Season:  season,
		Seasons: seasons,
		Buckets: buckets,
	}

	// Both consumers read the buckets only.
	var g errgroup.Group
	g.Go(func() error {
		out.Record = stats.OverallRecord(buckets)
		out.Stats = stats.CombineSeasonStats(quick, events)
		out.Rankings = stats.Rankings(out.Stats)
		out.Events = eventResults(buckets)
		return nil
	})
	g.Go(func() error {
		out.Analytics = analytics.Derive(buckets.Matches())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func eventResults(buckets *model.EventBuckets) []EventResult {
	out := make([]EventResult, 0, buckets.Len())
	for _, code := range buckets.Codes() {
		b, _ := buckets.Get(code)
		cards := make([]MatchCard, len(b.Matches))
		for i, m := range b.Matches {
			cards[i] = MatchCard{NormalizedMatch: m, Label: m.Label(), Result: stats.DetermineResult(m)}
		}
		out = append(out, EventResult{
			Code:    code,
			Details: b.Details,
			Record:  stats.EventRecord(b.Matches),
			Matches: cards,
		})
	}
	return out
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	case errors.Is(err, ErrInvalidTeam), errors.Is(err, ErrInvalidSeason):
		return metrics.OutcomeInvalid
	case errors.Is(err, ftcscout.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeUpstreamErr
	}
}
