// Package service provides the team lookup pipeline behind the HTTP API and
// the CLI.
package service

import (
	"context"
	"sync"

	"github.com/okian/ftcscope/pkg/logger"
	"github.com/okian/ftcscope/pkg/metrics"
)

// Service owns a shared Session for the lifetime of the process.
type Service struct {
	mu sync.RWMutex

	opts    []Option
	session *Session
	started bool

	logger logger.Logger
}

// New constructs a Service. Options are applied to the Session created by
// Start.
func New(opts ...Option) *Service {
	return &Service{opts: opts}
}

// Start builds the session. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	st := defaults()
	for _, opt := range s.opts {
		opt(&st)
	}
	if st.logger == nil {
		st.logger = logger.Default().Named("app")
	}
	s.logger = st.logger

	s.session = NewSession(append(append([]Option{}, s.opts...), WithLogger(st.logger))...)
	s.started = true
	s.logger.Info(ctx, "lookup service started",
		logger.String("baseURL", st.baseURL),
		logger.Duration("cacheTTL", st.cacheTTL),
		logger.Int("currentSeason", s.session.CurrentSeason()),
	)
	return nil
}

// Stop tears down the session and its cache.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	_ = s.session.Close()
	s.session = nil
	s.started = false
	s.logger.Info(context.Background(), "lookup service stopped")
}

func (s *Service) current() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.session, nil
}

// Lookup delegates to the shared session.
func (s *Service) Lookup(ctx context.Context, number, season int) (*Lookup, error) {
	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	return sess.Lookup(ctx, number, season)
}

// TeamSeasons delegates to the shared session.
func (s *Service) TeamSeasons(ctx context.Context, number int) (SeasonList, error) {
	sess, err := s.current()
	if err != nil {
		return SeasonList{}, err
	}
	return sess.TeamSeasons(ctx, number)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started": s.started,
	}
	if s.started {
		n := s.session.CachedResponses()
		out["cachedResponses"] = n
		out["currentSeason"] = s.session.CurrentSeason()
		metrics.UpdateCacheEntries(n)
	}
	return out
}
