package lookupcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	service "github.com/okian/ftcscope/internal/app"
	"github.com/okian/ftcscope/pkg/logger"
)

// Run performs the lookup described by cfg and writes the report to w.
func Run(ctx context.Context, cfg *Config, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	log := logger.Default().Named("lookup")
	opts := []service.Option{
		service.WithBaseURL(cfg.BaseURL),
		service.WithLogger(log),
	}
	if cfg.CurrentSeason > 0 {
		opts = append(opts, service.WithCurrentSeason(cfg.CurrentSeason))
	}
	sess := service.NewSession(opts...)
	defer func() { _ = sess.Close() }()

	res, err := sess.Lookup(ctx, cfg.Team, cfg.Season)
	if err != nil {
		return fmt.Errorf("lookup team %d: %w", cfg.Team, err)
	}
	log.Debug(ctx, "lookup complete",
		logger.String("id", res.ID),
		logger.Int("events", len(res.Events)),
		logger.Int("cachedResponses", sess.CachedResponses()),
	)

	if cfg.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return Render(w, res)
}
