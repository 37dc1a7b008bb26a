package lookupcli

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidTeam    = errors.New("team number must be positive")
	ErrInvalidTimeout = errors.New("timeout must be positive")
)

// Config holds the settings for one CLI lookup.
type Config struct {
	BaseURL string
	Team    int
	// Season 0 selects the current season.
	Season        int
	CurrentSeason int
	Timeout       time.Duration
	JSON          bool
	Verbose       bool
}

// Validate checks the configuration before any request is made.
func (c *Config) Validate() error {
	if c.Team <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTeam, c.Team)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTimeout, c.Timeout)
	}
	return nil
}
