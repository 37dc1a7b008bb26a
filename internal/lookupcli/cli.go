// Package lookupcli runs a single team lookup from the command line and
// prints the dashboard as plain text or JSON.
package lookupcli

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/ftcscope/pkg/logger"
)

// SetupLogging initializes the global logger on stderr so stdout carries
// only the report.
func SetupLogging(verbose bool) error {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the lookup tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `ftcscope lookup
===============

Fetches one FTC team's season from the FTCScout API and prints its record,
statistics, per-event matches and analytics.

Usage:
  go run ./cmd/lookup -team NUMBER [options]

Options:
  -team int
        Team number (required)
  -season int
        Season year (default: current season)
  -url string
        Statistics API base URL (default "https://api.ftcscout.org/rest/v1")
  -timeout duration
        Overall lookup timeout (default 30s)
  -json
        Print the lookup as JSON instead of text
  -verbose
        Log upstream requests to stderr
  -help
        Show this help message

Examples:
  go run ./cmd/lookup -team 12345
  go run ./cmd/lookup -team 12345 -season 2023 -json
`)
}
