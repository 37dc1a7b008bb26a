package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/ftcscope/internal/adapters/ftcscout"
	"github.com/okian/ftcscope/internal/lookupcli"
)

// Default configuration constants.
const (
	defaultTimeout = 30 * time.Second
)

func main() {
	var (
		team    = flag.Int("team", 0, "Team number")
		season  = flag.Int("season", 0, "Season year (default: current season)")
		baseURL = flag.String("url", ftcscout.DefaultBaseURL, "Statistics API base URL")
		timeout = flag.Duration("timeout", defaultTimeout, "Overall lookup timeout")
		asJSON  = flag.Bool("json", false, "Print the lookup as JSON")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		lookupcli.ShowHelp(os.Stdout)
		return
	}

	if err := lookupcli.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &lookupcli.Config{
		BaseURL: *baseURL,
		Team:    *team,
		Season:  *season,
		Timeout: *timeout,
		JSON:    *asJSON,
		Verbose: *verbose,
	}

	if err := lookupcli.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("Lookup failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
