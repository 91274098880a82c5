package config

import (
	"flag"
	"os"
	"time"

	"github.com/classpulse/classpulse/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API
//	-p string   base URL of the public web app (join links)
//	-d string   path to the durable local database
//	-i int      dashboard poll interval (seconds)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.PublicBaseURL, "p", cfg.PublicBaseURL, "base URL of the public web app")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	pollInterval := fs.Int("i", int(cfg.DashboardPollInterval.Seconds()), "dashboard poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DashboardPollInterval = time.Duration(*pollInterval) * time.Second
}
