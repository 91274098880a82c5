package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the ClassPulse CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend API.
//   - PublicBaseURL: base URL of the public web app, used to build join links.
//   - DatabasePath: durable local database (auth state, check-in history).
//   - SessionDatabasePath: ephemeral database scoped to the current
//     browsing session (guest identities).
//   - DashboardPollInterval: how often the teacher dashboard view refreshes
//     while a session is open.
type Config struct {
	ServerBaseURL         string
	PublicBaseURL         string
	DatabasePath          string
	SessionDatabasePath   string
	DashboardPollInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000"
	c.PublicBaseURL = "http://localhost:5173"
	c.DatabasePath = "classpulse.db"
	c.SessionDatabasePath = filepath.Join(os.TempDir(), "classpulse-session.db")
	c.DashboardPollInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
