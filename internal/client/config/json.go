package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/classpulse/classpulse/internal/flagx"
	"github.com/classpulse/classpulse/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL         string         `json:"server_base_url"`
	PublicBaseURL         string         `json:"public_base_url"`
	DatabasePath          string         `json:"database_path"`
	SessionDatabasePath   string         `json:"session_database_path"`
	DashboardPollInterval timex.Duration `json:"dashboard_poll_interval"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. When no file is given the function is a no-op.
// Read or unmarshal errors panic; the caller may recover if desired.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.PublicBaseURL != "" {
		cfg.PublicBaseURL = jc.PublicBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SessionDatabasePath != "" {
		cfg.SessionDatabasePath = jc.SessionDatabasePath
	}
	if jc.DashboardPollInterval.Duration != 0 {
		cfg.DashboardPollInterval = time.Duration(jc.DashboardPollInterval.Duration)
	}
}
