// Package config loads runtime configuration for the ClassPulse CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-p string   base URL of the public web app (join links)
//	-d string   path to the durable local database
//	-i int      dashboard poll interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8000",
//	  "public_base_url": "https://app.classpulse.io",
//	  "database_path": "classpulse.db",
//	  "dashboard_poll_interval": "3s"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
