// Package config loads runtime settings for the admin console.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then SALON_* environment variables.
//  3. An optional JSON file selected with -c or -config.
//  4. Command-line flags.
//
// Supported flags
//
//	-a string     base URL of the REST API, including the /api prefix
//	-t duration   per-request timeout
//	-d string     path of the local SQLite file holding the session
//	-l string     log level (debug, info, warn, error)
//	-r float      outbound request limit per second, 0 disables it
//	-i duration   how often the backend's health endpoint is probed
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "request_timeout": "5s",
//	  "storage_path": "console.db",
//	  "log_level": "info",
//	  "rate_limit": 10,
//	  "online_check_interval": "10s"
//	}
package config

import (
	"time"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	StoragePath    string
	LogLevel       string
	RateLimit      float64

	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with the values used for local development.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 5 * time.Second
	c.StoragePath = "console.db"
	c.LogLevel = "info"
	c.RateLimit = 0
	c.OnlineCheckInterval = 10 * time.Second
}

// Load builds a Config from defaults, environment, JSON and args
// (os.Args[1:] in production).
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
