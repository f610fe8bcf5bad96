package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/salonadmin/internal/flagx"
	"github.com/dmitrijs2005/salonadmin/internal/timex"
)

// JsonConfig is a DTO used only for unmarshalling. Durations accept "5s"
// or integer nanoseconds. Missing fields leave the current value alone.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StoragePath    string          `json:"storage_path"`
	LogLevel       string          `json:"log_level"`
	RateLimit      *float64        `json:"rate_limit"`

	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StoragePath != "" {
		cfg.StoragePath = jc.StoragePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.RateLimit != nil {
		cfg.RateLimit = *jc.RateLimit
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}
