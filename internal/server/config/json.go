package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/salonadmin/internal/flagx"
	"github.com/dmitrijs2005/salonadmin/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "1m" or
// integer nanoseconds; absent fields keep the current value.
type JsonConfig struct {
	EndpointAddr    string          `json:"endpoint_addr"`
	DatabaseDSN     string          `json:"database_dsn"`
	SecretKey       string          `json:"secret_key"`
	TokenTTL        *timex.Duration `json:"token_ttl"`
	LogLevel        string          `json:"log_level"`
	LoginRateLimit  *int            `json:"login_rate_limit"`
	LoginRateWindow *timex.Duration `json:"login_rate_window"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
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

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenTTL != nil {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LoginRateLimit != nil {
		cfg.LoginRateLimit = *jc.LoginRateLimit
	}
	if jc.LoginRateWindow != nil {
		cfg.LoginRateWindow = jc.LoginRateWindow.Duration
	}
	if jc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
	return nil
}
