package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	envAPIBaseURL     = "SALON_API_BASE_URL"
	envRequestTimeout = "SALON_REQUEST_TIMEOUT"
	envStoragePath    = "SALON_STORAGE_PATH"
	envLogLevel       = "SALON_LOG_LEVEL"
	envRateLimit      = "SALON_RATE_LIMIT"
)

var envFile = ".env"

// parseEnv loads .env (if any) into the process environment without
// overriding variables that are already set, then reads SALON_* values.
func parseEnv(cfg *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	if v, ok := os.LookupEnv(envAPIBaseURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(envRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := os.LookupEnv(envStoragePath); ok && v != "" {
		cfg.StoragePath = v
	}
	if v, ok := os.LookupEnv(envLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(envRateLimit); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", envRateLimit, err)
		}
		cfg.RateLimit = r
	}
	return nil
}
