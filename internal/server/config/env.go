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
	envEndpointAddr    = "SALON_SERVER_ADDR"
	envDatabaseDSN     = "SALON_DATABASE_DSN"
	envSecretKey       = "SALON_SECRET_KEY"
	envTokenTTL        = "SALON_TOKEN_TTL"
	envLogLevel        = "SALON_SERVER_LOG_LEVEL"
	envLoginRateLimit  = "SALON_LOGIN_RATE_LIMIT"
	envLoginRateWindow = "SALON_LOGIN_RATE_WINDOW"
)

var envFile = ".env"

func parseEnv(cfg *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	if v := os.Getenv(envEndpointAddr); v != "" {
		cfg.EndpointAddr = v
	}
	if v := os.Getenv(envDatabaseDSN); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv(envSecretKey); v != "" {
		cfg.SecretKey = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envTokenTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTokenTTL, err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv(envLoginRateLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envLoginRateLimit, err)
		}
		cfg.LoginRateLimit = n
	}
	if v := os.Getenv(envLoginRateWindow); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envLoginRateWindow, err)
		}
		cfg.LoginRateWindow = d
	}
	return nil
}
