package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:5000/api", c.APIBaseURL)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Equal(t, "console.db", c.StoragePath)
	assert.Equal(t, "info", c.LogLevel)
	assert.Zero(t, c.RateLimit)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
}

func TestLoad_NoSourcesGivesDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://api.test/api", "-t", "2s", "-d", "/tmp/x.db", "-l", "debug", "-r", "4", "-i", "1m"},
			expected: &Config{
				APIBaseURL:          "http://api.test/api",
				RequestTimeout:      2 * time.Second,
				StoragePath:         "/tmp/x.db",
				LogLevel:            "debug",
				RateLimit:           4,
				OnlineCheckInterval: time.Minute,
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "cfg.json", "-x", "-a=http://other/api"},
			expected: func() *Config {
				c := defaults()
				c.APIBaseURL = "http://other/api"
				return c
			}(),
		},
		{name: "bad duration", args: []string{"-t", "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseJSON(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "full.json")
	require.NoError(t, os.WriteFile(full, []byte(`{
		"api_base_url": "https://salon.example/api",
		"request_timeout": "750ms",
		"storage_path": "state.db",
		"log_level": "warn",
		"rate_limit": 2.5,
		"online_check_interval": "30s"
	}`), 0o600))

	partial := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"log_level": "error"}`), 0o600))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

	t.Run("full file", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(cfg, []string{"-config", full}))
		assert.Empty(t, cmp.Diff(&Config{
			APIBaseURL:          "https://salon.example/api",
			RequestTimeout:      750 * time.Millisecond,
			StoragePath:         "state.db",
			LogLevel:            "warn",
			RateLimit:           2.5,
			OnlineCheckInterval: 30 * time.Second,
		}, cfg))
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(cfg, []string{"-c", partial}))
		want := defaults()
		want.LogLevel = "error"
		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(cfg, nil))
		assert.Empty(t, cmp.Diff(defaults(), cfg))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		require.Error(t, parseJSON(defaults(), []string{"-c", bad}))
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, parseJSON(defaults(), []string{"-c", filepath.Join(dir, "nope.json")}))
	})
}

func TestParseEnv(t *testing.T) {
	t.Setenv(envAPIBaseURL, "http://env/api")
	t.Setenv(envRequestTimeout, "3s")
	t.Setenv(envStoragePath, "env.db")
	t.Setenv(envLogLevel, "debug")
	t.Setenv(envRateLimit, "7")

	cfg := defaults()
	require.NoError(t, parseEnv(cfg))
	assert.Empty(t, cmp.Diff(&Config{
		APIBaseURL:          "http://env/api",
		RequestTimeout:      3 * time.Second,
		StoragePath:         "env.db",
		LogLevel:            "debug",
		RateLimit:           7,
		OnlineCheckInterval: 10 * time.Second,
	}, cfg))
}

func TestParseEnv_Invalid(t *testing.T) {
	t.Setenv(envRequestTimeout, "later")
	require.Error(t, parseEnv(defaults()))
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SALON_STORAGE_PATH=dotenv.db\n"), 0o600))

	orig := envFile
	envFile = path
	t.Cleanup(func() { envFile = orig })
	// registers cleanup that restores the variable godotenv is about to set
	t.Setenv(envStoragePath, "")
	require.NoError(t, os.Unsetenv(envStoragePath))

	cfg := defaults()
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, "dotenv.db", cfg.StoragePath)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url": "http://json/api", "log_level": "warn"}`), 0o600))
	t.Setenv(envAPIBaseURL, "http://env/api")
	t.Setenv(envStoragePath, "env.db")

	cfg, err := Load([]string{"-c", path, "-a", "http://flag/api"})
	require.NoError(t, err)

	assert.Equal(t, "http://flag/api", cfg.APIBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "env.db", cfg.StoragePath)
}
