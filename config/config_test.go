package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tmdb.api_key is required")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("APP_ENVIRONMENT", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.TMDB.APIKey)
	assert.Equal(t, DefaultEnvironment, cfg.App.Environment)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "movieapp.db", cfg.Database.DSN)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:5173")
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("APP_ENVIRONMENT", "Development")
	t.Setenv("TMDB_BASE_URL", "http://localhost:9999/3/")
	t.Setenv("TMDB_TIMEOUT", "2s")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://movieapp@localhost/movieapp?sslmode=disable")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Development", cfg.App.Environment)
	assert.Equal(t, "http://localhost:9999/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("tmdb:\n  api_key: file-key\nserver:\n  addr: \":9090\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.TMDB.APIKey)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:      AppConfig{Environment: "Production"},
			TMDB:     TMDBConfig{APIKey: "k", BaseURL: "https://api.themoviedb.org/3", Timeout: time.Second},
			Database: DatabaseConfig{Driver: "sqlite3", DSN: ":memory:"},
			Logging:  LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "blank api key", mutate: func(c *Config) { c.TMDB.APIKey = "   " }, wantErr: "tmdb.api_key"},
		{name: "zero timeout", mutate: func(c *Config) { c.TMDB.Timeout = 0 }, wantErr: "tmdb.timeout"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "invalid database.driver"},
		{name: "empty dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: "database.dsn"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "invalid logging level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "invalid logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DefaultsEmptyEnvironment(t *testing.T) {
	cfg := Config{
		TMDB:     TMDBConfig{APIKey: "k", BaseURL: "https://api.themoviedb.org/3", Timeout: time.Second},
		Database: DatabaseConfig{Driver: "sqlite3", DSN: ":memory:"},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
	}

	require.NoError(t, validate(&cfg))
	assert.Equal(t, DefaultEnvironment, cfg.App.Environment)
}
