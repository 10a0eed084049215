package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET_KEY", "test_secret_key")
	t.Setenv("MONGO_DB", "timetrack_test")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:5173,")
	t.Setenv("MONGO_MAX_CONN_IDLE_TIME", "30")
	t.Setenv("SETTINGS_CACHE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "timetrack_test", cfg.Database.DatabaseName)
	assert.Equal(t, 30*time.Second, cfg.Database.MaxConnIdleTime)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "events", cfg.Collections.Events)
	assert.Equal(t, 24*time.Hour, cfg.SessionDuration())
	assert.Equal(t, 5*time.Minute, cfg.SettingsCacheTTL)
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
port: "7000"
log_level: debug
database:
  uri: mongodb://mongo:27017
  database: from_file
collections:
  events: calendar_events
auth:
  jwt_secret_key: file-secret
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET_KEY", "")
	os.Unsetenv("JWT_SECRET_KEY")
	t.Setenv("PORT", "7001")
	t.Setenv("MONGO_DB", "")
	os.Unsetenv("MONGO_DB")
	t.Setenv("MONGO_URI", "")
	os.Unsetenv("MONGO_URI")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7001", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Database.URI)
	assert.Equal(t, "from_file", cfg.Database.DatabaseName)
	assert.Equal(t, "calendar_events", cfg.Collections.Events)
	assert.Equal(t, "habits", cfg.Collections.Habits)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecretKey)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET_KEY is not set")

	cfg.Auth.JWTSecretKey = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Database.DatabaseName = ""
	assert.EqualError(t, cfg.Validate(), "MONGO_DB is not set")
}
