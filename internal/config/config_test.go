package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewwphillips/todoql/internal/config"
)

// inDir runs the test in a new directory (so that no .env or config file is found unless the test writes one)
func inDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestDefaults(t *testing.T) {
	inDir(t)
	t.Setenv("DATABASE_URL", "sqlite://todos.db")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite://todos.db", cfg.Database.URL)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Pagination.Lookahead)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TTL)
	assert.Empty(t, cfg.Auth.Secret)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestNoDatabase(t *testing.T) {
	inDir(t)
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load("")
	assert.ErrorIs(t, err, config.ErrNoDatabase)
}

func TestDotEnv(t *testing.T) {
	dir := inDir(t)
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL") // godotenv does not override variables that are set
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=sqlite:from-dotenv.db\n"), 0o600))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite:from-dotenv.db", cfg.Database.URL)
}

func TestConfigFile(t *testing.T) {
	dir := inDir(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TODOQL_LOG_LEVEL", "debug") // environment wins over the file
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  url: "file:todos.db"
  max_open_conns: 4
pagination:
  lookahead: true
server:
  addr: "127.0.0.1:9999"
auth:
  secret: "s3cret"
  ttl: 1h
log:
  level: warn
  format: json
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file:todos.db", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Pagination.Lookahead)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
