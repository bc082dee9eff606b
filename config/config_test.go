package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "localhost:3000", cfg.Address())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := []byte("server:\n  host: 0.0.0.0\n  port: 8080\ndatabase:\n  url: postgres://localhost/app\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lazyrest.yml"), content, 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "postgres://localhost/app", cfg.Database.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestDatabaseURL_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://env/override")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/override", cfg.DatabaseURL())
}
