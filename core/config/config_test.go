package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 1000, cfg.Fetch.BackoffStepMS)
	assert.Equal(t, 6, cfg.Fetch.Concurrency)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "exports", cfg.Compare.ExportPrefix)
	assert.False(t, cfg.Compare.IncludeHost)
	assert.Empty(t, cfg.Cookies.Hosts())
}

func TestLoadConfig_EnvFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	env := "FETCH_MAX_ATTEMPTS=3\nCOOKIES_EXOPHASE=session=abc\nCOMPARE_INCLUDE_HOST=true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Setenv("SERVER_PORT", "9090")
	// godotenv.Overload sets these through os.Setenv; t.Setenv restores them.
	t.Setenv("FETCH_MAX_ATTEMPTS", "")
	t.Setenv("COOKIES_EXOPHASE", "")
	t.Setenv("COMPARE_INCLUDE_HOST", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Fetch.MaxAttempts)
	assert.True(t, cfg.Compare.IncludeHost)
	assert.Equal(t, map[string]string{"exophase.com": "session=abc"}, cfg.Cookies.Hosts())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")
	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "DATABASE_DRIVER")

	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("LOG_FORMAT", "xml")
	_, err = LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "LOG_FORMAT")
}
