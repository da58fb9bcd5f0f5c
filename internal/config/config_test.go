package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "setupdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
workers: 4
multiple: true
keep_invalid: false
keep_cleared_rows: true
timeout: 5s
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Workers:         4,
		Multiple:        true,
		KeepInvalid:     false,
		KeepClearedRows: true,
		Timeout:         5 * time.Second,
		LogLevel:        "debug",
	}, cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "multiple: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Multiple)
	assert.True(t, cfg.KeepInvalid)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SETUPDB_WORKERS", "2")
	t.Setenv("SETUPDB_TIMEOUT", "1m")
	t.Setenv("SETUPDB_LOG_LEVEL", "warn")

	cfg, err := Load(writeFile(t, "workers: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"UnknownKey", "wrokers: 2\n"},
		{"BadType", "workers: many\n"},
		{"NegativeWorkers", "workers: -1\n"},
		{"BadLevel", "log_level: loud\n"},
		{"BadTimeout", "timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("SETUPDB_WORKERS", "lots")
	_, err := Load("")
	assert.Error(t, err)
}
