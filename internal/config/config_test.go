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

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LAUDOS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()

	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 5*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://from-file:9000\nclient_id: file-client\n"), 0o600))

	t.Setenv("LAUDOS_CONFIG", path)
	t.Setenv("LAUDOS_SERVER_URL", "http://from-env:9001")

	cfg := Load()
	assert.Equal(t, "http://from-env:9001", cfg.ServerURL)
	assert.Equal(t, "file-client", cfg.ClientID)
}

func TestTimeoutAndDebounceParsing(t *testing.T) {
	t.Setenv("LAUDOS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("LAUDOS_CLIENT_TIMEOUT", "90s")
	t.Setenv("LAUDOS_SEARCH_DEBOUNCE", "150ms")

	cfg := Load()
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}
