package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, "127.0.0.1:8000", cfg.ListenAddr)
	assert.Equal(t, filepath.Join(home, ".go-efficia-monitor", "activity.db"), cfg.DatabasePath)
	assert.Equal(t, filepath.Join(home, ".go-efficia-monitor", "logs", "app.log"), cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Source)
}

func TestLoadReadsDefaultFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".go-efficia-monitor")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[api]
url = "http://10.0.0.5:9000"
timeout = "3s"

[dashboard]
refresh_interval = "30s"
timezone = "UTC"

[server]
database = "~/data/activity.db"
`), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:9000", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, filepath.Join(home, "data", "activity.db"), cfg.DatabasePath)
	assert.Equal(t, "127.0.0.1:8000", cfg.ListenAddr, "unset keys keep their defaults")
	assert.Equal(t, filepath.Join(dir, "config.toml"), cfg.Source)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv("EFFICIA_API_URL", "https://tracker.example.com")
	t.Setenv("EFFICIA_DASHBOARD_REFRESH_INTERVAL", "5s")
	t.Setenv("EFFICIA_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://tracker.example.com", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	isolateHome(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"url without scheme", map[string]string{"EFFICIA_API_URL": "127.0.0.1:8000"}},
		{"unsupported scheme", map[string]string{"EFFICIA_API_URL": "ftp://host"}},
		{"refresh too fast", map[string]string{"EFFICIA_DASHBOARD_REFRESH_INTERVAL": "100ms"}},
		{"zero timeout", map[string]string{"EFFICIA_API_TIMEOUT": "0s"}},
		{"unknown timezone", map[string]string{"EFFICIA_DASHBOARD_TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateHome(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestWriteThenLoad(t *testing.T) {
	isolateHome(t)
	cfg, err := Default()
	require.NoError(t, err)
	cfg.APIURL = "http://192.168.1.20:8000"
	cfg.RefreshInterval = 15 * time.Second
	cfg.Timezone = "Europe/Berlin"

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, Write(path, cfg, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.APIURL, loaded.APIURL)
	assert.Equal(t, cfg.RefreshInterval, loaded.RefreshInterval)
	assert.Equal(t, cfg.Timezone, loaded.Timezone)
	assert.Equal(t, cfg.DatabasePath, loaded.DatabasePath)
	assert.Equal(t, path, loaded.Source)
}

func TestWriteRefusesToOverwrite(t *testing.T) {
	isolateHome(t)
	cfg, err := Default()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Write(path, cfg, false))
	assert.Error(t, Write(path, cfg, false))
	assert.NoError(t, Write(path, cfg, true))
}

func TestEncode(t *testing.T) {
	isolateHome(t)
	cfg, err := Default()
	require.NoError(t, err)

	data, err := cfg.Encode()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "[api]")
	assert.Contains(t, out, "http://127.0.0.1:8000")
	assert.Contains(t, out, "refresh_interval")
	assert.Contains(t, out, "10s")
	assert.Contains(t, out, "[server]")
}
