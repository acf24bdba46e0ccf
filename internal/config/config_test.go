package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.6, cfg.Search.MatchThreshold)
	assert.Equal(t, BackendSQLite, cfg.Backend())
	assert.Equal(t, 30*time.Second, cfg.Keepalive())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  keepalive_seconds: 10
search:
  match_threshold: 0.75
store:
  backend: sqlite
  sqlite_path: /var/lib/strudel/docs.db
ingest:
  concurrency: 8
  batch_size: 16
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Keepalive())
	assert.Equal(t, 0.75, cfg.Search.MatchThreshold)
	assert.Equal(t, "/var/lib/strudel/docs.db", cfg.Store.SQLitePath)
	assert.Equal(t, 8, cfg.Ingest.Concurrency)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o644))

	t.Setenv(EnvPort, "7070")
	t.Setenv(EnvThreshold, "0.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Search.MatchThreshold)
}

func TestLoad_SupabaseAutodetect(t *testing.T) {
	t.Setenv(EnvSupabaseURL, "https://x.supabase.co")
	t.Setenv(EnvSupabaseKey, "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendSupabase, cfg.Backend())
}

func TestLoad_ExplicitBackendWins(t *testing.T) {
	t.Setenv(EnvSupabaseURL, "https://x.supabase.co")
	t.Setenv(EnvSupabaseKey, "secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: sqlite\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{name: "bad port", env: map[string]string{EnvPort: "notaport"}},
		{name: "port out of range", yaml: "server:\n  port: 70000\n"},
		{name: "threshold out of range", env: map[string]string{EnvThreshold: "1.5"}},
		{name: "unknown backend", yaml: "store:\n  backend: dynamo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
