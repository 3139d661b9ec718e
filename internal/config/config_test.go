package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
storage:
  backend: postgres
  data_dir: /var/lib/cafe
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/cafe", cfg.Storage.DataDir)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
