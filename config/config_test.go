package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pain001.yaml")
	content := `
schema_dir: /srv/schemas
registry_dsn: /var/lib/pain001/registry.db
enable_reference_diff: true
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/schemas", cfg.SchemaDir)
	assert.Equal(t, "/var/lib/pain001/registry.db", cfg.RegistryDSN)
	assert.True(t, cfg.EnableReferenceDiff)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Unset fields fall back to defaults.
	assert.Equal(t, Default().TemplateDir, cfg.TemplateDir)
	assert.Equal(t, Default().ReportsDir, cfg.ReportsDir)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pain001.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema_dir: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "verbose"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{}.SlogLevel())
}
