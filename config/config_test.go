package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesoplan/finance-engine/config"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Planner.DefaultDays)
	assert.True(t, cfg.Planner.SweepEnabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.toml")
	contents := `
[server]
port = 3000

[database]
path = "/tmp/tracker-test.db"

[planner]
default_days = 90
sweep_enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/tmp/tracker-test.db", cfg.Database.Path)
	assert.Equal(t, 90, cfg.Planner.DefaultDays)
	assert.False(t, cfg.Planner.SweepEnabled)

	// Untouched sections keep their defaults.
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 60, cfg.Planner.SweepIntervalMinutes)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
