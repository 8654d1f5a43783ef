package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8181", cfg.Listen)
	assert.Equal(t, "jobcal", cfg.Database.Schema)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.Notifications.Enabled)
	weekStart, err := cfg.FirstDayOfWeek()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, weekStart)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	err := os.WriteFile(path, []byte(`
listen: ":9000"
weekstart: monday
db:
  host: db.internal
  name: calendar
notifications:
  schedule: "*/5 * * * *"
`), 0o600)
	require.NoError(t, err)
	t.Setenv("JOBCAL_DB_PASS", "secret")
	t.Setenv("JOBCAL_TIMEZONE", "UTC")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "calendar", cfg.Database.Name)
	assert.Equal(t, "secret", cfg.Database.Pass)
	assert.Equal(t, "*/5 * * * *", cfg.Notifications.Schedule)
	weekStart, err := cfg.FirstDayOfWeek()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, weekStart)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_RejectsInvalidWeekStart(t *testing.T) {
	t.Setenv("JOBCAL_WEEKSTART", "friday")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestLocation_Invalid(t *testing.T) {
	_, err := Application{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}
