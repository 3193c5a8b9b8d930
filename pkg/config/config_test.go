package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRESENCE_DAILY_CAP_MINUTES", "")
	t.Setenv("PRESENCE_MAX_RANGE_DAYS", "")
	t.Setenv("PRESENCE_DEFAULT_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 480, cfg.Presence.DailyCapMinutes)
	assert.Equal(t, 30, cfg.Presence.MaxRangeDays)
	assert.Equal(t, "America/Los_Angeles", cfg.Presence.DefaultTimezone)
	assert.Equal(t, time.Minute, cfg.Registry.TTL)
	assert.Equal(t, "@every 1m", cfg.Worker.PresenceSnapshotCron)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRESENCE_DAILY_CAP_MINUTES", "600")
	t.Setenv("PRESENCE_MAX_RANGE_DAYS", "14")
	t.Setenv("PRESENCE_DEFAULT_TIMEZONE", "Europe/Berlin")
	t.Setenv("REGISTRY_CACHE_TTL", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Presence.DailyCapMinutes)
	assert.Equal(t, 14, cfg.Presence.MaxRangeDays)
	assert.Equal(t, "Europe/Berlin", cfg.Presence.DefaultTimezone)
	assert.Equal(t, 5*time.Second, cfg.Registry.TTL)
}

func TestValidateRejectsBadPresenceSettings(t *testing.T) {
	base := Config{Presence: PresenceConfig{DailyCapMinutes: 480, MaxRangeDays: 30, DefaultTimezone: "UTC"}}
	require.NoError(t, base.Validate())

	cfg := base
	cfg.Presence.DailyCapMinutes = 0
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.Presence.MaxRangeDays = -1
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.Presence.DefaultTimezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}
