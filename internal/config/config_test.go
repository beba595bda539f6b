package config

import (
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBaseEnv sets the required variables and clears the optional ones
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("ALLOWED_USER_IDS", "1, 2")
	for _, key := range []string{
		"WEBHOOK_MODE", "WEBHOOK_URL", "PORT", "STORAGE_BACKEND", "USE_MOCK_DB",
		"CLICKHOUSE_HOST", "CLICKHOUSE_PORT", "CLICKHOUSE_DATABASE", "CLICKHOUSE_USER",
		"CLICKHOUSE_PASSWORD", "CLICKHOUSE_USE_TLS", "SQLITE_PATH", "PEBBLE_DIR",
		"TIMEZONE", "REMINDER_ENABLED", "REMINDER_TIME", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_ClickHouseDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CLICKHOUSE_HOST", "ch.local")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, cfg.AllowedUserIDs)
	assert.Equal(t, BackendClickHouse, cfg.StorageBackend)
	assert.Equal(t, 9000, cfg.ClickHousePort)
	assert.Equal(t, "default", cfg.ClickHouseDatabase)
	assert.Equal(t, "default", cfg.ClickHouseUser)
	assert.False(t, cfg.ClickHouseUseTLS)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Local, cfg.Location)
	assert.False(t, cfg.ReminderEnabled)
	assert.Equal(t, "20:00", cfg.ReminderTime)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv_RequiredValues(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing token", env: map[string]string{"TELEGRAM_BOT_TOKEN": ""}},
		{name: "missing users", env: map[string]string{"ALLOWED_USER_IDS": ""}},
		{name: "bad user id", env: map[string]string{"ALLOWED_USER_IDS": "1,abc"}},
		{name: "webhook without url", env: map[string]string{"WEBHOOK_MODE": "true"}},
		{name: "clickhouse without host", env: map[string]string{"STORAGE_BACKEND": "clickhouse"}},
		{name: "bad clickhouse port", env: map[string]string{"CLICKHOUSE_HOST": "h", "CLICKHOUSE_PORT": "nine"}},
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "redis"}},
		{name: "bad timezone", env: map[string]string{"USE_MOCK_DB": "true", "TIMEZONE": "Mars/Olympus"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv_MockDBOverridesBackend(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_BACKEND", "clickhouse")
	t.Setenv("USE_MOCK_DB", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Empty(t, cfg.ClickHouseHost)
}

func TestLoadFromEnv_LocalBackends(t *testing.T) {
	setBaseEnv(t)
	dir := t.TempDir()

	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "q.db"))
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, filepath.Join(dir, "q.db"), cfg.SQLitePath)

	t.Setenv("STORAGE_BACKEND", "pebble")
	t.Setenv("PEBBLE_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	cfg, err = LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "pebble", filepath.Base(cfg.PebbleDir))
	assert.Equal(t, "questory", filepath.Base(filepath.Dir(cfg.PebbleDir)))
}

func TestLoadFromEnv_OptionalSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("USE_MOCK_DB", "true")
	t.Setenv("WEBHOOK_MODE", "true")
	t.Setenv("WEBHOOK_URL", "https://bot.example.com/")
	t.Setenv("PORT", "9090")
	t.Setenv("TIMEZONE", "Europe/Kyiv")
	t.Setenv("REMINDER_ENABLED", "true")
	t.Setenv("REMINDER_TIME", "21:30")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://bot.example.com", cfg.WebhookURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Europe/Kyiv", cfg.Location.String())
	assert.True(t, cfg.ReminderEnabled)
	assert.Equal(t, "21:30", cfg.ReminderTime)
	assert.Equal(t, "debug", cfg.LogLevel)
}
