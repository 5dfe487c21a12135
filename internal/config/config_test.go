package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbuddy/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("TELEGRAM_TOKEN", "token-123")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REMINDER_INTERVAL_MINUTES", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "token-123", cfg.TelegramToken)
	assert.Equal(t, "taskbuddy.db", cfg.DatabaseURL)
	assert.Equal(t, 1, cfg.ReminderIntervalMin)
	assert.Equal(t, "1m0s", cfg.ReminderInterval().String())
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "telegram_token: from-file\ndatabase_url: file.db\nreminder_interval_minutes: 5\ndaily_agenda_time: \"08:00\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("TELEGRAM_TOKEN", "from-env")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REMINDER_INTERVAL_MINUTES", "")
	t.Setenv("DAILY_AGENDA_TIME", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TelegramToken)
	assert.Equal(t, "file.db", cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.ReminderIntervalMin)
	assert.Equal(t, "08:00", cfg.DailyAgendaTime)
}
