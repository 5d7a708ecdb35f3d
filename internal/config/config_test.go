package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "test-token"
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Telegram.Token)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, ":8081", cfg.API.Addr)

	// Действующие бизнес-правила по умолчанию
	assert.Equal(t, "Asia/Yekaterinburg", cfg.Business.Timezone)
	assert.Equal(t, 3000, cfg.Business.FreeDeliveryThreshold)
	assert.Equal(t, 300, cfg.Business.DeliveryCost)
	assert.Equal(t, 5, cfg.Business.BonusPercent)
	assert.Equal(t, 3000, cfg.Business.BonusThreshold)
	assert.Equal(t, 50, cfg.Business.MaxBonusPaymentPercent)
	assert.Equal(t, 500, cfg.Business.SignupReferralBonus)

	assert.True(t, cfg.Feedback.Enabled)
	assert.Equal(t, 1, cfg.Feedback.DelayDays)
	assert.Equal(t, 30, cfg.Reminders.AdminNudgeMinutes)
}

func TestNewConfigFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "test-token"
  admin_id: 42
business:
  timezone: "Europe/Moscow"
  delivery_cost: 450
  review_links:
    Яндекс: "https://example.com/reviews"
database:
  host: "db.internal"
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Telegram.AdminID)
	assert.Equal(t, "Europe/Moscow", cfg.Business.Timezone)
	assert.Equal(t, 450, cfg.Business.DeliveryCost)
	assert.Equal(t, "https://example.com/reviews", cfg.Business.ReviewLinks["Яндекс"])
	assert.Equal(t, "db.internal", cfg.Database.Host)

	// Незатронутые значения остаются по умолчанию
	assert.Equal(t, 3000, cfg.Business.FreeDeliveryThreshold)
}

func TestNewConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "file-token"
database:
  password: "file-password"
`)

	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("DB_PASSWORD", "env-password")

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, "env-password", cfg.Database.Password)
}

func TestNewConfigRequiresToken(t *testing.T) {
	path := writeConfig(t, `
log:
  level: "debug"
`)

	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := NewConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram token")
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
