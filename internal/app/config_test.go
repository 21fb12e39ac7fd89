package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ticketbot/internal/booking"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", `"123:abc"`)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, DriverJSON, cfg.Storage.Driver)
	assert.Equal(t, booking.DefaultPath, cfg.Storage.Path)
	assert.False(t, cfg.UsesDatabase())
	assert.Zero(t, cfg.SessionTTL())
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadInlineCoreAndBookingSections(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "9:file"
  admin_id: 77
storage:
  driver: JSON
  path: data/bookings.json
booking:
  airlines: ["Emirates", "  ", " Air India "]
  session_ttl_minutes: 30
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9:file", cfg.Telegram.Token)
	assert.EqualValues(t, 77, cfg.Telegram.AdminID)
	assert.Equal(t, "data/bookings.json", cfg.Storage.Path)
	assert.Equal(t, []string{"Emirates", "Air India"}, cfg.Booking.Airlines)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
}

func TestLoadEnvOverridesStorage(t *testing.T) {
	path := writeConfig(t, "telegram:\n  token: t\nstorage:\n  driver: json\n")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "tickets")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestLoadRejectsBadStorage(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "1:x")

	_, err := Load(writeConfig(t, "storage:\n  driver: redis\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")

	_, err = Load(writeConfig(t, "storage:\n  driver: postgres\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	_, err := Load(writeConfig(t, "storage:\n  driver: json\n"))
	require.Error(t, err)
}
