package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TOKEN", "TELEGRAM_BOT_TOKEN", "ANRE_BASE_URL", "CRON_DAILY", "TZ_NAME",
		"RUN_ON_START", "STORAGE_BACKEND", "REMINDERS_FILE", "SESSIONS_FILE",
		"REDIS_ADDR", "REDIS_PASSWORD", "HTTP_ADDR", "HTTPS_PROXY", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://anre.md", cfg.DataSource.BaseURL)
	assert.Equal(t, "0 0 12 * * *", cfg.Schedule.DailyCron)
	assert.Equal(t, "Europe/Chisinau", cfg.Schedule.Timezone)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "scheduled_chats.txt", cfg.Storage.RemindersFile)
	assert.Equal(t, "sessions.txt", cfg.Storage.SessionsFile)
	assert.Equal(t, 15*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 8, cfg.Delivery.Workers)
	assert.Empty(t, cfg.HTTP.Addr)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot_token")
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
telegram:
  bot_token: from-file
data_source:
  timeout: 5s
schedule:
  daily_cron: "0 30 9 * * *"
delivery:
  workers: 2
http:
  addr: ":8080"
contact:
  name: Dev
`), 0o644))

	t.Setenv("TOKEN", "from-env")
	t.Setenv("RUN_ON_START", "true")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, 5*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "0 30 9 * * *", cfg.Schedule.DailyCron)
	assert.True(t, cfg.Schedule.RunOnStart)
	assert.Equal(t, 2, cfg.Delivery.Workers)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "Dev", cfg.Contact.Name)
}

func TestLoad_LegacyTokenVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "legacy")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Telegram.BotToken)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("telegram: [unclosed"), 0o644))
	_, err := Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	t.Setenv("RUN_ON_START", "maybe")
	_, err = Load(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUN_ON_START")
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		clearEnv(t)
		t.Setenv("TOKEN", "x")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"five-field cron", func(c *Config) { c.Schedule.DailyCron = "0 12 * * *" }, "daily_cron"},
		{"bad timezone", func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }, "timezone"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }, "storage.backend"},
		{"redis without addr", func(c *Config) { c.Storage.Backend = BackendRedis }, "redis.addr"},
		{"redis with addr", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.Redis.Addr = "localhost:6379"
		}, ""},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
