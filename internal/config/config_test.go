package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, 8, cfg.HydrationDailyTarget)
	assert.Equal(t, ChannelLog, cfg.NotifyChannel)
	assert.Equal(t, DedupLifetime, cfg.NotifyDedupScope)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", " Redis ")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("HYDRATION_DAILY_TARGET", "10")
	t.Setenv("NOTIFY_DEDUP_SCOPE", "daily")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StorageRedis, cfg.StorageBackend)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr)
	assert.Equal(t, 10, cfg.HydrationDailyTarget)
	assert.Equal(t, DedupDaily, cfg.NotifyDedupScope)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HYDRATION_DAILY_TARGET=12\nAPP_ENV=production\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("HYDRATION_DAILY_TARGET")
		os.Unsetenv("APP_ENV")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.HydrationDailyTarget)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StorageBackend:          StoragePostgres,
			DBMaxConns:              10,
			DBMinConns:              1,
			HydrationDailyTarget:    8,
			NotifyChannel:           ChannelLog,
			NotifyDedupScope:        DedupLifetime,
			StreakReminderThreshold: 3,
			RateLimitRequests:       10,
			RateLimitWindow:         time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.StorageBackend = "mongo" }, true},
		{"pool bounds", func(c *Config) { c.DBMinConns = 20 }, true},
		{"zero target", func(c *Config) { c.HydrationDailyTarget = 0 }, true},
		{"telegram without token", func(c *Config) { c.NotifyChannel = ChannelTelegram }, true},
		{"telegram configured", func(c *Config) {
			c.NotifyChannel = ChannelTelegram
			c.TelegramBotToken = "123:abc"
			c.TelegramChatID = 42
		}, false},
		{"sns without topic", func(c *Config) { c.NotifyChannel = ChannelSNS }, true},
		{"ses without sender", func(c *Config) { c.NotifyChannel = ChannelSES }, true},
		{"bad dedup scope", func(c *Config) { c.NotifyDedupScope = "weekly" }, true},
		{"redis without addr", func(c *Config) { c.StorageBackend = StorageRedis }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: 5432, DBName: "n", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", c.DatabaseDSN())
}
