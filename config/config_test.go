package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, 30*time.Second, cfg.SpawnPollInterval)
	assert.Equal(t, 24*time.Hour, cfg.StealCooldown)
	assert.Equal(t, "127.0.0.1:8080", cfg.AdminAddr)
	assert.False(t, cfg.AdminEnabled())
}

func TestLoad_ParsesValues(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/reiatsu")
	t.Setenv("OWNER_IDS", "1, 2,3")
	t.Setenv("STEAL_COOLDOWN", "19h")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg, err := load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.AdminEnabled())
	assert.Equal(t, 19*time.Hour, cfg.StealCooldown)
	assert.True(t, cfg.IsOwner(2))
	assert.False(t, cfg.IsOwner(4))
}

func TestValidate(t *testing.T) {
	t.Run("token required outside test", func(t *testing.T) {
		cfg := NewTestConfig()
		cfg.Environment = "development"
		assert.ErrorContains(t, cfg.Validate(), "DISCORD_TOKEN")
	})

	t.Run("database url required", func(t *testing.T) {
		cfg := NewTestConfig()
		cfg.Environment = "development"
		cfg.DiscordToken = "token"
		cfg.DatabaseURL = ""
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("unknown exporter", func(t *testing.T) {
		cfg := NewTestConfig()
		cfg.Environment = "development"
		cfg.DiscordToken = "token"
		cfg.OtelExporter = "zipkin"
		assert.ErrorContains(t, cfg.Validate(), "OTEL_EXPORTER")
	})

	t.Run("test environment skips checks", func(t *testing.T) {
		assert.NoError(t, NewTestConfig().Validate())
	})
}

func TestSetTestConfig(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfg := NewTestConfig()
	cfg.CommandPrefix = "?"
	SetTestConfig(cfg)

	assert.Same(t, cfg, Get())
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := NewTestConfig()
	cfg.DatabaseURL = "postgres://u:p@db:5432"
	cfg.DatabaseName = "reiatsu"
	assert.Equal(t, "postgres://u:p@db:5432/reiatsu?sslmode=disable", cfg.GetDatabaseURL())

	cfg.DatabaseName = ""
	assert.Equal(t, "postgres://u:p@db:5432", cfg.GetDatabaseURL())
}
