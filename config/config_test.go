package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/rolebot_test")
	t.Setenv("DB_SCHEMA", "rolebot_test")
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads_with_discord_configured", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("DISCORD_BOT_TOKEN", "test-token")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.DiscordConfig.IsConfigured())
		assert.Equal(t, "8080", cfg.Port)
	})

	t.Run("missing_token_allowed_when_not_strict", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("DISCORD_BOT_TOKEN", "")
		t.Setenv("USE_STRICT_CONFIG", "false")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.False(t, cfg.DiscordConfig.IsConfigured())
	})

	t.Run("missing_token_rejected_when_strict", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("DISCORD_BOT_TOKEN", "")
		t.Setenv("USE_STRICT_CONFIG", "true")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("missing_database_url_rejected", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		t.Setenv("DB_SCHEMA", "rolebot_test")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("invalid_engine_tuning_rejected", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("DISCORD_BOT_TOKEN", "test-token")
		t.Setenv("RECONCILE_MAX_RETRIES", "lots")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
