package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, 500*time.Millisecond, cfg.BroadcastDelay())
	assert.Equal(t, 500*time.Millisecond, cfg.BotDelay())
	assert.Equal(t, 5*time.Second, cfg.TeardownGrace())
	assert.Equal(t, time.Minute, cfg.RematchTimeout())
	assert.Equal(t, 30*time.Second, cfg.RematchSweepInterval())
	assert.Equal(t, time.Hour, cfg.SessionTTL())
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("BROADCAST_DELAY_MS", "250")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := LoadConfig()

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.BroadcastDelay())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, GetEnvAsInt("SOME_INT", 7))

	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, GetEnvAsInt("SOME_INT", 7))

	assert.Equal(t, 7, GetEnvAsInt("UNSET_INT", 7))
}
