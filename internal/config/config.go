package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	AllowedOrigins []string

	// Presentation delay between moveAnimation and the authoritative
	// gameUpdate, and pacing for bot replies.
	BroadcastDelayMS int
	BotDelayMS       int

	// Grace delay before an abandoned session is deleted.
	TeardownGraceSec int

	// Pending-rematch expiry.
	RematchTimeoutSec       int
	RematchSweepIntervalSec int

	// Stale-session expiry, keyed off session creation time.
	SessionTTLMin           int
	SessionSweepIntervalMin int
}

func LoadConfig() *Config {
	allowedOrigins := []string{}
	if raw := GetEnv("ALLOWED_ORIGINS", ""); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	return &Config{
		Port:                    GetEnv("PORT", "8080"),
		AllowedOrigins:          allowedOrigins,
		BroadcastDelayMS:        GetEnvAsInt("BROADCAST_DELAY_MS", 500),
		BotDelayMS:              GetEnvAsInt("BOT_DELAY_MS", 500),
		TeardownGraceSec:        GetEnvAsInt("TEARDOWN_GRACE_SECONDS", 5),
		RematchTimeoutSec:       GetEnvAsInt("REMATCH_TIMEOUT_SECONDS", 60),
		RematchSweepIntervalSec: GetEnvAsInt("REMATCH_SWEEP_INTERVAL_SECONDS", 30),
		SessionTTLMin:           GetEnvAsInt("SESSION_TTL_MINUTES", 60),
		SessionSweepIntervalMin: GetEnvAsInt("SESSION_SWEEP_INTERVAL_MINUTES", 5),
	}
}

func (c *Config) BroadcastDelay() time.Duration {
	return time.Duration(c.BroadcastDelayMS) * time.Millisecond
}

func (c *Config) BotDelay() time.Duration {
	return time.Duration(c.BotDelayMS) * time.Millisecond
}

func (c *Config) TeardownGrace() time.Duration {
	return time.Duration(c.TeardownGraceSec) * time.Second
}

func (c *Config) RematchTimeout() time.Duration {
	return time.Duration(c.RematchTimeoutSec) * time.Second
}

func (c *Config) RematchSweepInterval() time.Duration {
	return time.Duration(c.RematchSweepIntervalSec) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}

func (c *Config) SessionSweepInterval() time.Duration {
	return time.Duration(c.SessionSweepIntervalMin) * time.Minute
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
