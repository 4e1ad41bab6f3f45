package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_HOST", "REDIS_ADDR", "JWT_TTL", "HISTORY_LOOKBACK_DAYS", "SKIP_INITIAL_SCRAPE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 90*24*time.Hour, cfg.HistoryLookback)
	assert.False(t, cfg.SkipInitialScrape)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("COLLECT_INTERVAL", "30m")
	t.Setenv("SKIP_INITIAL_SCRAPE", "true")
	t.Setenv("HISTORY_LOOKBACK_DAYS", "30")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.CollectInterval)
	assert.True(t, cfg.SkipInitialScrape)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryLookback)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("JWT_TTL", "forever")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "steam"}

	assert.Equal(t, "postgres://u:p@db:5432/steam", cfg.DatabaseURL())
}
