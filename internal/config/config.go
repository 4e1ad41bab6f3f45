package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port   string
	WebDir string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr     string // Empty disables Redis and uses the in-process cache
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTTTL    time.Duration

	SteamCurrency     string // Store country code passed as cc=
	SteamRequestDelay time.Duration
	TopSellerPages    int
	CollectInterval   time.Duration // Zero disables the background collector
	SkipInitialScrape bool

	CatalogCacheTTL time.Duration
	HistoryLookback time.Duration
}

func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		WebDir: getEnv("WEB_DIR", "web"),

		DBUser:     getEnv("DB_USER", "steam_user"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "steam_prices"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
		JWTTTL:    getEnvDuration("JWT_TTL", 7*24*time.Hour),

		SteamCurrency:     getEnv("STEAM_CURRENCY", "us"),
		SteamRequestDelay: getEnvDuration("STEAM_REQUEST_DELAY", 1500*time.Millisecond),
		TopSellerPages:    getEnvInt("TOP_SELLER_PAGES", 4),
		CollectInterval:   getEnvDuration("COLLECT_INTERVAL", 6*time.Hour),
		SkipInitialScrape: getEnv("SKIP_INITIAL_SCRAPE", "false") == "true",

		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		HistoryLookback: time.Duration(getEnvInt("HISTORY_LOOKBACK_DAYS", 90)) * 24 * time.Hour,
	}
}

// DatabaseURL builds the postgres connection string from the DB_* settings
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
