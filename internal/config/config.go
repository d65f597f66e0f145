package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL  string
	QueryTimeout time.Duration

	// Redis cache, disabled when empty
	RedisURL string
	CacheTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Export requests allowed per client per minute
	ExportRateLimit int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Env:             getEnvOrDefault("ENV", "development"),
		DatabaseURL:     mustGetEnv("DATABASE_URL"),
		QueryTimeout:    getEnvAsDurationOrDefault("QUERY_TIMEOUT", 15*time.Second),
		RedisURL:        getEnvOrDefault("REDIS_URL", ""),
		CacheTTL:        getEnvAsDurationOrDefault("CACHE_TTL", 30*time.Second),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "json"),
		ExportRateLimit: getEnvAsIntOrDefault("EXPORT_RATE_LIMIT", 30),
	}

	return cfg
}

// Driver names the backend selected by DatabaseURL.
func (c *Config) Driver() string {
	return DriverFor(c.DatabaseURL)
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DriverFor maps a database URL to a backend. Anything that isn't a SQLite
// location is handed to pgx.
func DriverFor(url string) string {
	switch {
	case strings.HasPrefix(url, "sqlite://"),
		strings.HasPrefix(url, "file:"),
		strings.HasSuffix(url, ".db"),
		strings.HasSuffix(url, ".sqlite"):
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// SQLitePath strips the sqlite:// scheme from a database URL.
func SQLitePath(url string) string {
	return strings.TrimPrefix(url, "sqlite://")
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
