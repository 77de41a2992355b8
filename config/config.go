/*
Package config loads service configuration from the environment.

PURPOSE:
  One flat Load() call, section structs per concern, and defaults that make
  a bare `go run ./cmd/server` work against an on-disk SQLite file with no
  Redis. Deployments override via environment variables (a .env file is
  honored when present; see cmd/server/main.go).

VARIABLES:
  SERVER_ADDR          listen address                (default ":8080")
  SERVER_CORS_ORIGINS  comma-separated CORS origins  (default "*")
  LOG_LEVEL            zap level: debug|info|warn    (default "info")
  LOG_ENCODING         "json" or "console"           (default "json")
  DB_DRIVER            "sqlite3" or "mysql"          (default "sqlite3")
  DB_DSN               driver DSN                    (default "analytics.db")
  REDIS_ADDR           host:port, empty disables caching
  REDIS_PASSWORD       optional
  REDIS_DB             numeric database index        (default 0)
  REPORT_CACHE_TTL     revenue report TTL in seconds (default 60)

  MySQL DSNs must include parseTime=true&loc=UTC so DATETIME columns scan
  into time.Time in UTC.
*/
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggerConfig configures zap.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// DatabaseConfig selects the SQL backend.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// RedisConfig configures the optional report cache. An empty Addr disables
// caching entirely.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	ReportTTL time.Duration
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8080"),
			AllowedOrigins:  splitCSV(getEnv("SERVER_CORS_ORIGINS", "*")),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite3"),
			DSN:    getEnv("DB_DSN", "analytics.db"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", ""),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			ReportTTL: time.Duration(getEnvInt("REPORT_CACHE_TTL", 60)) * time.Second,
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
