package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds the core runtime configuration for a console instance.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "mcp-console"
	Env         string // e.g. "dev", "prod"
	GatewayURL  string // base URL of the MCP gateway, e.g. http://localhost:8080
	LogLevel    string // "debug", "info", etc.

	GoogleClientID string // delegated-identity client identifier

	// Persisted credential tier. "file" keeps credentials under the session
	// directory; "redis" shares them across console processes.
	SessionStore string
	SessionDir   string
	RedisAddr    string // e.g. localhost:6379
	RedisDB      int
	RedisPass    string
	SessionTTL   time.Duration // lifetime of the persisted credential tier

	MetricsPort int // 0 disables the metrics endpoint
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName:    GetEnv("SERVICE_NAME", "mcp-console"),
		Env:            GetEnv("ENV", "dev"),
		GatewayURL:     GetEnv("GATEWAY_URL", "http://localhost:8080"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		GoogleClientID: GetEnv("GOOGLE_CLIENT_ID", ""),
		SessionStore:   GetEnv("SESSION_STORE", "file"),
		SessionDir:     GetEnv("SESSION_DIR", ""),
		RedisAddr:      GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        GetEnvInt("REDIS_DB", 0),
		RedisPass:      GetEnv("REDIS_PASS", ""),
		SessionTTL:     GetEnvDuration("SESSION_TTL", 12*time.Hour),
		MetricsPort:    GetEnvInt("METRICS_PORT", 0),
	}
}
