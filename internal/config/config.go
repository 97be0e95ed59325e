// Package config provides centralized configuration management for the grid
// server. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Grid     GridConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. When empty, rows come from the
	// generated mock source and preferences are kept in memory.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" default:"4"`

	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// SourceTable is the table rows are loaded from (default: users)
	SourceTable string `env:"DB_SOURCE_TABLE" default:"users"`

	// PreferencesTable holds saved grid preferences (default: grid_preferences)
	PreferencesTable string `env:"DB_PREFERENCES_TABLE" default:"grid_preferences"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool { return c.URL != "" }

// GridConfig holds grid engine settings.
type GridConfig struct {
	// DefaultPageSize is the page size of a new session (default: 25)
	DefaultPageSize int `env:"GRID_DEFAULT_PAGE_SIZE" default:"25"`

	// LoadLimit caps how many rows a load pulls into memory (default: 1000)
	LoadLimit int `env:"GRID_LOAD_LIMIT" default:"1000"`

	// MockRows is how many users the mock source generates (default: 1000)
	MockRows int `env:"GRID_MOCK_ROWS" default:"1000"`

	// MockSeed seeds the mock generator (default: 42)
	MockSeed int64 `env:"GRID_MOCK_SEED" default:"42"`

	// MockLatency delays each mock fetch (default: 0)
	MockLatency time.Duration `env:"GRID_MOCK_LATENCY" default:"0s"`

	// PreferencesKey is the default key preferences are saved under
	PreferencesKey string `env:"GRID_PREFERENCES_KEY" default:"dataGridPreferences"`

	// RestoreLayout re-applies saved visibility and pinning on session start.
	// When false only density and page size are restored (default: true)
	RestoreLayout bool `env:"GRID_RESTORE_LAYOUT" default:"true"`
}

// SessionConfig holds grid session lifecycle settings.
type SessionConfig struct {
	// IdleTTL is how long an untouched session lives (default: 30m)
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL" default:"30m"`

	// ReapInterval is how often idle sessions are evicted (default: 1m)
	ReapInterval time.Duration `env:"SESSION_REAP_INTERVAL" default:"1m"`

	// MaxConcurrentLoads is the maximum number of parallel loads (default: 5)
	MaxConcurrentLoads int `env:"SESSION_MAX_CONCURRENT_LOADS" default:"5"`

	// LoadWaitTime is how long to wait for a load slot (default: 10s)
	LoadWaitTime time.Duration `env:"SESSION_LOAD_WAIT_TIME" default:"10s"`

	// LoadTimeout bounds a single fetch (default: 30s)
	LoadTimeout time.Duration `env:"SESSION_LOAD_TIMEOUT" default:"30s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// LoadLimit is requests per minute for session create and reload (default: 30)
	LoadLimit int `env:"RATE_LIMIT_LOAD" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api routes with an API key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
