package config

import (
	"os"
	"strconv"
	"time"
)

// Config aggregates all runtime configuration, built once in main.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Auth     Auth
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Postgres holds the patient/user store connection settings. An empty URL
// selects the in-memory stores (dev and unit-test mode).
type Postgres struct {
	URL string
}

// Redis holds session store connection settings. An empty URL selects the
// in-memory session store.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Auth configures token issuance and session lifetime.
type Auth struct {
	JWTSigningKey  string
	Issuer         string
	Audience       string
	AccessTokenTTL time.Duration
	SessionTTL     time.Duration
}

// FromEnv builds the Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envOr("PRONTUARIO_ADDR", ":8080"),
			ShutdownTimeout: envDuration("PRONTUARIO_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: Postgres{
			URL: os.Getenv("PRONTUARIO_POSTGRES_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("PRONTUARIO_REDIS_URL"),
			PoolSize:     envInt("PRONTUARIO_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("PRONTUARIO_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("PRONTUARIO_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("PRONTUARIO_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("PRONTUARIO_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Auth: Auth{
			// Default for development - must be overridden in production.
			JWTSigningKey:  envOr("PRONTUARIO_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:         envOr("PRONTUARIO_JWT_ISSUER", "prontuario"),
			Audience:       envOr("PRONTUARIO_JWT_AUDIENCE", "prontuario-api"),
			AccessTokenTTL: envDuration("PRONTUARIO_ACCESS_TOKEN_TTL", 1*time.Hour),
			SessionTTL:     envDuration("PRONTUARIO_SESSION_TTL", 24*time.Hour),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
