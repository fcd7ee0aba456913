// Package config loads and validates application configuration from
// environment variables, optionally backed by a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"]. Set CORS_ORIGINS to a
	// comma-separated list to override.
	CORSOrigins []string

	// StoreBackend picks the repository implementation: postgres (default),
	// redis or memory.
	StoreBackend string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// RedisURL is the Redis connection string. Required for redis.
	RedisURL string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// JWTIssuer is the iss claim of issued tokens. Defaults to "planit".
	JWTIssuer string

	// TokenTTL is how long a session token stays valid. Defaults to 24h.
	TokenTTL time.Duration

	// PublicBaseURL prefixes invite paths to form shareable links.
	// Defaults to "http://localhost:5173".
	PublicBaseURL string

	// KafkaBrokers enables domain event publishing when non-empty.
	KafkaBrokers []string

	// KafkaTopic is the topic domain events are written to. Defaults to "planit.events".
	KafkaTopic string

	// JoinRateLimit and JoinRateBurst throttle trip code lookups and joins
	// per client IP. Defaults to 1 request/second with a burst of 5.
	JoinRateLimit float64
	JoinRateBurst int

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from the environment, falling back to values in
// ./.env for variables the environment does not set.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit .env path. A missing file is not an error.
// Returns an error listing every required variable that is not set and every
// value that does not parse.
func LoadFrom(envFile string) (Config, error) {
	file, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: read %s: %w", envFile, err)
	}
	e := env{file: file}

	cfg := Config{
		Port:          e.get("PORT", "8080"),
		LogLevel:      e.get("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(e.get("CORS_ORIGINS", "http://localhost:5173")),
		StoreBackend:  strings.ToLower(e.get("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:   e.get("DATABASE_URL", ""),
		RedisURL:      e.get("REDIS_URL", ""),
		JWTSecret:     e.get("JWT_SECRET", ""),
		JWTIssuer:     e.get("JWT_ISSUER", "planit"),
		PublicBaseURL: strings.TrimRight(e.get("PUBLIC_BASE_URL", "http://localhost:5173"), "/"),
		KafkaBrokers:  splitCSV(e.get("KAFKA_BROKERS", "")),
		KafkaTopic:    e.get("KAFKA_TOPIC", "planit.events"),
		TokenTTL:      e.getDuration("TOKEN_TTL", 24*time.Hour),
		JoinRateLimit: e.getFloat("JOIN_RATE_LIMIT", 1),
		JoinRateBurst: e.getInt("JOIN_RATE_BURST", 5),
		MaxBodyBytes:  int64(e.getInt("MAX_BODY_BYTES", 1<<20)),
	}

	var missing []string
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			missing = append(missing, "REDIS_URL")
		}
	case BackendMemory:
	default:
		e.invalid = append(e.invalid, "STORE_BACKEND")
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(e.invalid) > 0 {
		problems = append(problems, "invalid environment variables: "+strings.Join(e.invalid, ", "))
	}
	if len(problems) > 0 {
		return Config{}, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

// env looks variables up in the process environment first and the .env
// file second, collecting the names of values that fail to parse.
type env struct {
	file    map[string]string
	invalid []string
}

// get returns the value named by key, or fallback if it is unset or empty.
func (e *env) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := e.file[key]; v != "" {
		return v
	}
	return fallback
}

func (e *env) getDuration(key string, fallback time.Duration) time.Duration {
	v := e.get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		e.invalid = append(e.invalid, key)
		return fallback
	}
	return d
}

func (e *env) getFloat(key string, fallback float64) float64 {
	v := e.get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		e.invalid = append(e.invalid, key)
		return fallback
	}
	return f
}

func (e *env) getInt(key string, fallback int) int {
	v := e.get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		e.invalid = append(e.invalid, key)
		return fallback
	}
	return n
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
