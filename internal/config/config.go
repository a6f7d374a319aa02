// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// minJWTSecretLen is the shortest HS256 secret accepted outside development.
const minJWTSecretLen = 32

// devJWTSecret is only used when APP_ENV=development and JWT_SECRET is unset.
const devJWTSecret = "development-only-secret-do-not-use-in-production"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host        string
	Port        string
	Env         string // "development", "production", "testing"
	CORSOrigins []string

	// PostgreSQL connection. DatabaseURL, when set, wins over the parts.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Row store retry policy for transient database errors
	DBRetryAttempts  int
	DBRetryBaseDelay time.Duration

	// Auth
	JWTSecret            string
	TokenTTL             time.Duration
	AllowInitialRegister bool

	// Credential endpoint throttling
	AuthAttemptsPerClient  int
	AuthAttemptsPerAccount int
	AuthAttemptWindow      time.Duration

	// Valkey (Redis-compatible cache). An empty host disables it.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
	ValkeyTimeout  time.Duration

	// S3-compatible storage for export artifacts (optional)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or malformed.
func Load() (*Config, error) {
	cfg := &Config{
		Host:        envOrDefault("APP_HOST", "0.0.0.0"),
		Port:        envOrDefault("APP_PORT", "8080"),
		Env:         envOrDefault("APP_ENV", "development"),
		CORSOrigins: splitList(envOrDefault("CORS_ORIGINS", "*")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:      envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:      envOrDefault("POSTGRES_USER", "contentadmin"),
		DBPassword:  envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:      envOrDefault("POSTGRES_DB", "contentadmin"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	var err error
	if cfg.DBRetryAttempts, err = envInt("DB_RETRY_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.DBRetryAttempts < 1 {
		return nil, fmt.Errorf("DB_RETRY_ATTEMPTS must be at least 1")
	}
	if cfg.DBRetryBaseDelay, err = envDuration("DB_RETRY_BASE_DELAY", 200*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = envDuration("TOKEN_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AllowInitialRegister, err = envBool("ALLOW_INITIAL_REGISTER", false); err != nil {
		return nil, err
	}
	if cfg.AuthAttemptsPerClient, err = envInt("AUTH_ATTEMPTS_PER_CLIENT", 30); err != nil {
		return nil, err
	}
	if cfg.AuthAttemptsPerAccount, err = envInt("AUTH_ATTEMPTS_PER_ACCOUNT", 5); err != nil {
		return nil, err
	}
	if cfg.AuthAttemptsPerClient < 1 || cfg.AuthAttemptsPerAccount < 1 {
		return nil, fmt.Errorf("AUTH_ATTEMPTS_PER_CLIENT and AUTH_ATTEMPTS_PER_ACCOUNT must be at least 1")
	}
	if cfg.AuthAttemptWindow, err = envDuration("AUTH_ATTEMPT_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ValkeyDB, err = envInt("VALKEY_DB", 0); err != nil {
		return nil, err
	}
	if cfg.ValkeyDB < 0 {
		return nil, fmt.Errorf("VALKEY_DB must not be negative")
	}
	if cfg.ValkeyTimeout, err = envDuration("VALKEY_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return nil, fmt.Errorf("JWT_SECRET must be set outside development")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if !cfg.IsDev() && len(cfg.JWTSecret) < minJWTSecretLen {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLen)
	}

	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%s", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether a Valkey host is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
