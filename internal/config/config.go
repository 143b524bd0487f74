package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string
	DBAutoMigrate      bool

	JWTSecret    string
	JWTIssuer    string
	JWTAudience  string
	JWTClockSkew time.Duration

	CartTTL             time.Duration
	CatalogCacheTTL     time.Duration
	CatalogDefaultLimit int
	CatalogMaxLimit     int
	IdempotencyTTL      time.Duration
	CheckoutLockTTL     time.Duration
	LockRetryBackoff    time.Duration
	BookingAutoConfirm  bool
	AdminOverviewTTL    time.Duration

	RateLimitBackend string
	RateLimitWindow  time.Duration
	RateLimitMax     int
	BodyLimitBytes   int64
	SecureHeaders    bool
	AuditEnabled     bool

	EventsAMQPURL      string
	EventsAMQPExchange string
	WorkerConcurrency  int
	NotifyEmailEnabled bool
	NotifyEmailFrom    string
}

// Rate limiter backends.
const (
	RateLimitSliding = "sliding"
	RateLimitFixed   = "fixed"
)

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		DBAutoMigrate:      parseBoolDefault(k.String("DB_AUTO_MIGRATE"), false),

		JWTSecret:    k.String("AUTH_JWT_SECRET"),
		JWTIssuer:    strings.TrimSpace(k.String("AUTH_JWT_ISSUER")),
		JWTAudience:  strings.TrimSpace(k.String("AUTH_JWT_AUDIENCE")),
		JWTClockSkew: parseDuration(k.String("AUTH_CLOCK_SKEW"), "30s"),

		CartTTL:             parseDuration(k.String("CART_TTL"), "720h"),
		CatalogCacheTTL:     parseDuration(k.String("CATALOG_CACHE_TTL"), "60s"),
		CatalogDefaultLimit: parseInt(k.String("CATALOG_DEFAULT_LIMIT"), 20),
		CatalogMaxLimit:     parseInt(k.String("CATALOG_MAX_LIMIT"), 100),
		IdempotencyTTL:      parseDuration(k.String("IDEMPOTENCY_TTL"), "10m"),
		CheckoutLockTTL:     parseDuration(k.String("CHECKOUT_LOCK_TTL"), "15s"),
		LockRetryBackoff:    parseDuration(k.String("LOCK_RETRY_BACKOFF"), "50ms"),
		BookingAutoConfirm:  parseBoolDefault(k.String("BOOKING_AUTO_CONFIRM"), true),
		AdminOverviewTTL:    parseDuration(k.String("ADMIN_OVERVIEW_TTL"), "30s"),

		RateLimitBackend: strings.ToLower(valueOrDefault(k.String("RATE_LIMIT_BACKEND"), RateLimitSliding)),
		RateLimitWindow:  parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:     parseInt(k.String("RATE_LIMIT_MAX"), 10),
		BodyLimitBytes:   int64(parseInt(k.String("BODY_LIMIT_BYTES"), 1<<20)),
		SecureHeaders:    parseBoolDefault(k.String("SECURE_HEADERS_ENABLE"), true),
		AuditEnabled:     parseBoolDefault(k.String("AUDIT_ENABLED"), true),

		EventsAMQPURL:      strings.TrimSpace(k.String("EVENTS_AMQP_URL")),
		EventsAMQPExchange: valueOrDefault(k.String("EVENTS_AMQP_EXCHANGE"), "storefront.events"),
		WorkerConcurrency:  parseInt(k.String("WORKER_CONCURRENCY"), 5),
		NotifyEmailEnabled: parseBoolDefault(k.String("NOTIFY_EMAIL_ENABLED"), false),
		NotifyEmailFrom:    valueOrDefault(k.String("NOTIFY_EMAIL_FROM"), "no-reply@storefront.local"),
	}

	if cfg.CatalogMaxLimit < cfg.CatalogDefaultLimit {
		cfg.CatalogMaxLimit = cfg.CatalogDefaultLimit
	}
	switch cfg.RateLimitBackend {
	case RateLimitSliding, RateLimitFixed:
	default:
		return nil, fmt.Errorf("RATE_LIMIT_BACKEND must be %q or %q", RateLimitSliding, RateLimitFixed)
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
