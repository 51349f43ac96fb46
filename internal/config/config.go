package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"gallopmart/internal/pkg/validator"
)

const (
	defaultHTTPAddr      = ":8080"
	defaultDatabaseURL   = "gallopmart.db"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "24h"
	defaultLogLevel      = "info"
	defaultLogFormat     = "json"
	defaultPaymentSecret = "change-me-payment-secret"
	defaultScheduler     = "true"
)

type Config struct {
	AppEnv           string        `validate:"required"`
	HTTPAddr         string        `validate:"required"`
	DatabaseURL      string        `validate:"required"`
	JWTSecret        string        `validate:"required"`
	JWTTTL           time.Duration `validate:"gt=0"`
	LogLevel         string        `validate:"required,oneof=trace debug info warn error fatal panic disabled"`
	LogFormat        string        `validate:"required,oneof=json console"`
	PaymentKeyID     string
	PaymentKeySecret string `validate:"required"`
	SchedulerEnabled bool
	CORSOrigins      []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))
	cfg.PaymentKeyID = strings.TrimSpace(os.Getenv("PAYMENT_KEY_ID"))
	cfg.PaymentKeySecret = strings.TrimSpace(getEnv("PAYMENT_KEY_SECRET", defaultPaymentSecret))
	cfg.SchedulerEnabled = parseBoolEnv("SCHEDULER_ENABLED", defaultScheduler)
	cfg.CORSOrigins = parseListEnv("CORS_ALLOWED_ORIGINS")

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if err := validator.Check(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.PaymentKeySecret, defaultPaymentSecret) {
			return fmt.Errorf("in prod/release PAYMENT_KEY_SECRET must be set and not default")
		}
		if cfg.PaymentKeyID == "" {
			return fmt.Errorf("in prod/release PAYMENT_KEY_ID must be set")
		}
	}

	return nil
}

func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

// parseListEnv splits a comma separated variable, e.g.
// CORS_ALLOWED_ORIGINS=https://gallopmart.in,https://admin.gallopmart.in
func parseListEnv(name string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
