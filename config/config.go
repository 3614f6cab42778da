package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	aws_pkg "github.com/leanttro/leanttrotech/pkg/aws"
	"go.uber.org/zap"
)

// Config holds the loaded configuration
type Config struct {
	Env      string `validate:"oneof=development production test"`
	Port     string `validate:"required,numeric"`
	BasePath string `validate:"omitempty,startswith=/"`

	DirectusURL      string        `validate:"required,url"`
	DirectusToken    string
	StoreID          string
	PlaceholderImage string        `validate:"required"`
	CMSTimeout       time.Duration `validate:"gte=0"`

	TemplatesGlob string `validate:"required"`

	RedisURL            string        `validate:"omitempty,url"`
	SessionCookie       string        `validate:"required"`
	SessionCookieSecure bool
	SessionTTL          time.Duration `validate:"gte=0"`
	LoginRatePerMinute  int           `validate:"gte=0"`
	MaxUploadBytes      int64         `validate:"gt=0"`

	AWSUseSecrets       bool
	DirectusTokenSecret string
}

var validate = validator.New()

// Load reads .env (if present) and the environment into a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "5000"),
		BasePath:            strings.TrimRight(getEnv("BASE_PATH", "/tecnologia"), "/"),
		DirectusURL:         strings.TrimRight(getEnv("DIRECTUS_URL", "https://api2.leanttro.com"), "/"),
		DirectusToken:       os.Getenv("DIRECTUS_TOKEN"),
		StoreID:             os.Getenv("LOJA_ID"),
		PlaceholderImage:    getEnv("PLACEHOLDER_IMAGE_URL", "https://placehold.co/600x600?text=Produto"),
		TemplatesGlob:       getEnv("TEMPLATES_GLOB", "templates/*.html"),
		RedisURL:            os.Getenv("REDIS_URL"),
		SessionCookie:       getEnv("SESSION_COOKIE", "loja_session"),
		DirectusTokenSecret: getEnv("DIRECTUS_TOKEN_SECRET", "storefront/DIRECTUS_TOKEN"),
	}

	var err error
	if cfg.CMSTimeout, err = getDuration("CMS_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.SessionCookieSecure, err = getBool("SESSION_COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.AWSUseSecrets, err = getBool("AWS_USE_SECRETS", false); err != nil {
		return nil, err
	}
	if cfg.LoginRatePerMinute, err = getInt("LOGIN_RATE_PER_MINUTE", 0); err != nil {
		return nil, err
	}
	maxUpload, err := getInt("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if cfg.AWSUseSecrets {
		applySecrets(context.Background(), cfg)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.StoreID == "" {
		zap.L().Warn("LOJA_ID is not set; pages will render default store data")
	}

	return cfg, nil
}

// secretLookup resolves a secret reference such as "name" or "name#key".
type secretLookup interface {
	Lookup(ctx context.Context, ref string) (string, error)
}

var newSecretLookup = func(ctx context.Context) (secretLookup, error) {
	awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return aws_pkg.NewSecretReader(awsCfg), nil
}

// applySecrets replaces the CMS token with the one kept in Secrets Manager.
// Any failure keeps DIRECTUS_TOKEN from the environment.
func applySecrets(ctx context.Context, cfg *Config) {
	secrets, err := newSecretLookup(ctx)
	if err != nil {
		zap.L().Warn("AWS config unavailable, secrets not loaded", zap.Error(err))
		return
	}
	tok, err := secrets.Lookup(ctx, cfg.DirectusTokenSecret)
	if err != nil {
		zap.L().Warn("Falling back to DIRECTUS_TOKEN from environment", zap.Error(err))
		return
	}
	if tok != "" {
		cfg.DirectusToken = tok
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Helper to get an environment variable or return a default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
