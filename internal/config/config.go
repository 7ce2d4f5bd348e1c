// Package config reads the INTAKE_* environment into a Config.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/persistence/middleware"
)

// Store kinds accepted by INTAKE_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds the runtime settings shared by the serve, run and mcp commands.
// Command-line flags override the values read here.
type Config struct {
	Addr string `env:"INTAKE_ADDR" envDefault:":8080"`

	Store      string        `env:"INTAKE_STORE" envDefault:"memory"`
	StoreDir   string        `env:"INTAKE_STORE_DIR" envDefault:".intake/sessions"`
	RedisAddr  string        `env:"INTAKE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass  string        `env:"INTAKE_REDIS_PASSWORD"`
	RedisDB    int           `env:"INTAKE_REDIS_DB" envDefault:"0"`
	SessionTTL time.Duration `env:"INTAKE_SESSION_TTL" envDefault:"72h"`

	// DBPath is the sqlite file for created projects. Empty keeps them in memory.
	DBPath string `env:"INTAKE_DB"`

	DetailsPolicy string `env:"INTAKE_DETAILS_POLICY" envDefault:"retain"`
	LenientPaths  bool   `env:"INTAKE_LENIENT_PATHS"`
	PricingPath   string `env:"INTAKE_PRICING"`
	Locale        string `env:"INTAKE_LOCALE" envDefault:"en"`

	// MaxInputSize bounds one line typed into the terminal wizard.
	MaxInputSize int `env:"INTAKE_MAX_INPUT_SIZE" envDefault:"4096"`

	LogLevel  string `env:"INTAKE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"INTAKE_LOG_FORMAT" envDefault:"text"`

	SubmitEvery   time.Duration `env:"INTAKE_SUBMIT_EVERY" envDefault:"2s"`
	SubmitBurst   int           `env:"INTAKE_SUBMIT_BURST" envDefault:"1"`
	SubmitTimeout time.Duration `env:"INTAKE_SUBMIT_TIMEOUT" envDefault:"2m"`

	// EncryptionKey is a base64 AES-256 key sealing persisted sessions.
	EncryptionKey  string   `env:"INTAKE_ENCRYPTION_KEY"`
	FallbackKeys   []string `env:"INTAKE_ENCRYPTION_FALLBACK_KEYS" envSeparator:","`
	MaskInspection bool     `env:"INTAKE_MASK_PII" envDefault:"true"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used together or at all.
func (c Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("INTAKE_STORE: unknown store %q", c.Store))
	}
	if !domain.DetailsPolicy(c.DetailsPolicy).Valid() {
		errs = append(errs, fmt.Errorf("INTAKE_DETAILS_POLICY: unknown policy %q", c.DetailsPolicy))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("INTAKE_LOG_LEVEL: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("INTAKE_LOG_FORMAT: must be text or json, got %q", c.LogFormat))
	}
	if c.SubmitBurst < 1 {
		errs = append(errs, errors.New("INTAKE_SUBMIT_BURST: must be at least 1"))
	}
	if c.EncryptionKey != "" {
		if _, err := c.Encryption(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() slog.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Encryption decodes the configured keys. It returns nil when encryption is off.
func (c Config) Encryption() (*middleware.EncryptionConfig, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	active, err := middleware.ParseKey(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("INTAKE_ENCRYPTION_KEY: %w", err)
	}
	cfg := &middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range c.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("INTAKE_ENCRYPTION_FALLBACK_KEYS[%d]: %w", i, err)
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return cfg, nil
}
