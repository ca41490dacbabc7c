package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        int    `env:"PORT" envDefault:"8000"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Logging and error reporting
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	Env       string `env:"APP_ENV" envDefault:"dev"`
	SentryDSN string `env:"SENTRY_DSN"`
	Release   string `env:"RELEASE"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Token signing (prefer env)
	JWTSecret       string        `env:"JWT_SECRET"`
	JWTIssuer       string        `env:"JWT_ISSUER" envDefault:"dcon-scoreboard"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`

	// Schedule seeding
	EventTimezone  string `env:"EVENT_TIMEZONE" envDefault:"Africa/Cairo"`
	EventStartDate string `env:"EVENT_START_DATE" envDefault:"2026-02-10"`
	SeedSchedule   bool
	SeedClear      bool

	// First superuser, created only when the users table is empty
	BootstrapUsername string `env:"BOOTSTRAP_ADMIN_USERNAME"`
	BootstrapPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	BootstrapEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
}

// ParseFlags reads the environment, then lets CLI flags override it
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("dcon-scoreboard", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "JWT signing secret (prefer env)")

	// One-shot commands
	fs.BoolVar(&cfg.SeedSchedule, "seed-schedule", false, "Seed the default event schedule and exit")
	fs.BoolVar(&cfg.SeedClear, "seed-clear", false, "With -seed-schedule, delete existing events first")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return Config{}, errors.New("token lifetimes must be positive")
	}

	if _, err := time.LoadLocation(cfg.EventTimezone); err != nil {
		return Config{}, fmt.Errorf("invalid EVENT_TIMEZONE: %w", err)
	}
	if _, err := time.Parse(time.DateOnly, cfg.EventStartDate); err != nil {
		return Config{}, fmt.Errorf("invalid EVENT_START_DATE: %w", err)
	}

	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	return cfg, nil
}

// IsProduction reports whether the app runs with production settings
func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
