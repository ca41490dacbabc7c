// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Environment variables are read first (github.com/caarlos0/env), then
CLI flags override them. main loads a .env file before calling ParseFlags.

# Environment Variables

	PORT                      server port (default 8000)
	DATABASE_URL              PostgreSQL connection string (required)
	JWT_SECRET                HS256 signing secret (required)
	JWT_ISSUER                token issuer (default dcon-scoreboard)
	ACCESS_TOKEN_TTL          access token lifetime (default 15m)
	REFRESH_TOKEN_TTL         refresh token lifetime (default 24h)
	LOG_LEVEL                 debug, info, warn, error (default info)
	APP_ENV                   dev or prod (default dev)
	SENTRY_DSN                enables Sentry reporting when set
	RELEASE                   release tag reported to Sentry
	CORS_ORIGINS              comma separated allowed origins
	EVENT_TIMEZONE            schedule seeding timezone (default Africa/Cairo)
	EVENT_START_DATE          first event day, YYYY-MM-DD (default 2026-02-10)
	BOOTSTRAP_ADMIN_USERNAME  first superuser, created on an empty users table
	BOOTSTRAP_ADMIN_PASSWORD
	BOOTSTRAP_ADMIN_EMAIL

# CLI Flags

	-p              Server port
	-d              Database URL
	-log-level      Log level
	-jwt-secret     JWT signing secret
	-seed-schedule  Seed the default schedule and exit
	-seed-clear     Delete existing events before seeding

# Validation

ParseFlags returns an error if:

  - DATABASE_URL or JWT_SECRET is missing
  - the port is outside 1-65535
  - a token lifetime is not positive
  - EVENT_TIMEZONE or EVENT_START_DATE does not parse
*/
package cliparse
