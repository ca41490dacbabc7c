// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the D-CON scoreboard API server.

The scoreboard tracks churches competing at the event, their members'
individual scores with an audit trail of every adjustment, and the event
schedule with nested sub-sessions.

# Starting the Server

The server reads environment variables (and a .env file if present) and
lets CLI flags override them:

	DATABASE_URL=postgres://... JWT_SECRET=... go run .

Or with flags:

	go run . -p 8000 -d "postgres://..." -jwt-secret "..."

Migrations run on every start.

# Seeding

	go run . -seed-schedule              - Add the bundled event schedule
	go run . -seed-schedule -seed-clear  - Replace the existing schedule

When BOOTSTRAP_ADMIN_USERNAME and BOOTSTRAP_ADMIN_PASSWORD are set and no
account exists yet, a superuser is created at startup.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): Token signing secret

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - LOG_LEVEL (-log-level): debug, info, warn, error (default: info)
  - APP_ENV: "prod" switches to JSON logs (default: dev)
  - SENTRY_DSN, RELEASE: error reporting
  - CORS_ORIGINS: comma-separated allowed origins
  - ACCESS_TOKEN_TTL, REFRESH_TOKEN_TTL: token lifetimes (15m, 24h)
  - EVENT_TIMEZONE, EVENT_START_DATE: schedule seeding (Africa/Cairo, 2026-02-10)

# Architecture

  - handlers: HTTP request handlers (leaderboard, churches, members, scores, schedule, accounts)
  - router: Route definitions using Go 1.22+ routing
  - middleware: access gate, CORS, logging, recovery, JSON helpers
  - store: Postgres queries and transactions
  - models: Domain and request/response types
  - auth: Passwords, JWTs and role-change rules
  - db: Embedded goose migrations
  - export: Excel standings workbook
  - seed: Schedule seeding and bootstrap superuser
  - logging, metrics, observability: zap, Prometheus, Sentry
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
