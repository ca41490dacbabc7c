// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the scoreboard API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - LeaderboardHandler: church and member standings, xlsx export
  - ChurchHandler: church listing, detail and admin CRUD
  - MemberHandler: member listing, transactions and admin CRUD
  - ScoreHandler: score adjustment and the audit log
  - ScheduleHandler: schedule events with nested sub-events
  - AccountHandler: register, login, token refresh and role management

Handlers are created via constructor functions that accept *sql.DB (AccountHandler also takes the
token issuer):

	churchHandler := handlers.NewChurchHandler(db)

Access levels are enforced by middleware.Gate before a handler runs;
handlers read the caller with middleware.UserFrom.

# Score Adjustment

	POST /scores/ {"member_id": 1, "points": -5, "reason": "penalty"}

The member's score and the new transaction row are written in one
database transaction. The response is 201 with both:

	{"member": {...}, "transaction": {...}}

# Schedule Updates

PUT overwrites every event field, PATCH only the fields present. In both,
a "sub_events" list replaces all existing sub-events when present and
leaves them alone when omitted. An empty list clears them.

# Errors

Every error body is {"error": "..."}. Validation failures add a
"fields" map keyed by JSON path, e.g. "sub_events[0].title".
*/
package handlers
