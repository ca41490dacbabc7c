// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db applies the database schema.

# Migrations

Migrate runs the goose migrations embedded from db/migrations:

	if err := db.Migrate(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - goose records applied versions in
goose_db_version and skips them.

# Tables

  - church: competing teams, slug is unique
  - member: individuals, each in exactly one church, with a running score
  - score_transaction: append-only audit log of score deltas
  - schedule_event: timetable entries grouped by day
  - sub_event: parallel sessions under a schedule event
  - users: accounts and roles
  - token_blacklist: revoked refresh tokens by jti

# Relationships

	church 1──* member
	member 1──* score_transaction
	church 1──* score_transaction (legacy rows only)
	schedule_event 1──* sub_event
	users 1──* token_blacklist

Scoreboard foreign keys do not cascade. The store deletes dependents
explicitly inside the same transaction as the parent, so a failed
delete leaves everything in place.

# Legacy Transactions

score_transaction allows member_id or church_id, never both. New rows
always target a member; church rows are history from an earlier
church-level scoring flow and are never written again.
*/
package db
