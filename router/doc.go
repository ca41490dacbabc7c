// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the scoreboard API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

Collection and item paths end in a slash and are matched exactly
with the {$} wildcard.

# Access Levels

  - public: no credential
  - auth: a valid access token (Authorization: Bearer ...)
  - admin: a valid access token for an admin or superuser

The gate reads the caller's role from the database on every request.

# Endpoints

Health and metrics (public):

	GET /health  - DB ping
	GET /metrics - Prometheus exposition

Leaderboards:

	GET /leaderboard/         - Church standings (public)
	GET /leaderboard/members/ - Member standings (public)
	GET /leaderboard/export/  - Standings workbook (admin)

Churches and members:

	GET    /churches/                   - List (public)
	GET    /churches/{id}/              - Detail with members (public)
	POST   /churches/manage/            - Create (admin)
	PUT    /churches/manage/{id}/       - Update (admin)
	DELETE /churches/manage/{id}/       - Delete with members (admin)
	GET    /members/?church=ID          - List (public)
	GET    /members/{id}/               - Detail (public)
	GET    /members/{id}/transactions/  - Score history (public)
	POST   /members/manage/             - Create (admin)
	PUT    /members/manage/{id}/        - Update (admin)
	DELETE /members/manage/{id}/        - Delete (admin)

Scores:

	POST /scores/         - Adjust a member's score (admin)
	GET  /scores/?limit=N - Audit log (auth)

Schedule:

	GET                  /schedule/?day=N         - List (public)
	GET                  /schedule/{id}/          - Detail (public)
	POST                 /schedule/manage/        - Create (admin)
	PUT, PATCH, DELETE   /schedule/manage/{id}/   - Update or delete (admin)

Accounts:

	POST /auth/register/, /auth/login/, /auth/refresh/ (public)
	GET  /auth/profile/, POST /auth/logout/, POST /auth/change-password/ (auth)
	GET  /auth/users/, POST /auth/users/{id}/toggle-admin/ (admin)
*/
package router
