// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware, the access control gate,
and JSON helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Each completed request is logged through zap.L() with method, path,
matched pattern, status and duration_ms, and counted in the
scoreboard_http_requests_total and scoreboard_http_request_duration_seconds
metrics. Metrics are labelled by pattern, not path.

# Access Control Gate

	gate := middleware.NewGate(store, tokenIssuer)
	mux.HandleFunc("POST /scores/{$}", middleware.WithLogging(gate.RequireAdmin(h.Adjust)))

Three levels:

  - public-read: registered without the gate
  - authenticated-read: RequireAuth, 401 without a valid access token
  - admin-write: RequireAdmin, 401 as above, 403 unless admin or superuser

The gate loads the user row on every request, so role changes apply
immediately. Rejection happens before the handler runs; handlers read
the caller with UserFrom(r.Context()).

# Recovery and CORS

	handler := middleware.Recover(middleware.CORS(cfg.CORSOrigins)(mux))

Recover answers a panic with a JSON 500 and reports it to Sentry.
CORS allows GET, POST, PUT, PATCH, DELETE with Content-Type and
Authorization headers for the configured origins.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
	middleware.ValidationErrorResponse(w, map[string]string{"name": "required"})
	middleware.InternalError(w, r, "Failed to load members", err)

Error bodies are {"error": "..."}; validation failures add a "fields"
map. InternalError logs and reports err but only sends the message.

Parse JSON request bodies (capped at MaxBodyBytes):

	var req models.MemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP; used in request logs.
*/
package middleware
