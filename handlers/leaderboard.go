// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/dcon-scoreboard/export"
	"github.com/danielhkuo/dcon-scoreboard/middleware"
	"github.com/danielhkuo/dcon-scoreboard/store"
)

type LeaderboardHandler struct {
	store *store.Store
}

func NewLeaderboardHandler(db *sql.DB) *LeaderboardHandler {
	return &LeaderboardHandler{store: store.New(db)}
}

// Churches handles GET /leaderboard/
func (h *LeaderboardHandler) Churches(w http.ResponseWriter, r *http.Request) {
	standings, err := h.store.ChurchLeaderboard(r.Context())
	if err != nil {
		middleware.InternalError(w, r, "Failed to load leaderboard", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, standings)
}

// Members handles GET /leaderboard/members/
func (h *LeaderboardHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.MemberLeaderboard(r.Context())
	if err != nil {
		middleware.InternalError(w, r, "Failed to load leaderboard", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, members)
}

// Export handles GET /leaderboard/export/
func (h *LeaderboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	churches, err := h.store.ChurchLeaderboard(r.Context())
	if err != nil {
		middleware.InternalError(w, r, "Failed to load leaderboard", err)
		return
	}
	members, err := h.store.MemberLeaderboard(r.Context())
	if err != nil {
		middleware.InternalError(w, r, "Failed to load leaderboard", err)
		return
	}

	// Render fully before writing headers so a failure can still be a JSON 500
	var buf bytes.Buffer
	if err := export.Write(&buf, churches, members); err != nil {
		middleware.InternalError(w, r, "Failed to build export", err)
		return
	}

	u, _ := middleware.UserFrom(r.Context())
	zap.L().Info("standings exported",
		zap.String("user", u.Username),
		zap.Int("churches", len(churches)),
		zap.Int("members", len(members)),
	)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		zap.L().Warn("failed to send export", zap.Error(err))
	}
}
