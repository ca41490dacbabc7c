// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/dcon-scoreboard/auth"
	"github.com/danielhkuo/dcon-scoreboard/cliparse"
	"github.com/danielhkuo/dcon-scoreboard/handlers"
	"github.com/danielhkuo/dcon-scoreboard/metrics"
	"github.com/danielhkuo/dcon-scoreboard/middleware"
	"github.com/danielhkuo/dcon-scoreboard/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	gate := middleware.NewGate(store.New(db), tokens)

	// Initialize handlers
	leaderboardHandler := handlers.NewLeaderboardHandler(db)
	churchHandler := handlers.NewChurchHandler(db)
	memberHandler := handlers.NewMemberHandler(db)
	scoreHandler := handlers.NewScoreHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(db)
	accountHandler := handlers.NewAccountHandler(db, tokens)

	public := middleware.WithLogging
	authed := func(h http.HandlerFunc) http.HandlerFunc { return middleware.WithLogging(gate.RequireAuth(h)) }
	admin := func(h http.HandlerFunc) http.HandlerFunc { return middleware.WithLogging(gate.RequireAdmin(h)) }

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		start := time.Now()
		err := db.PingContext(ctx)
		metrics.ObserveDBPing(time.Since(start))
		if err != nil {
			zap.L().Warn("health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("DB UNAVAILABLE"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Leaderboards (public, export is admin)
	mux.HandleFunc("GET /leaderboard/{$}", public(leaderboardHandler.Churches))
	mux.HandleFunc("GET /leaderboard/members/{$}", public(leaderboardHandler.Members))
	mux.HandleFunc("GET /leaderboard/export/{$}", admin(leaderboardHandler.Export))

	// Churches
	mux.HandleFunc("GET /churches/{$}", public(churchHandler.List))
	mux.HandleFunc("GET /churches/{id}/{$}", public(churchHandler.Get))
	mux.HandleFunc("POST /churches/manage/{$}", admin(churchHandler.Create))
	mux.HandleFunc("PUT /churches/manage/{id}/{$}", admin(churchHandler.Update))
	mux.HandleFunc("DELETE /churches/manage/{id}/{$}", admin(churchHandler.Delete))

	// Members
	mux.HandleFunc("GET /members/{$}", public(memberHandler.List))
	mux.HandleFunc("GET /members/{id}/{$}", public(memberHandler.Get))
	mux.HandleFunc("GET /members/{id}/transactions/{$}", public(memberHandler.Transactions))
	mux.HandleFunc("POST /members/manage/{$}", admin(memberHandler.Create))
	mux.HandleFunc("PUT /members/manage/{id}/{$}", admin(memberHandler.Update))
	mux.HandleFunc("DELETE /members/manage/{id}/{$}", admin(memberHandler.Delete))

	// Scores
	mux.HandleFunc("POST /scores/{$}", admin(scoreHandler.Adjust))
	mux.HandleFunc("GET /scores/{$}", authed(scoreHandler.List))

	// Schedule
	mux.HandleFunc("GET /schedule/{$}", public(scheduleHandler.List))
	mux.HandleFunc("GET /schedule/{id}/{$}", public(scheduleHandler.Get))
	mux.HandleFunc("POST /schedule/manage/{$}", admin(scheduleHandler.Create))
	mux.HandleFunc("PUT /schedule/manage/{id}/{$}", admin(scheduleHandler.Replace))
	mux.HandleFunc("PATCH /schedule/manage/{id}/{$}", admin(scheduleHandler.Patch))
	mux.HandleFunc("DELETE /schedule/manage/{id}/{$}", admin(scheduleHandler.Delete))

	// Accounts
	mux.HandleFunc("POST /auth/register/{$}", public(accountHandler.Register))
	mux.HandleFunc("POST /auth/login/{$}", public(accountHandler.Login))
	mux.HandleFunc("POST /auth/refresh/{$}", public(accountHandler.Refresh))
	mux.HandleFunc("GET /auth/profile/{$}", authed(accountHandler.Profile))
	mux.HandleFunc("POST /auth/logout/{$}", authed(accountHandler.Logout))
	mux.HandleFunc("POST /auth/change-password/{$}", authed(accountHandler.ChangePassword))
	mux.HandleFunc("GET /auth/users/{$}", admin(accountHandler.Users))
	mux.HandleFunc("POST /auth/users/{id}/toggle-admin/{$}", admin(accountHandler.ToggleAdmin))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("dcon-scoreboard API v1"))
	})

	return mux
}
