// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/dcon-scoreboard/metrics"
	"github.com/danielhkuo/dcon-scoreboard/middleware"
	"github.com/danielhkuo/dcon-scoreboard/models"
	"github.com/danielhkuo/dcon-scoreboard/store"
)

// MaxTransactionLimit caps ?limit= on the audit log
const MaxTransactionLimit = 500

type ScoreHandler struct {
	store *store.Store
}

func NewScoreHandler(db *sql.DB) *ScoreHandler {
	return &ScoreHandler{store: store.New(db)}
}

// Adjust handles POST /scores/
// Applies a signed delta to a member and records it in the audit log.
func (h *ScoreHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req models.AdjustScoreRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	member, txn, err := h.store.AdjustScore(r.Context(), req.MemberID, *req.Points, req.Reason)
	if err != nil {
		writeStoreError(w, r, err, "Member")
		return
	}

	metrics.ScoreAdjustments.Inc()

	actor, _ := middleware.UserFrom(r.Context())
	zap.L().Info("score adjusted",
		zap.Int64("member_id", member.ID),
		zap.Int64("points", txn.Points),
		zap.Int64("score", member.Score),
		zap.Int64("transaction_id", txn.ID),
		zap.String("by", actor.Username),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.AdjustScoreResponse{
		Member:      member,
		Transaction: txn,
	})
}

// List handles GET /scores/?limit=N
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	n := store.DefaultTransactionLimit
	if limit != nil {
		n = int(min(*limit, MaxTransactionLimit))
	}

	txns, err := h.store.ListTransactions(r.Context(), n)
	if err != nil {
		middleware.InternalError(w, r, "Failed to load transactions", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, txns)
}
