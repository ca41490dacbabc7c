// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/dcon-scoreboard/middleware"
	"github.com/danielhkuo/dcon-scoreboard/models"
	"github.com/danielhkuo/dcon-scoreboard/store"
)

type MemberHandler struct {
	store *store.Store
}

func NewMemberHandler(db *sql.DB) *MemberHandler {
	return &MemberHandler{store: store.New(db)}
}

// List handles GET /members/?church=ID
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	churchID, ok := queryInt(w, r, "church")
	if !ok {
		return
	}

	members, err := h.store.ListMembers(r.Context(), churchID)
	if err != nil {
		middleware.InternalError(w, r, "Failed to load members", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, members)
}

// Get handles GET /members/{id}/
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	member, err := h.store.GetMember(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "Member")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, member)
}

// Transactions handles GET /members/{id}/transactions/
func (h *MemberHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	txns, err := h.store.ListMemberTransactions(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "Member")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, txns)
}

// Create handles POST /members/manage/
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MemberRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	var score int64
	if req.Score != nil {
		score = *req.Score
	}

	member, err := h.store.CreateMember(r.Context(), req.Name, req.ChurchID, score)
	if err != nil {
		writeStoreError(w, r, err, "Member")
		return
	}

	zap.L().Info("member created",
		zap.Int64("member_id", member.ID),
		zap.Int64("church_id", member.ChurchID),
	)

	middleware.JSONResponse(w, http.StatusCreated, member)
}

// Update handles PUT /members/manage/{id}/
// Direct score edits here bypass the transaction log.
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.MemberRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	member, err := h.store.UpdateMember(r.Context(), id, req.Name, req.ChurchID, req.Score)
	if err != nil {
		writeStoreError(w, r, err, "Member")
		return
	}

	if req.Score != nil {
		zap.L().Info("member score overwritten",
			zap.Int64("member_id", member.ID),
			zap.Int64("score", member.Score),
		)
	}

	middleware.JSONResponse(w, http.StatusOK, member)
}

// Delete handles DELETE /members/manage/{id}/
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteMember(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "Member")
		return
	}

	zap.L().Info("member deleted", zap.Int64("member_id", id))

	w.WriteHeader(http.StatusNoContent)
}
