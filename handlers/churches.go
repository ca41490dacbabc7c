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

type ChurchHandler struct {
	store *store.Store
}

func NewChurchHandler(db *sql.DB) *ChurchHandler {
	return &ChurchHandler{store: store.New(db)}
}

// List handles GET /churches/
func (h *ChurchHandler) List(w http.ResponseWriter, r *http.Request) {
	churches, err := h.store.ListChurches(r.Context())
	if err != nil {
		middleware.InternalError(w, r, "Failed to load churches", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, churches)
}

// Get handles GET /churches/{id}/
func (h *ChurchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.store.GetChurchDetail(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "Church")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// Create handles POST /churches/manage/
func (h *ChurchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ChurchRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	church, err := h.store.CreateChurch(r.Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		writeStoreError(w, r, err, "Church")
		return
	}

	zap.L().Info("church created", zap.Int64("church_id", church.ID), zap.String("slug", church.Slug))

	middleware.JSONResponse(w, http.StatusCreated, church)
}

// Update handles PUT /churches/manage/{id}/
func (h *ChurchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.ChurchRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	church, err := h.store.UpdateChurch(r.Context(), id, req.Name, req.Slug, req.Description)
	if err != nil {
		writeStoreError(w, r, err, "Church")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, church)
}

// Delete handles DELETE /churches/manage/{id}/
// Members and their transactions go with the church.
func (h *ChurchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteChurch(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "Church")
		return
	}

	zap.L().Info("church deleted", zap.Int64("church_id", id))

	w.WriteHeader(http.StatusNoContent)
}
