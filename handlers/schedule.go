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

type ScheduleHandler struct {
	store *store.Store
}

func NewScheduleHandler(db *sql.DB) *ScheduleHandler {
	return &ScheduleHandler{store: store.New(db)}
}

// List handles GET /schedule/?day=N
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	day, ok := queryInt(w, r, "day")
	if !ok {
		return
	}

	var dayFilter *int
	if day != nil {
		d := int(*day)
		dayFilter = &d
	}

	events, err := h.store.ListSchedule(r.Context(), dayFilter)
	if err != nil {
		middleware.InternalError(w, r, "Failed to load schedule", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, events)
}

// Get handles GET /schedule/{id}/
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ev, err := h.store.GetScheduleEvent(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "Schedule event")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ev)
}

// Create handles POST /schedule/manage/
// Sub-events are created in the order given.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleEventRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ev, err := h.store.CreateScheduleEvent(r.Context(), req.Patch())
	if err != nil {
		writeStoreError(w, r, err, "Schedule event")
		return
	}

	zap.L().Info("schedule event created",
		zap.Int64("event_id", ev.ID),
		zap.Int("day", ev.Day),
		zap.Int("sub_events", len(ev.SubEvents)),
	)

	middleware.JSONResponse(w, http.StatusCreated, ev)
}

// Replace handles PUT /schedule/manage/{id}/
// Every event field is overwritten. A sub_events list, when present,
// replaces the existing sub-events wholesale.
func (h *ScheduleHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.ScheduleEventRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	h.update(w, r, id, req.Patch())
}

// Patch handles PATCH /schedule/manage/{id}/
// Only the fields present in the body change, e.g. {"is_done": true}.
func (h *ScheduleHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch models.ScheduleEventPatch
	if !decodeRequest(w, r, &patch) {
		return
	}

	h.update(w, r, id, patch)
}

func (h *ScheduleHandler) update(w http.ResponseWriter, r *http.Request, id int64, patch models.ScheduleEventPatch) {
	ev, err := h.store.UpdateScheduleEvent(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, r, err, "Schedule event")
		return
	}

	fields := []zap.Field{zap.Int64("event_id", ev.ID), zap.Bool("is_done", ev.IsDone)}
	if patch.SubEvents != nil {
		fields = append(fields, zap.Int("sub_events_replaced", len(ev.SubEvents)))
	}
	zap.L().Info("schedule event updated", fields...)

	middleware.JSONResponse(w, http.StatusOK, ev)
}

// Delete handles DELETE /schedule/manage/{id}/
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteScheduleEvent(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "Schedule event")
		return
	}

	zap.L().Info("schedule event deleted", zap.Int64("event_id", id))

	w.WriteHeader(http.StatusNoContent)
}
