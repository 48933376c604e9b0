// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/mushroom-rally/cliparse"
	"github.com/danielhkuo/mushroom-rally/db"
	"github.com/danielhkuo/mushroom-rally/membership"
	"github.com/danielhkuo/mushroom-rally/middleware"
	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/danielhkuo/mushroom-rally/roomview"
	"github.com/danielhkuo/mushroom-rally/sharelink"
)

type RoomHandler struct {
	store *db.Store
	coord *membership.Coordinator
	view  *roomview.View
	cfg   cliparse.Config
}

func NewRoomHandler(store *db.Store, coord *membership.Coordinator, view *roomview.View, cfg cliparse.Config) *RoomHandler {
	return &RoomHandler{store: store, coord: coord, view: view, cfg: cfg}
}

// CreateRoom handles POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !requireFriendCode(w, caller) {
		return
	}

	var req models.CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	room, err := h.coord.Create(r.Context(), caller, req)
	if err != nil {
		writeMembershipError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRoomResponse{
		Room:     room,
		ShareURL: sharelink.URL(h.cfg.ShareBaseURL, room),
	})
}

// ListRooms handles GET /rooms?since=<RFC3339>
// Without since, rooms younger than the configured TTL are returned.
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-h.cfg.RoomTTL)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalid, "since must be an RFC3339 timestamp")
			return
		}
		since = parsed
	}

	rooms, err := h.store.FetchActiveRooms(r.Context(), since)
	if err != nil {
		slog.Error("failed to fetch rooms", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeTransport, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListRoomsResponse{Rooms: rooms})
}

// GetRoom handles GET /rooms/{id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")

	room, err := h.store.GetRoom(r.Context(), roomID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "room_id", roomID, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeTransport, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, room)
}

// JoinRoom handles POST /rooms/{id}/join
func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !requireFriendCode(w, caller) {
		return
	}

	room, err := h.coord.Join(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		writeMembershipError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, room)
}

// LeaveRoom handles POST /rooms/{id}/leave
func (h *RoomHandler) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !requireFriendCode(w, caller) {
		return
	}

	room, err := h.coord.Leave(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		writeMembershipError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, room)
}

// KickParticipant handles POST /rooms/{id}/kick
func (h *RoomHandler) KickParticipant(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !requireFriendCode(w, caller) {
		return
	}

	var req models.KickRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	room, err := h.coord.Kick(r.Context(), r.PathValue("id"), caller, req.FriendCode)
	if err != nil {
		writeMembershipError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, room)
}

// DeleteRoom handles DELETE /rooms/{id}
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !requireFriendCode(w, caller) {
		return
	}

	if err := h.coord.Delete(r.Context(), r.PathValue("id"), caller); err != nil {
		writeMembershipError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ShareRoom handles GET /rooms/{id}/share
func (h *RoomHandler) ShareRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")

	room, err := h.store.GetRoom(r.Context(), roomID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "room_id", roomID, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeTransport, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ShareLinkResponse{
		Token:    sharelink.Encode(room),
		ShareURL: sharelink.URL(h.cfg.ShareBaseURL, room),
	})
}

// DecodeShare handles GET /share/{token}
// The decoded room is a preview; it is not stored.
func (h *RoomHandler) DecodeShare(w http.ResponseWriter, r *http.Request) {
	room, ok := sharelink.Decode(r.PathValue("token"))
	if !ok {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalid, "Invalid share link")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, room)
}

// Board handles GET /board
// Serves the server's live room view without touching the database.
func (h *RoomHandler) Board(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ListRoomsResponse{Rooms: h.view.Rooms()})
}
