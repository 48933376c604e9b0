// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/mushroom-rally/auth"
	"github.com/danielhkuo/mushroom-rally/cliparse"
	"github.com/danielhkuo/mushroom-rally/db"
	"github.com/danielhkuo/mushroom-rally/middleware"
	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/danielhkuo/mushroom-rally/roomview"
)

type ProfileHandler struct {
	store *db.Store
	view  *roomview.View
	cfg   cliparse.Config
}

func NewProfileHandler(store *db.Store, view *roomview.View, cfg cliparse.Config) *ProfileHandler {
	return &ProfileHandler{store: store, view: view, cfg: cfg}
}

// SaveProfile handles PUT /profiles/me
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	deviceUUID := r.Header.Get(middleware.HeaderDeviceUUID)
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var req models.SaveProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalid, "nickname is required")
		return
	}
	friendCode, err := auth.ValidateFriendCode(req.FriendCode, h.cfg.MasterToken)
	if err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalid, "friend_code must be 12 digits")
		return
	}

	profile, err := h.store.SaveProfile(r.Context(), models.Profile{
		DeviceUUID:  deviceUUID,
		Nickname:    nickname,
		FriendCode:  friendCode,
		ClaimsAdmin: req.ClaimsAdmin,
	})
	if err != nil {
		slog.Error("failed to save profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("profile saved", "friend_code", friendCode)
	middleware.JSONResponse(w, http.StatusOK, h.withAdmin(profile))
}

// GetMe handles GET /profiles/me
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.withAdmin(profile))
}

// GetMyRooms handles GET /profiles/me/rooms
// Splits the live board into rooms this profile hosts and rooms it joined.
func (h *ProfileHandler) GetMyRooms(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	rooms := h.view.Rooms()
	middleware.JSONResponse(w, http.StatusOK, models.MyRoomsResponse{
		Hosted: roomview.HostedBy(rooms, profile.FriendCode),
		Joined: roomview.JoinedBy(rooms, profile.FriendCode),
	})
}

func (h *ProfileHandler) loadProfile(w http.ResponseWriter, r *http.Request) (models.Profile, bool) {
	deviceUUID := r.Header.Get(middleware.HeaderDeviceUUID)
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return models.Profile{}, false
	}

	profile, err := h.store.GetProfile(r.Context(), deviceUUID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Profile not found")
		return models.Profile{}, false
	}
	if err != nil {
		slog.Error("failed to query profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Profile{}, false
	}
	return profile, true
}

// withAdmin recomputes is_admin; the stored claim alone never grants it
func (h *ProfileHandler) withAdmin(p models.Profile) models.Profile {
	p.IsAdmin = auth.IsAdmin(p.FriendCode, p.ClaimsAdmin, h.cfg.MasterToken)
	return p
}
