// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/mushroom-rally/membership"
	"github.com/danielhkuo/mushroom-rally/middleware"
	"github.com/danielhkuo/mushroom-rally/models"
)

// callerFromRequest reads the identity headers. Nothing here is trusted:
// the admin claim is only a claim until auth.IsAdmin checks it.
func callerFromRequest(r *http.Request) membership.Caller {
	claim, _ := strconv.ParseBool(strings.TrimSpace(r.Header.Get(middleware.HeaderAdminClaim)))
	return membership.Caller{
		FriendCode:  strings.TrimSpace(r.Header.Get(middleware.HeaderFriendCode)),
		Nickname:    strings.TrimSpace(r.Header.Get(middleware.HeaderNickname)),
		ClaimsAdmin: claim,
	}
}

// requireFriendCode writes a 401 and returns false when the caller sent no
// friend code
func requireFriendCode(w http.ResponseWriter, caller membership.Caller) bool {
	if caller.FriendCode == "" {
		middleware.CodedErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthorized, middleware.HeaderFriendCode+" header required")
		return false
	}
	return true
}

// writeMembershipError translates coordinator errors into HTTP responses
func writeMembershipError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, membership.ErrInvalidCaller):
		middleware.CodedErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthorized, err.Error())
	case errors.Is(err, membership.ErrUnauthorized):
		middleware.CodedErrorResponse(w, http.StatusForbidden, models.CodeUnauthorized, "Not allowed for this room")
	case errors.Is(err, membership.ErrRoomFull):
		middleware.CodedErrorResponse(w, http.StatusConflict, models.CodeRoomFull, "Room is full")
	case errors.Is(err, membership.ErrAlreadyJoined):
		middleware.CodedErrorResponse(w, http.StatusConflict, models.CodeAlreadyJoined, "Already joined this room")
	case errors.Is(err, membership.ErrHostCannotJoin):
		middleware.CodedErrorResponse(w, http.StatusConflict, models.CodeHostCannotJoin, "Host cannot join own room")
	case errors.Is(err, membership.ErrNotFound):
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Room not found")
	case errors.Is(err, membership.ErrInvalidRoom):
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalid, err.Error())
	default:
		slog.Error("membership operation failed", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeTransport, "Database error")
	}
}
