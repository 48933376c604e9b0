// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Mushroom Rally API.

# Handler Types

Each handler is a struct with its dependencies injected by the router:

  - RoomHandler: room lifecycle, membership, share links and the board
  - ProfileHandler: per-device profile and "my rooms"
  - TipHandler: advisory battle tips

	roomHandler := handlers.NewRoomHandler(store, coord, view, cfg)

# Caller Identity

Every mutating request names its caller with headers:

	X-Friend-Code  12 digits, spaces allowed
	X-Nickname     display name (create and join)
	X-Admin-Claim  "true" to claim admin; honored only for the master token

Identity is rebuilt per request; nothing stored is trusted for authority.

# Room Lifecycle

	POST   /rooms            → CreateRoom (returns room and share_url)
	POST   /rooms/{id}/join  → JoinRoom
	POST   /rooms/{id}/leave → LeaveRoom (absent caller is a no-op)
	POST   /rooms/{id}/kick  → KickParticipant (host only)
	DELETE /rooms/{id}       → DeleteRoom (host or admin, 204)

All membership changes go through membership.Coordinator, so capacity and
uniqueness hold under concurrent requests.

# Errors

Failures carry a machine readable code next to the message:

	{"error": "Conflict", "message": "room is full", "code": "room_full"}

	401 unauthorized      missing or malformed caller identity
	403 unauthorized      caller lacks authority
	404 not_found
	409 room_full, already_joined, host_cannot_join
	400 invalid
	500 transport
*/
package handlers
