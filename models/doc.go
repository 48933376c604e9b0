// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Participant: id, nickname, friend_code
  - Room: an invitation with a host, a capacity (slots) and an ordered
    participant list that never contains the host and never repeats a
    friend code
  - ChangeEvent: insert/update/delete/resync notification for the room set
  - Profile: pass-through user profile; is_admin is derived, never stored

# Request Types

  - CreateRoomRequest: category, attribute, slots, image_url, start_time, min_strength
  - KickRequest: friend_code
  - SaveProfileRequest: nickname, friend_code, claims_admin

# Response Types

  - CreateRoomResponse: room, share_url
  - ListRoomsResponse: rooms
  - ShareLinkResponse: token, share_url
  - MyRoomsResponse: hosted, joined
  - TipResponse: tip
  - ErrorResponse: error, message, code

# Constants

Status values:

	StatusActive = "active"
	StatusFull   = "full"
	StatusClosed = "closed"

Status is informational only; admission is decided from slots and the
participant list.

Error codes (ErrorResponse.Code):

	room_full, already_joined, host_cannot_join,
	unauthorized, not_found, invalid, transport
*/
package models
